package rank

import "testing"

func env(kv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := kv[key]
		return v, ok
	}
}

func TestFromEnv(t *testing.T) {
	for _, c := range []struct {
		name       string
		env        map[string]string
		rank, size int
	}{
		{"none", nil, 0, 1},
		{"openmpi", map[string]string{"OMPI_COMM_WORLD_RANK": "3", "OMPI_COMM_WORLD_SIZE": "8"}, 3, 8},
		{"slurm", map[string]string{"SLURM_PROCID": "1", "SLURM_NTASKS": "2"}, 1, 2},
		{"rank without size", map[string]string{"PMI_RANK": "2"}, 0, 1},
		{"rank past size", map[string]string{"PMI_RANK": "4", "PMI_SIZE": "4"}, 0, 1},
		{"garbage", map[string]string{"PMI_RANK": "x", "PMI_SIZE": "4"}, 0, 1},
		{"first consistent wins", map[string]string{
			"OMPI_COMM_WORLD_RANK": "9", "OMPI_COMM_WORLD_SIZE": "2",
			"SLURM_PROCID": "5", "SLURM_NTASKS": "6",
		}, 5, 6},
	} {
		r, s := FromEnv(env(c.env))
		if r != c.rank || s != c.size {
			t.Errorf("%s: got (%d, %d), want (%d, %d)", c.name, r, s, c.rank, c.size)
		}
	}
}

func TestDiscoverDefault(t *testing.T) {
	for _, l := range launchers {
		t.Setenv(l.rank, "")
		t.Setenv(l.size, "")
	}
	if r, s := Discover(); r != 0 || s != 1 {
		t.Fatalf("Discover() = (%d, %d)", r, s)
	}
}
