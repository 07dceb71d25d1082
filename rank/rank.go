// Package rank discovers this process's position in a parallel job.
//
// Launchers export the rank and job size through environment variables.
// Without any of them the process is rank 0 of 1.
package rank

import (
	"os"
	"strconv"
)

// envPair names the rank and size variables of one launcher.
type envPair struct {
	rank, size string
}

// launchers are checked in order.
var launchers = []envPair{
	{"OMPI_COMM_WORLD_RANK", "OMPI_COMM_WORLD_SIZE"},
	{"PMI_RANK", "PMI_SIZE"},
	{"PMIX_RANK", "PMIX_SIZE"},
	{"MV2_COMM_WORLD_RANK", "MV2_COMM_WORLD_SIZE"},
	{"SLURM_PROCID", "SLURM_NTASKS"},
	{"SPRNG_RANK", "SPRNG_SIZE"},
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Discover returns the rank and size of this process.
func Discover() (rank, size int) {
	return FromEnv(os.LookupEnv)
}

// FromEnv returns the rank and size found through lookup, or (0, 1) when no
// launcher exported a consistent pair.
func FromEnv(lookup LookupFunc) (rank, size int) {
	for _, l := range launchers {
		r, ok := lookupInt(lookup, l.rank)
		if !ok {
			continue
		}
		s, ok := lookupInt(lookup, l.size)
		if !ok || s < 1 || r < 0 || r >= s {
			continue
		}
		return r, s
	}
	return 0, 1
}

func lookupInt(lookup LookupFunc, key string) (int, bool) {
	v, ok := lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
