package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tutils/sprng"
)

func newDrawCmd(a *app) *cobra.Command {
	var (
		index int
		count int
		kind  string
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Print numbers from one stream",
		Long: `Print numbers from one stream of the configured job, For example:
  sprng draw --type=lcg --seed=4711 --stream=2 --streams=4 --count=10 --kind=int`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format func(g sprng.Generator) string
			switch kind {
			case "int":
				format = func(g sprng.Generator) string { return strconv.Itoa(g.Int()) }
			case "float":
				format = func(g sprng.Generator) string { return strconv.FormatFloat(float64(g.Float32()), 'g', -1, 32) }
			case "double":
				format = func(g sprng.Generator) string { return strconv.FormatFloat(g.Float64(), 'g', -1, 64) }
			default:
				return errors.Errorf("unknown kind %q, want int, float or double", kind)
			}

			g, err := a.stream(index)
			if err != nil {
				return err
			}
			defer g.Free()

			out := cmd.OutOrStdout()
			if sprng.IsTerminal(out) {
				fmt.Fprint(out, g)
			}
			for i := 0; i < count; i++ {
				fmt.Fprintln(out, format(g))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&index, "stream", "i", 0, "stream index")
	flags.IntVarP(&count, "count", "c", 10, "how many numbers")
	flags.StringVarP(&kind, "kind", "k", "double", "int, float or double")
	return cmd
}
