package cmd

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tutils/sprng/stats"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		index   int
		samples int
		sigma   float64
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run statistical sanity checks on a stream",
		Long: `Check uniformity and serial correlation of one stream and, when the job has more
than one stream, its correlation with the next stream, For example:
  sprng check --type=lfg --stream=0 --streams=2 --samples=1000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.stream(index)
			if err != nil {
				return err
			}
			defer g.Free()
			res, err := stats.Analyze(g, samples)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s", g)
			fmt.Fprintf(out, "  samples         %d\n", res.Length)
			fmt.Fprintf(out, "  mean            %.6f (0.5)\n", res.Mean)
			fmt.Fprintf(out, "  variance        %.6f (%.6f)\n", res.Variance, 1.0/12)
			fmt.Fprintf(out, "  chi-square      %.2f (%d df)\n", res.ChiSquare, stats.Buckets-1)
			fmt.Fprintf(out, "  bucket range    %d..%d\n", res.MinFreq, res.MaxFreq)
			fmt.Fprintf(out, "  entropy         %.4f bits\n", res.ShannonEntropy)
			fmt.Fprintf(out, "  lag-1 corr      %.6f\n", res.Autocorrelation)
			passed := res.Passes(sigma)

			streams := a.v.GetInt("streams")
			if streams > 1 {
				next := (index + 1) % streams
				h, err := a.stream(next)
				if err != nil {
					return err
				}
				defer h.Free()
				r, err := stats.CrossCorrelation(g, h, samples)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  corr stream %-3d %.6f\n", next, r)
				if r > sigma/math.Sqrt(float64(samples)) || r < -sigma/math.Sqrt(float64(samples)) {
					passed = false
				}
			}

			if !passed {
				return errors.Errorf("stream %d failed at %.1f sigma", index, sigma)
			}
			fmt.Fprintln(out, "  ok")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&index, "stream", "i", 0, "stream index")
	flags.IntVar(&samples, "samples", 1000000, "doubles to draw")
	flags.Float64Var(&sigma, "sigma", 6, "allowed deviation in standard deviations")
	return cmd
}
