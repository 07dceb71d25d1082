package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/counter/period"
	"github.com/tutils/sprng/factory"
)

// timingBatch is how many draws are counted at once.
const timingBatch = 1 << 16

func newTimingCmd(a *app) *cobra.Command {
	var trials int
	cmd := &cobra.Command{
		Use:   "timing [TYPE...]",
		Short: "Time integer, float and double draws",
		Long: `Time integer, float and double draws of each generator type (all types by default), For example:
  sprng timing
  sprng timing lcg64 --trials=1000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := []sprng.Type{sprng.LFG, sprng.LCG, sprng.LCG64}
			if len(args) > 0 {
				types = types[:0]
				for _, arg := range args {
					t, err := sprng.ParseType(arg)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
			}
			for _, t := range types {
				if err := a.timeGenerator(cmd.OutOrStdout(), t, trials); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 10000000, "draws per kind")
	return cmd
}

func (a *app) timeGenerator(out io.Writer, t sprng.Type, trials int) error {
	g, err := factory.Init(t, 0, 1, 0, 0, a.genOpts()...)
	if err != nil {
		return err
	}
	defer g.Free()

	kinds := []struct {
		name string
		draw func()
	}{
		{"Integer", func() { g.Int() }},
		{"Float", func() { g.Float32() }},
		{"Double", func() { g.Float64() }},
	}

	fmt.Fprintf(out, "Timing %s:\n", t)
	results := make([]string, 0, len(kinds))
	for _, k := range kinds {
		c := period.NewPeriodCounter(time.Second)
		start := time.Now()
		for done := 0; done < trials; {
			n := min(timingBatch, trials-done)
			for i := 0; i < n; i++ {
				k.draw()
			}
			done += n
			c.Add(int64(n))
		}
		elapsed := time.Since(start)
		if elapsed <= 0 {
			fmt.Fprintln(out, "Timing information not accurate enough for this generator.")
			return nil
		}
		results = append(results, fmt.Sprintf("  %s generator:\tTime = %.3f seconds => %.2f MRS",
			k.name, elapsed.Seconds(), float64(c.Value())/elapsed.Seconds()/1e6))
		a.logger.Debug().Str("gen", t.String()).Str("kind", k.name).
			Int64("rate", c.AverageRatePerSec()).Msg("timed")
	}

	fmt.Fprintf(out, "Last random number generated: %v\n", g.Float64())
	fmt.Fprintln(out, "Wall clock time (MRS = million random numbers per second)")
	fmt.Fprintln(out)
	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	fmt.Fprintln(out)
	return nil
}
