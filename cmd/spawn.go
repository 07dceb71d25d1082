package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newSpawnCmd(a *app) *cobra.Command {
	var (
		index int
		count int
	)
	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Spawn child streams and show them",
		Long: `Spawn child streams from one stream, then describe each child and its first double, For example:
  sprng spawn --type=lcg64 --stream=0 --count=4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.stream(index)
			if err != nil {
				return err
			}
			defer g.Free()
			children, err := g.Spawn(count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range children {
				fmt.Fprintf(out, "child %d: %s", i, c)
				fmtDouble(out, c.Float64())
				c.Free()
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&index, "stream", "i", 0, "parent stream index")
	flags.IntVarP(&count, "count", "c", 2, "how many children")
	return cmd
}

func fmtDouble(w io.Writer, d float64) {
	io.WriteString(w, strconv.FormatFloat(d, 'g', -1, 64)+"\n")
}
