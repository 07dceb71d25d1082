package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tutils/sprng/dist"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch this worker's stream from a coordinator",
		Long: `Connect to a coordinator, receive a rank and its stream, describe it and
optionally save the packed state, For example:
  sprng fetch --connect=ws://coordinator:8080/stream --crypt-key=816559 --out=mystream.hex`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			a.v.BindPFlag("fetch.addr", cmd.Flags().Lookup("connect"))
			return a.v.BindPFlag("serve.key", cmd.Flags().Lookup("crypt-key"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.distOpts()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			asg, g, err := dist.Fetch(ctx, a.v.GetString("fetch.addr"), opts...)
			if err != nil {
				return err
			}
			defer g.Free()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rank %d of %d, worker %s\n", asg.Rank, asg.Size, asg.Worker)
			fmt.Fprint(out, g)
			if output != "" {
				b := hex.EncodeToString(asg.State) + "\n"
				if err := os.WriteFile(output, []byte(b), 0o644); err != nil {
					return errors.Wrap(err, "write state")
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringP("connect", "c", "ws://127.0.0.1:8080/stream", "coordinator address")
	flags.Int64P("crypt-key", "k", 0, "crypt key, 0 disables obfuscation")
	flags.StringVarP(&output, "out", "o", "", "save the packed state as hex to this file")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}
