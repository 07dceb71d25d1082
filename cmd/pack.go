package cmd

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tutils/sprng/factory"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		index  int
		skip   int
		output string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write the packed state of a stream",
		Long: `Write the packed state of a stream, hex encoded unless --raw, For example:
  sprng pack --type=lfg --stream=3 --streams=16 --skip=1000 --out=stream3.hex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.stream(index)
			if err != nil {
				return err
			}
			defer g.Free()
			for i := 0; i < skip; i++ {
				g.Float64()
			}
			b, err := g.MarshalBinary()
			if err != nil {
				return err
			}
			if !raw {
				b = []byte(hex.EncodeToString(b) + "\n")
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return errors.Wrap(os.WriteFile(output, b, 0o644), "write state")
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&index, "stream", "i", 0, "stream index")
	flags.IntVar(&skip, "skip", 0, "doubles to draw before packing")
	flags.StringVarP(&output, "out", "o", "-", "output file, - for stdout")
	flags.BoolVar(&raw, "raw", false, "write raw bytes instead of hex")
	return cmd
}

func newUnpackCmd(a *app) *cobra.Command {
	var (
		count int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "unpack [FILE]",
		Short: "Restore a packed stream and continue it",
		Long: `Restore a stream written by pack, describe it and print its next doubles, For example:
  sprng unpack stream3.hex --count=5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open state")
				}
				defer f.Close()
				r = f
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return errors.Wrap(err, "read state")
			}
			if !raw {
				if b, err = hex.DecodeString(strings.TrimSpace(string(b))); err != nil {
					return errors.Wrap(err, "decode hex state")
				}
			}

			g, err := factory.Unpack(b, a.genOpts()...)
			if err != nil {
				return err
			}
			defer g.Free()
			out := cmd.OutOrStdout()
			io.WriteString(out, g.String())
			for i := 0; i < count; i++ {
				fmtDouble(out, g.Float64())
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&count, "count", "c", 5, "doubles to print after restoring")
	flags.BoolVar(&raw, "raw", false, "read raw bytes instead of hex")
	return cmd
}
