package cmd

import (
	"encoding/base64"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/crypt"
	"github.com/tutils/sprng/crypt/xor"
)

// cmdlineKey keys the obfuscation of "@" command lines, which keep crypt
// keys out of process listings.
const cmdlineKey = 33280939

func cmdlineCrypt() (crypt.Crypt, error) {
	return xor.NewCrypt(cmdlineKey,
		xor.WithType(sprng.LCG),
		xor.WithGeneratorOptions(sprng.WithRegistry(sprng.NewRegistry(zerolog.Nop()))))
}

func encodeCmdline(args []string) (string, error) {
	c, err := cmdlineCrypt()
	if err != nil {
		return "", err
	}
	w1 := &strings.Builder{}
	w2 := base64.NewEncoder(base64.RawURLEncoding, w1)
	w3 := c.NewEncoder(w2)
	if err := gob.NewEncoder(w3).Encode(args); err != nil {
		return "", err
	}
	if err := w2.Close(); err != nil {
		return "", err
	}
	return w1.String(), nil
}

func decodeCmdline(s string) ([]string, error) {
	c, err := cmdlineCrypt()
	if err != nil {
		return nil, err
	}
	r1 := strings.NewReader(s)
	r2 := base64.NewDecoder(base64.RawURLEncoding, r1)
	r3 := c.NewDecoder(r2)
	var args []string
	if err := gob.NewDecoder(r3).Decode(&args); err != nil {
		return nil, err
	}
	return args, nil
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode -- ARGS...",
		Short: "Encode a command line",
		Long: `Print an obfuscated form of ARGS that sprng accepts as its only argument, For example:
  sprng encode -- fetch --connect=ws://coordinator:8080/stream --crypt-key=816559
  sprng @<printed text>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := encodeCmdline(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prefix+s)
			return nil
		},
	}
}
