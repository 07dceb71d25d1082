package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/crypt/xor"
	"github.com/tutils/sprng/dist"
	"github.com/tutils/sprng/tun"
	"github.com/tutils/sprng/tun/websocket"
)

// distOpts returns the coordinator options shared by serve and fetch.
func (a *app) distOpts() ([]dist.Option, error) {
	opts := []dist.Option{
		dist.WithLogger(a.logger),
		dist.WithGeneratorOptions(a.genOpts()...),
	}
	if key := a.v.GetInt64("serve.key"); key != 0 {
		c, err := xor.NewCrypt(key, xor.WithGeneratorOptions(sprng.WithRegistry(sprng.NewRegistry(a.logger))))
		if err != nil {
			return nil, err
		}
		opts = append(opts, dist.WithCrypt(c))
	}
	return opts, nil
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Hand out streams to workers",
		Long: `Start a coordinator that gives every connecting worker its rank and the packed
state of its stream, until all streams are handed out, For example:
  sprng serve --listen=ws://0.0.0.0:8080/stream --type=lcg64 --streams=64 --crypt-key=816559`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("listen"))
			return a.v.BindPFlag("serve.key", cmd.Flags().Lookup("crypt-key"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.genType()
			if err != nil {
				return err
			}
			opts, err := a.distOpts()
			if err != nil {
				return err
			}
			streams := a.v.GetInt("streams")
			h, err := dist.NewServer(t, streams, a.v.GetInt("seed"), a.v.GetInt("param"), opts...)
			if err != nil {
				return err
			}
			addr := a.v.GetString("serve.addr")
			s, err := websocket.NewServer(
				tun.WithListenAddress(addr),
				tun.WithServerHandler(h),
				tun.WithServerLogger(a.logger),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				s.Shutdown(shutdownCtx)
			}()

			a.logger.Info().Str("addr", addr).Str("gen", t.String()).Int("streams", streams).Msg("coordinator listening")
			err = s.ListenAndServe()
			a.logger.Info().Int("issued", h.Issued()).Msg("coordinator stopped")
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringP("listen", "l", "ws://0.0.0.0:8080/stream", "coordinator listen address")
	flags.Int64P("crypt-key", "k", 0, "crypt key, 0 disables obfuscation")
	return cmd
}
