package cmd

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/factory"
)

// app is the state shared by every subcommand of one command tree.
type app struct {
	v        *viper.Viper
	cfgFile  string
	logger   zerolog.Logger
	registry *sprng.Registry
}

// NewRootCmd builds the sprng command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sprng",
		Short: "Scalable parallel random number streams.",
		Long: `Scalable parallel random number streams.
Draw, pack, spawn and time independent streams, or hand them out to workers, For example:
  sprng draw --type=lcg64 --seed=4711 --stream=3 --streams=8 -c 5
  sprng serve --listen=ws://0.0.0.0:8080/stream --streams=64 --crypt-key=816559
  sprng fetch --connect=ws://coordinator:8080/stream --crypt-key=816559`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.sprng.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringP("type", "t", "lfg", "generator type: lfg, lcg, lcg64 or its number")
	flags.IntP("seed", "s", 985456376, "seed, only the low 31 bits are used")
	flags.IntP("param", "p", 0, "generator parameter")
	flags.IntP("streams", "n", 1, "total number of streams")
	for key, name := range map[string]string{
		"log.level": "log-level",
		"type":      "type",
		"seed":      "seed",
		"param":     "param",
		"streams":   "streams",
	} {
		a.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newTimingCmd(a),
		newDrawCmd(a),
		newPackCmd(a),
		newUnpackCmd(a),
		newSpawnCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newFetchCmd(a),
		newEncodeCmd(),
	)
	return rootCmd
}

const (
	prefix = "@"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	logger := sprng.NewConsoleLogger(os.Stderr)
	if len(os.Args) == 2 && strings.HasPrefix(os.Args[1], prefix) {
		args, err := decodeCmdline(os.Args[1][len(prefix):])
		if err != nil {
			logger.Fatal().Err(err).Msg("decode command line")
		}
		os.Args = append(os.Args[:1], args...)
	}

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg(rootCmd.Name())
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set, then sets up
// logging.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		// Use config file from the flag.
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "find home directory")
		}

		// Search config in home directory with name ".sprng" (without extension).
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".sprng")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("SPRNG")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv() // read in environment variables that match

	err := a.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !(errors.As(err, &notFound) && a.cfgFile == "") {
		return errors.Wrap(err, "read config")
	}
	configRead := err == nil

	level, err := zerolog.ParseLevel(a.v.GetString("log.level"))
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	a.logger = sprng.NewConsoleLogger(cmd.ErrOrStderr()).Level(level)
	a.registry = sprng.NewRegistry(a.logger)
	if configRead {
		a.logger.Debug().Str("file", a.v.ConfigFileUsed()).Msg("using config file")
	}
	return nil
}

// genType returns the configured generator type.
func (a *app) genType() (sprng.Type, error) {
	return sprng.ParseType(a.v.GetString("type"))
}

func (a *app) genOpts() []sprng.Option {
	return []sprng.Option{sprng.WithRegistry(a.registry)}
}

// stream initializes stream index of the configured job.
func (a *app) stream(index int) (sprng.Generator, error) {
	t, err := a.genType()
	if err != nil {
		return nil, err
	}
	return factory.Init(t, index, a.v.GetInt("streams"), a.v.GetInt("seed"), a.v.GetInt("param"), a.genOpts()...)
}
