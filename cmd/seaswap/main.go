package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

const envPrefix = "SEASWAP"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewCLI().Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// CLI is the Cobra-based command-line interface.
type CLI struct {
	root   *cobra.Command
	v      *viper.Viper
	logger log.Logger
}

// NewCLI sets up the CLI.
func NewCLI() *CLI {
	cli := &CLI{v: viper.New()}
	cli.root = &cobra.Command{
		Use:           "seaswap",
		Short:         "Create and fulfill Seaport swap orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.loadConfig(cmd); err != nil {
				return err
			}
			logger, err := log.NewDefaultLoggerWithWriter(cmd.ErrOrStderr(),
				cli.v.GetString(flagLogFormat), cli.v.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			cli.logger = logger
			return nil
		},
	}

	home, _ := os.UserHomeDir()
	flags := cli.root.PersistentFlags()
	flags.String(flagHome, filepath.Join(home, ".seaswap"), "directory holding config.{toml,yaml,json}")
	flags.String(flagLogLevel, log.LogLevelInfo, "log level (debug|info|error)")
	flags.String(flagLogFormat, log.LogFormatPlain, "log format (plain|json)")
	flags.String(flagHost, "", "order record store URL")

	cli.root.AddCommand(
		cli.newCreateCmd(),
		cli.newRecordsCmd(),
		cli.newServeCmd(),
	)
	return cli
}

// Run runs the CLI.
func (cli *CLI) Run(ctx context.Context) error {
	return cli.root.ExecuteContext(ctx)
}

// loadConfig binds the command's flags, the SEASWAP_* environment and an
// optional config file in the home directory, in that order of precedence.
func (cli *CLI) loadConfig(cmd *cobra.Command) error {
	v := cli.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	homeDir := v.GetString(flagHome)
	v.SetConfigName("config")
	v.AddConfigPath(homeDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}
