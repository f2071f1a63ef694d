package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"AdvocateDirectory/internal/app"
	"AdvocateDirectory/internal/config"
	"AdvocateDirectory/internal/logging"
)

const defaultBrowseLog = "advocates-browse.log"

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	logLevel   string
}

type browseFlags struct {
	apiURL    string
	debounce  time.Duration
	logOutput string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// cobra already printed the error
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:          "advocates",
		Short:        "Serve and browse the Solace advocate directory",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (defaults to $ADVOCATES_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(&flags),
		newBrowseCmd(&flags),
		newMigrateCmd(&flags),
		newSeedCmd(&flags),
	)
	return root
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the advocate listing API and directory page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return withApp(cfg, "", func(a *app.Application) error {
				return a.Serve(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	var bf browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search advocates interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			if bf.apiURL != "" {
				cfg.Client.BaseURL = bf.apiURL
			}
			if bf.debounce > 0 {
				cfg.Client.Debounce = bf.debounce
			}
			// The terminal belongs to the UI; keep logs out of it.
			return withApp(cfg, bf.logOutput, func(a *app.Application) error {
				return a.Browse(cmd.Context())
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&bf.apiURL, "api-url", "", "Base URL of the listing API (overrides client.baseUrl)")
	f.DurationVar(&bf.debounce, "debounce", 0, "Search debounce delay (overrides client.debounce)")
	f.StringVar(&bf.logOutput, "log-output", defaultBrowseLog, "Log destination while the UI runs")
	return cmd
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the advocates table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			return withApp(cfg, "", func(a *app.Application) error {
				return a.Migrate(cmd.Context())
			})
		},
	}
}

func newSeedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample advocates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			return withApp(cfg, "", func(a *app.Application) error {
				n, err := a.Seed(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "advocates already present, nothing seeded")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d advocates\n", n)
				return nil
			})
		},
	}
}

func loadConfig(flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withApp builds the logger and application, runs fn and flushes the logger.
// A non-empty logOutput replaces the configured destination.
func withApp(cfg config.Config, logOutput string, fn func(*app.Application) error) error {
	if logOutput != "" {
		cfg.Logging.Output = logOutput
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := fn(app.New(cfg, logger)); err != nil {
		logger.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}
