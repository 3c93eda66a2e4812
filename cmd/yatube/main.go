package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/logging"
)

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	// Global flags
	configPath string
	addr       string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "yatube",
		Short: "yatube - a small blogging site",
		Long: `yatube serves a blog where registered authors publish short posts,
optionally filed under a group. Posts are listed on the main feed, on the
group page and on the author's profile.

Groups are managed from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "yatube.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.addr, "addr", "", "Listen address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "Database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.migrateCmd())
	rootCmd.AddCommand(c.configCmd())
	rootCmd.AddCommand(c.groupCmd())
	rootCmd.AddCommand(c.userCmd())

	return rootCmd
}

// setup loads the config, applies the flag overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}
	if c.dbPath != "" {
		cfg.Database.Path = c.dbPath
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) openDatabase(ctx context.Context) (*database.Database, error) {
	db, err := database.NewDatabase(ctx, c.cfg.Database.Driver, c.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", c.cfg.Database.Path, err)
	}
	return db, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
