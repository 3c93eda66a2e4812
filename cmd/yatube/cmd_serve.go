package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yatube/web"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Starts the HTTP server and the expired-session sweeper.
SIGINT or SIGTERM shuts the server down gracefully.`,
		Args: cobra.NoArgs,
		RunE: c.runServe,
	}
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.serve(ctx)
}

func (c *cli) serve(ctx context.Context) error {
	db, err := c.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	app, err := web.NewApp(c.cfg, c.logger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	c.logger.Info("serving yatube",
		zap.String("addr", c.cfg.Server.Addr),
		zap.String("driver", c.cfg.Database.Driver),
		zap.String("db", c.cfg.Database.Path))

	return app.Run(ctx)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			c.logger.Info("schema is up to date", zap.String("db", c.cfg.Database.Path))
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is ready\n", c.cfg.Database.Path)
			return nil
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the --config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Save(c.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", c.configPath)
			return nil
		},
	})

	return configCmd
}
