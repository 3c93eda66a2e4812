package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yatube/internal/database"
)

func (c *cli) userCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var email, password string
	createCmd := &cobra.Command{
		Use:   "create [username]",
		Short: "Create a user account",
		Long: `Creates an account that can sign in and publish posts.
The password is read from --password or the YATUBE_PASSWORD environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("YATUBE_PASSWORD")
			}

			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := database.NewUserService(db).CreateUser(cmd.Context(), args[0], email, password)
			if err != nil {
				return err
			}

			c.logger.Info("user created", zap.Int("user_id", user.ID), zap.String("username", user.Username))
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", user.Username)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "Email address")
	createCmd.Flags().StringVar(&password, "password", "", "Password (or set YATUBE_PASSWORD env)")

	deleteCmd := &cobra.Command{
		Use:   "delete [username]",
		Short: "Delete a user together with their posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.NewUserService(db).DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}

			c.logger.Info("user deleted", zap.String("username", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}

	userCmd.AddCommand(createCmd, deleteCmd)
	return userCmd
}
