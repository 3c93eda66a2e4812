package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yatube/internal/database"
)

func (c *cli) groupCmd() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}

	var title, groupSlug, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Long: `Creates a group authors can file posts under.

Example:
  yatube group create --title "Cats" --description "Everything about cats"

The slug is derived from the title when --slug is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			group, err := database.NewGroupService(db).CreateGroup(cmd.Context(), title, groupSlug, description)
			if err != nil {
				return err
			}

			c.logger.Info("group created", zap.Int("group_id", group.ID), zap.String("slug", group.Slug))
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %q at /group/%s/\n", group.Title, group.Slug)
			return nil
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Group title (required)")
	createCmd.Flags().StringVar(&groupSlug, "slug", "", "URL slug (default: derived from the title)")
	createCmd.Flags().StringVar(&description, "description", "", "Group description (required)")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("description")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			groups, err := database.NewGroupService(db).GetAllGroups(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return tw.Flush()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [slug]",
		Short: "Delete a group; its posts stay without a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.NewGroupService(db).DeleteGroup(cmd.Context(), args[0]); err != nil {
				return err
			}

			c.logger.Info("group deleted", zap.String("slug", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", args[0])
			return nil
		},
	}

	groupCmd.AddCommand(createCmd, listCmd, deleteCmd)
	return groupCmd
}
