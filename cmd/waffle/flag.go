package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

func newFlagCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Manage feature toggles in the flag provider",
	}
	cmd.AddCommand(
		newFlagListCmd(o),
		newFlagGetCmd(o),
		newFlagSetCmd(o),
		newFlagDeleteCmd(o),
	)
	return cmd
}

func printFlags(cmd *cobra.Command, o *rootOptions, flags ...*feature.Flag) error {
	if o.json {
		if len(flags) == 1 {
			return writeJSON(cmd.OutOrStdout(), flags[0])
		}
		return writeJSON(cmd.OutOrStdout(), flags)
	}
	rows := [][]string{{"FLAG", "STATE", "TAGS", "UPDATED", "DESCRIPTION"}}
	for _, f := range flags {
		updated := ""
		if !f.UpdatedAt.IsZero() {
			updated = f.UpdatedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			formatBold(f.Name),
			formatState(f.Enabled),
			strings.Join(f.Tags, ","),
			updated,
			f.Description,
		})
	}
	return renderTable(cmd.OutOrStdout(), rows)
}

func newFlagListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored toggles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, o, func(a *app) error {
				flags, err := a.provider.ListFlags(cmd.Context())
				if err != nil {
					return err
				}
				if len(flags) == 0 && !o.json {
					fmt.Fprintln(cmd.OutOrStdout(), "no flags stored")
					return nil
				}
				return printFlags(cmd, o, flags...)
			})
		},
	}
}

func newFlagGetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show a stored toggle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(a *app) error {
				flag, err := a.provider.GetFlag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printFlags(cmd, o, flag)
			})
		},
	}
}

func newFlagSetCmd(o *rootOptions) *cobra.Command {
	var (
		enabled     bool
		description string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:     "set NAME",
		Short:   "Create or update a toggle",
		Example: "  waffle flag set Promo --enabled\n  waffle flag set Promo --enabled=false --tag marketing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(a *app) error {
				ctx := cmd.Context()
				flag, err := a.provider.GetFlag(ctx, args[0])
				switch {
				case errors.Is(err, feature.ErrFlagNotFound):
					flag = &feature.Flag{Name: args[0]}
				case err != nil:
					return err
				}

				if cmd.Flags().Changed("enabled") {
					flag.Enabled = enabled
				}
				if cmd.Flags().Changed("description") {
					flag.Description = description
				}
				if cmd.Flags().Changed("tag") {
					flag.Tags = tags
				}
				if err := a.provider.SaveFlag(ctx, flag); err != nil {
					return err
				}

				saved, err := a.provider.GetFlag(ctx, flag.Name)
				if err != nil {
					return err
				}
				return printFlags(cmd, o, saved)
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "toggle state")
	cmd.Flags().StringVar(&description, "description", "", "human readable description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags, replaces existing ones")
	return cmd
}

func newFlagDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored toggle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(a *app) error {
				if err := a.provider.DeleteFlag(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
