package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waffle/pkg/config"
)

type rootOptions struct {
	envFiles []string
	root     string
	provider string
	verbose  bool
	json     bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "waffle",
		Short: "Inspect and serve feature overrides",
		Long: `waffle discovers feature definitions, fixes their toggles from a flag
provider and shows how enabled features redirect method, model, helper and
template lookups.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupStyling(cmd.OutOrStdout())
			return config.LoadEnv(o.envFiles...)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&o.envFiles, "env-file", nil, "dotenv files to load, later files win")
	flags.StringVar(&o.root, "root", "", "directory feature paths are relative to (WAFFLE_ROOT)")
	flags.StringVar(&o.provider, "provider", "", "flag provider: memory, redis or postgres (WAFFLE_PROVIDER)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&o.json, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newListCmd(o),
		newResolveCmd(o),
		newExpandCmd(o),
		newParamsCmd(o),
		newLocateCmd(o),
		newFlagCmd(o),
		newServeCmd(o),
	)
	return cmd
}

// withApp builds the app for a one-shot command and closes it afterwards.
func withApp(cmd *cobra.Command, o *rootOptions, fn func(a *app) error) error {
	a, err := newApp(cmd.Context(), o, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
