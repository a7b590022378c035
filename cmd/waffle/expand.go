package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func newExpandCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "expand PATTERN...",
		Short:   "Show template paths with enabled feature variants",
		Example: "  waffle expand 'app/views/{:controller}/{:template}.{:type}.tmpl'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(a *app) error {
				snap, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				paths := snap.ExpandTemplatePaths(args)
				if o.json {
					return writeJSON(cmd.OutOrStdout(), paths)
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}
}

var errInvalidParam = errors.New("render parameters must be key=value")

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Join(errInvalidParam, fmt.Errorf("got %q", arg))
		}
		params[strings.TrimSpace(k)] = v
	}
	return params, nil
}

func newParamsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "params KEY=VALUE...",
		Short:   "Apply the legacy render parameter filters",
		Example: "  WAFFLE_VIEW_MODE=params waffle params controller=blog template=show",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}
			return withApp(cmd, o, func(a *app) error {
				snap, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				out := snap.FilterParams(params)
				if o.json {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				for _, k := range slices.Sorted(maps.Keys(out)) {
					line := k + "=" + out[k]
					if params[k] != out[k] {
						line = formatBold(line)
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}

func newLocateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "locate template|layout KEY=VALUE...",
		Short:   "Find the template a render would use",
		Example: "  waffle locate template controller=blog template=show type=html",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return withApp(cmd, o, func(a *app) error {
				snap, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				name, err := a.views.Locate(cmd.Context(), snap, args[0], params)
				if err != nil {
					return err
				}
				if o.json {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"kind": args[0], "path": name})
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}
