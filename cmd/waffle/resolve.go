package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waffle/pkg/override"
)

type resolution struct {
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Target     string `json:"target,omitempty"`
	Overridden bool   `json:"overridden"`
}

var resolvers = map[string]func(*override.Snapshot, string) (string, bool){
	"method": (*override.Snapshot).ResolveMethod,
	"model":  (*override.Snapshot).ResolveModel,
	"helper": (*override.Snapshot).ResolveHelper,
}

func resolveKinds() []string {
	return slices.Sorted(maps.Keys(resolvers))
}

func resolve(snap *override.Snapshot, kind, key string) (resolution, error) {
	fn, ok := resolvers[kind]
	if !ok {
		return resolution{}, fmt.Errorf("unknown kind %q, want one of %s", kind, strings.Join(resolveKinds(), ", "))
	}
	target, found := fn(snap, key)
	return resolution{Kind: kind, Key: key, Target: target, Overridden: found}, nil
}

func newResolveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "resolve method|model|helper KEY",
		Short:     "Show the override for a method, model or helper",
		Example:   "  waffle resolve method Blog::title\n  waffle resolve helper app/extensions/helper/Lists",
		Args:      cobra.ExactArgs(2),
		ValidArgs: resolveKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(a *app) error {
				snap, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				res, err := resolve(snap, args[0], args[1])
				if err != nil {
					return err
				}
				if o.json {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Key, formatTarget(res.Target, res.Overridden))
				return nil
			})
		},
	}
}
