package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

type featureInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Methods int    `json:"methods"`
	Models  int    `json:"models"`
	Helpers int    `json:"helpers"`
	Views   int    `json:"views"`
}

func describe(reg *feature.Registry) []featureInfo {
	all := reg.All()
	out := make([]featureInfo, 0, len(all))
	for _, f := range all {
		out = append(out, featureInfo{
			Name:    f.Name(),
			Type:    reg.Type(f.Name()),
			Enabled: f.Enabled(),
			Methods: len(f.MethodFilters()),
			Models:  len(f.ModelFilters()),
			Helpers: len(f.HelperFilters()),
			Views:   len(f.ViewFilters()),
		})
	}
	return out
}

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered features and their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, o, func(a *app) error {
				snap, err := a.snapshot(cmd.Context())
				if err != nil {
					return err
				}
				features := describe(snap.Registry())
				if o.json {
					return writeJSON(cmd.OutOrStdout(), features)
				}
				if len(features) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no features found")
					return nil
				}

				rows := [][]string{{"FEATURE", "STATE", "METHODS", "MODELS", "HELPERS", "VIEWS", "TYPE"}}
				for _, f := range features {
					rows = append(rows, []string{
						formatBold(f.Name),
						formatState(f.Enabled),
						strconv.Itoa(f.Methods),
						strconv.Itoa(f.Models),
						strconv.Itoa(f.Helpers),
						strconv.Itoa(f.Views),
						f.Type,
					})
				}
				return renderTable(cmd.OutOrStdout(), rows)
			})
		},
	}
}
