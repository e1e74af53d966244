package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [deck...]",
		Short: "Print gem and facet counts and the unknown-count histogram",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := a.newOrderer(cmd.Context(), args)
			if err != nil {
				return err
			}

			s := o.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gems: %d\n", s.Gems)
			fmt.Fprintf(out, "facets: %d\n", s.UnknownFacets)
			for _, n := range slices.Sorted(maps.Keys(s.Buckets)) {
				fmt.Fprintf(out, "bucket %d: %d\n", n, s.Buckets[n])
			}
			return nil
		},
	}
}
