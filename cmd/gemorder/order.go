package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gemgo"
)

func newOrderCmd(a *app) *cobra.Command {
	var (
		rounds int
		output string
		commit bool
	)

	cmd := &cobra.Command{
		Use:   "order [deck...]",
		Short: "Load decks, run the ordering rounds and print the order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("rounds") {
				a.cfg.Rounds = rounds
			}

			o, st, gems, err := a.newOrderer(ctx, args)
			if err != nil {
				return err
			}

			report, err := o.Run(ctx)
			if err != nil {
				return err
			}
			order := o.Order()

			if output != "" {
				if err := st.SaveOrder(ctx, output, gems, order); err != nil {
					return err
				}
			}
			if commit {
				m, err := st.CommitOrder(ctx, order)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "committed order %s\n", m.RunID)
			}

			return printOrder(cmd, report, o)
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "r", gemgo.DefaultRounds, "maximum number of rounds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the ordered deck to this blob")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the order manifest and move CURRENT")
	return cmd
}

func printOrder(cmd *cobra.Command, report *gemgo.Report, o *gemgo.Orderer) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# rounds=%d stop=%s known_facets=%d\n", report.Rounds, report.Stop, report.KnownFacets)
	for i, g := range o.OrderedGems() {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\n", i, uint32(g.ID), g.Sides[0], len(g.UnknownFacets))
	}
	return w.Flush()
}
