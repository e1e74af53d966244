package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/review"
)

func newReviewCmd(_ *app) *cobra.Command {
	var (
		name    string
		correct bool
		score   float64
		now     string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Apply one answer to a facet's review schedule",
		Long: `Reads a facet as JSON from stdin, or starts a new one with --facet,
applies --correct or --score and writes the updated facet as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at := time.Now().UTC()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				at = t
			}

			var f review.Facet
			if name != "" {
				f = review.NewFacet(name, at)
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read facet: %w", err)
				}
				if err := codec.Default.Unmarshal(data, &f); err != nil {
					return fmt.Errorf("decode facet: %w", err)
				}
			}

			flags := cmd.Flags()
			switch {
			case flags.Changed("score") && flags.Changed("correct"):
				return errors.New("--score and --correct are mutually exclusive")
			case flags.Changed("score"):
				if err := f.UpdateFuzzy(score, at); err != nil {
					return err
				}
			case flags.Changed("correct"):
				if err := f.UpdateBinary(correct, at); err != nil {
					return err
				}
			}

			out, err := codec.GoJSON{}.MarshalIndent(f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "facet", "", "start a new facet with this name instead of reading stdin")
	cmd.Flags().BoolVar(&correct, "correct", false, "answer was right (--correct=false for wrong)")
	cmd.Flags().Float64Var(&score, "score", 0, "partial answer score in [0, 1]")
	cmd.Flags().StringVar(&now, "now", "", "evaluation time (RFC 3339), defaults to the current time")
	return cmd
}
