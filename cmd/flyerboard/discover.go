package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/flyerboard/internal/app"
	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/pkg/retailers"
)

// discoverOutput is the dry-run report printed by the discover command.
type discoverOutput struct {
	Retailer string           `json:"retailer"`
	Flyers   []domain.Flyer   `json:"flyers"`
	Skipped  []retailers.Skip `json:"skipped,omitempty"`
	Error    string           `json:"error,omitempty"`
}

var discoverCmd = &cobra.Command{
	Use:   "discover <retailer>",
	Short: "Run one retailer's discovery and print the candidates as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(r *app.Runner) error {
			res, err := r.Discover(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := discoverOutput{Retailer: args[0], Flyers: res.Flyers, Skipped: res.Skipped}
			if out.Flyers == nil {
				out.Flyers = []domain.Flyer{}
			}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode candidates: %w", err)
			}
			return nil
		})
	},
}
