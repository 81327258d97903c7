package main

import (
	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/flyerboard/internal/app"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page from the stored indexes without discovery",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(r *app.Runner) error {
			return r.Render(cmd.Context())
		})
	},
}
