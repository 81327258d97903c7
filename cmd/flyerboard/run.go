package main

import (
	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/flyerboard/internal/app"
)

var runWatch bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover and index every enabled retailer, then render the page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd.Context(), func(r *app.Runner) error {
			if runWatch {
				return r.Watch(cmd.Context())
			}
			return r.RunOnce(cmd.Context())
		})
	},
}

func init() {
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "repeat the run every run_interval until interrupted")
}
