package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/app"
)

var learnCmd = &cobra.Command{
	Use:   "learn <user>",
	Short: "Work through your path interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOpts{coach: true, quiet: true})
		if err != nil {
			return err
		}
		defer rt.close()
		return app.Run(cmd.Context(), rt.svc, args[0])
	},
}
