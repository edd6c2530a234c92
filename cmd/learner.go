package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/ui/render"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List learners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		users, err := rt.svc.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		return output(cmd, users, render.Users(users)+"\n")
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <user>",
	Short: "Show a learner's progress, mastery and recent attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		d, err := rt.svc.Dashboard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output(cmd, d, render.Dashboard(d))
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <user>",
	Short: "Show every node of a learner's path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")

		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		v, err := rt.svc.PathView(cmd.Context(), args[0], courseID)
		if err != nil {
			return err
		}
		return output(cmd, v, render.Path(v))
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes <user>",
	Short: "Show study notes written after struggling attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		notes, err := rt.svc.Notes(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		return output(cmd, notes, render.Notes(notes))
	},
}

func init() {
	pathCmd.Flags().String("course", "", "Course id (default: active enrollment)")
	notesCmd.Flags().IntP("limit", "n", 10, "Number of notes to show")
}
