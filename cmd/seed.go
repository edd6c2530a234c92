package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml|catalog.json>",
	Short: "Import courses, questions and learners from a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := seed.Load(args[0])
		if err != nil {
			return err
		}

		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := seed.NewImporter(rt.store, rt.log).Import(cmd.Context(), cat)
		if err != nil {
			return err
		}
		human := fmt.Sprintf("Imported %d course(s), %d asset(s), %d question(s), %d learner(s).\n"+
			"Enrollments: %d  paths created: %d  paths kept: %d\n",
			report.Courses, report.Assets, report.Questions, report.Users,
			report.Enrollments, report.PathsCreated, report.PathsKept)
		return output(cmd, report, human)
	},
}
