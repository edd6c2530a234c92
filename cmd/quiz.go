package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/ui/render"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <user>",
	Short: "Draw quiz questions for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		mode, _ := cmd.Flags().GetString("mode")

		rt, err := setup(cmd, setupOpts{})
		if err != nil {
			return err
		}
		defer rt.close()

		q, err := rt.svc.GetQuiz(cmd.Context(), args[0], topic, quiz.ParseMode(mode))
		if err != nil {
			return err
		}
		return output(cmd, q, render.Quiz(q))
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <user>",
	Short: "Submit quiz answers for an asset and resequence the path",
	Example: "  pathwise submit u1 --asset asset-go101-basics-beginner-video --topic basics \\\n" +
		"    --minutes 14 --answer q1=0 --answer q2=3",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := progress.SubmitRequest{}
		req.CourseID, _ = cmd.Flags().GetString("course")
		req.AssetID, _ = cmd.Flags().GetString("asset")
		req.Topic, _ = cmd.Flags().GetString("topic")
		req.TimeSpentMinutes, _ = cmd.Flags().GetFloat64("minutes")
		raw, _ := cmd.Flags().GetStringArray("answer")

		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}
		req.Answers = answers

		rt, err := setup(cmd, setupOpts{coach: true})
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.svc.SubmitQuiz(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return output(cmd, res, render.Outcome(res))
	},
}

// parseAnswers turns repeated questionId=optionIndex flags into answers.
// No flags at all submits an empty answer set.
func parseAnswers(raw []string) (quiz.Answers, error) {
	answers := make(quiz.Answers, len(raw))
	for _, r := range raw {
		id, idx, ok := strings.Cut(r, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid answer %q: want questionId=optionIndex", r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid answer %q: option index must be a non-negative integer", r)
		}
		answers[id] = n
	}
	return answers, nil
}

func init() {
	quizCmd.Flags().StringP("topic", "t", "", "Topic to draw questions for")
	quizCmd.Flags().StringP("mode", "m", string(quiz.ModeNormal), "normal or review (missed questions first)")
	_ = quizCmd.MarkFlagRequired("topic")

	submitCmd.Flags().String("course", "", "Course id (default: active enrollment)")
	submitCmd.Flags().StringP("asset", "a", "", "Asset id the quiz belongs to")
	submitCmd.Flags().StringP("topic", "t", "", "Quiz topic")
	submitCmd.Flags().Float64("minutes", 0, "Minutes spent on the asset (default: its expected time)")
	submitCmd.Flags().StringArray("answer", nil, "Answer as questionId=optionIndex (repeatable)")
	_ = submitCmd.MarkFlagRequired("asset")
	_ = submitCmd.MarkFlagRequired("topic")
}
