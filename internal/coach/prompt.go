package coach

import (
	"fmt"
	"strings"
)

const noteSystemPrompt = `You are a concise technical coach inside a corporate upskilling platform. A learner just struggled with a quiz on a course topic. Write a short, practical study note that helps them fix the specific misunderstandings shown by the questions they missed.`

func buildNoteMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Asset: %s (%s %s)\n", titleOr(in.AssetTitle, in.AssetID), in.Level, in.Format)
	fmt.Fprintf(&b, "Score: %d/100, time ratio %.2f\n", in.Score, in.TimeRatio)

	b.WriteString("\nMissed questions:\n")
	for i, q := range in.Missed {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
		if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			fmt.Fprintf(&b, "   Correct answer: %s\n", q.Options[q.CorrectIndex])
		}
		if q.Explanation != "" {
			fmt.Fprintf(&b, "   Why: %s\n", q.Explanation)
		}
	}

	if in.NextAssetID != "" {
		fmt.Fprintf(&b, "\nThe learner will study %s next.\n", in.NextAssetID)
	}

	b.WriteString(`
Instructions:
1. Title the note after the concept, not the quiz.
2. In the summary, name the misunderstanding the missed questions have in common and state the correct idea plainly.
3. Give 2-4 focus points the learner can check themselves against while reviewing.
4. Do not repeat the questions verbatim and do not mention scores.`)

	return b.String()
}

func titleOr(title, id string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	return id
}
