package engine

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/path"
)

func (s *step) pass(attempted *path.Node) {
	attempted.Status = path.StatusCompleted
	label := strings.ReplaceAll(string(s.outcome), "_", " ")

	if !s.outcome.Promotes() {
		s.advance()
		s.res.Reason = fmt.Sprintf("%s on %s; %s", label, s.attemptPhrase(), s.nextPhrase())
		return
	}
	if !s.key.Level.HasNext() {
		s.advance()
		s.res.Reason = fmt.Sprintf("%s on %s; already at %s, %s",
			label, s.attemptPhrase(), s.key.Level, s.nextPhrase())
		return
	}
	if missing := missingRouting(s.key); missing != "" {
		s.res.Diagnostic = DiagnosticMissingRoutingData
		s.advance()
		s.res.Reason = fmt.Sprintf("%s on %s; cannot promote, asset has no %s; %s",
			label, s.attemptPhrase(), missing, s.nextPhrase())
		return
	}

	var skipped string
	if s.outcome == OutcomeGreatPass {
		s.skipLevel(attempted)
		if n := len(s.res.Skipped); n > 0 {
			skipped = fmt.Sprintf("skipped %d remaining %s asset(s); ", n, s.key.Level)
		}
	}

	next := s.key.WithLevel(s.key.Level.Next())
	target, why := s.promotionTarget(next)
	if target == nil {
		s.res.Diagnostic = DiagnosticRelocationTargetMissing
		s.advance()
		s.res.Reason = fmt.Sprintf("%s on %s; %spromotion target missing for %s/%s at %s (%s); %s",
			label, s.attemptPhrase(), skipped, next.Course, next.Topic, next.Level, why, s.nextPhrase())
		return
	}

	if _, err := s.path.MoveAfter(target.ID, attempted.ID); err != nil {
		panic(fmt.Sprintf("engine: promote %s: %v", target.AssetID, err))
	}
	target.Status = path.StatusPending
	s.pointAt(target.ID)
	s.res.TargetAssetID = target.AssetID
	s.res.Reason = fmt.Sprintf("%s on %s; %spromoted to %s %s",
		label, s.attemptPhrase(), skipped, next.Level, target.AssetID)
}

// skipLevel marks every other actionable node of the attempted unit skipped.
func (s *step) skipLevel(attempted *path.Node) {
	for _, n := range s.path.Nodes {
		if n.ID == attempted.ID || !n.Status.Actionable() {
			continue
		}
		if n.Key.SameUnit(s.key) {
			n.Status = path.StatusSkipped
			s.res.Skipped = append(s.res.Skipped, n.AssetID)
		}
	}
}

// promotionTarget finds the next-level node, preferring video, then doc,
// then any format in path order.
func (s *step) promotionTarget(next asset.Key) (*path.Node, string) {
	var reasons []string
	for _, f := range []asset.Format{asset.FormatVideo, asset.FormatDoc} {
		n, why := s.candidate(next.WithFormat(f).ID())
		if n != nil {
			return n, ""
		}
		reasons = append(reasons, why)
	}
	for _, n := range s.path.Nodes {
		if n.Key.SameUnit(next) && n.Status.Actionable() {
			return n, ""
		}
	}
	return nil, strings.Join(reasons, ", ")
}

func missingRouting(k asset.Key) string {
	switch {
	case strings.TrimSpace(k.Course) == "":
		return "course"
	case strings.TrimSpace(k.Topic) == "":
		return "topic"
	default:
		return ""
	}
}
