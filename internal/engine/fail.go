package engine

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/path"
)

func (s *step) fail(attempted *path.Node, idx int) {
	attempted.Status = path.StatusNeedsReview

	if missing := missingRouting(s.key); missing != "" {
		s.res.Diagnostic = DiagnosticMissingRoutingData
		s.retryInPlace(attempted, idx)
		s.res.Reason = fmt.Sprintf("struggling on %s; no remediation, asset has no %s; retry %s",
			s.attemptPhrase(), missing, s.assetID)
		return
	}

	candidates := remediationCandidates(s.key, s.assetID)
	var target *path.Node
	var reasons []string
	for _, id := range candidates {
		// remediation may reopen work the learner already finished
		if n := s.path.NodeByAsset(id); n != nil {
			target = n
			break
		}
		reasons = append(reasons, id+" not in path")
	}
	if target == nil {
		s.res.Diagnostic = DiagnosticRelocationTargetMissing
		s.retryInPlace(attempted, idx)
		s.res.Reason = fmt.Sprintf("struggling on %s; remediation target missing (%s); retry %s",
			s.attemptPhrase(), strings.Join(reasons, ", "), s.assetID)
		if s.key.Level == asset.LevelBeginner && s.key.Format == asset.FormatDoc {
			// nothing below a beginner doc but the video it replaces
			s.res.Reason += ", flagged for instructor review"
		}
		return
	}

	reopened := ""
	if target.Status.Terminal() {
		reopened = fmt.Sprintf(" (reopened, was %s)", target.Status)
	}
	if _, err := s.path.Reopen(target.ID, idx); err != nil {
		panic(fmt.Sprintf("engine: remediate %s: %v", target.AssetID, err))
	}
	if _, err := s.path.MoveAfter(attempted.ID, target.ID); err != nil {
		panic(fmt.Sprintf("engine: requeue %s: %v", s.assetID, err))
	}
	s.pointAt(target.ID)
	s.res.TargetAssetID = target.AssetID
	s.res.Reason = fmt.Sprintf("struggling on %s; remediation %s%s now, %s queued for review",
		s.attemptPhrase(), target.AssetID, reopened, s.assetID)
}

// retryInPlace keeps the pointer where it was and hands the failed asset
// back. The failed node is reinstated in its own slot.
func (s *step) retryInPlace(attempted *path.Node, idx int) {
	if _, err := s.path.MoveToNow(attempted.ID, idx); err != nil {
		panic(fmt.Sprintf("engine: reinstate %s: %v", s.assetID, err))
	}
	s.path.NextAssetID = s.assetID
}

// remediationCandidates lists remediation asset ids in preference order.
// A failed video switches to the same-level doc. Any other format drops a
// level and prefers video, then doc. The failed asset itself is never a
// candidate.
func remediationCandidates(k asset.Key, failedID string) []string {
	var keys []asset.Key
	if k.Format == asset.FormatVideo {
		keys = []asset.Key{k.WithFormat(asset.FormatDoc)}
	} else {
		lower := k.WithLevel(k.Level.Lower())
		keys = []asset.Key{lower.WithFormat(asset.FormatVideo), lower.WithFormat(asset.FormatDoc)}
	}

	out := make([]string, 0, len(keys))
	for _, c := range keys {
		if id := c.ID(); id != failedID {
			out = append(out, id)
		}
	}
	return out
}
