// Package engine reorders a learner's path after each quiz attempt.
//
// A struggling attempt schedules a remediation asset into the current slot,
// reopening it if it was already finished, and queues the failed asset
// right behind it. A good or great pass pulls
// the next-level asset for the same topic forward; a great pass also skips
// the rest of the current level. Every other pass advances the pointer.
//
// The engine never creates nodes and never fails: missing targets and
// incomplete catalog data degrade to a safe pointer and are explained in
// Result.Reason.
package engine

import (
	"fmt"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/path"
)

// Input is one finalized quiz attempt together with the state it applies to.
type Input struct {
	User             *learner.User
	Path             *path.Path
	Asset            *asset.Asset
	Score            float64
	WrongQuestionIDs []string
	TimeSpentMinutes float64
	TimeRatio        float64
}

// Result carries the updated records and the routing decision.
type Result struct {
	Outcome         Outcome
	Diagnostic      Diagnostic
	NextAssetID     string
	Reason          string
	PreferredFormat string
	Mastery         float64
	// TargetAssetID is the promotion or remediation asset, when one was placed.
	TargetAssetID string
	// Skipped lists assets marked skipped by a great pass.
	Skipped []string
	User    *learner.User
	Path    *path.Path
}

// Engine is the sequencing engine. It holds no state between calls.
type Engine struct{}

// New returns an Engine.
func New() *Engine { return &Engine{} }

// Resequence applies one attempt. The input user and path are not modified;
// updated copies are returned in the result.
func (e *Engine) Resequence(in Input) Result {
	u := in.User.Clone()
	p := in.Path.Clone()
	a := in.Asset

	outcome := Classify(in.Score, in.TimeRatio)
	key := routingKey(a, p)
	up := u.Track(key.Topic, key.Format, in.Score, in.TimeRatio)

	s := &step{
		path:    p,
		key:     key,
		assetID: a.ID,
		score:   in.Score,
		ratio:   in.TimeRatio,
		outcome: outcome,
		res: Result{
			Outcome:         outcome,
			Diagnostic:      DiagnosticNone,
			PreferredFormat: up.PreferredFormat,
			Mastery:         up.Mastery,
			User:            u,
			Path:            p,
		},
	}
	s.run()

	p.LastUpdatedReason = s.res.Reason
	s.res.NextAssetID = p.NextAssetID
	return s.res
}

// routingKey resolves the structured identity used to compute targets. The
// catalog record wins; the path course fills a missing course.
func routingKey(a *asset.Asset, p *path.Path) asset.Key {
	k := a.Key
	if k.Course == "" {
		k.Course = p.CourseID
	}
	k.Level = a.Level()
	k.Format = a.Format()
	return k
}

type step struct {
	path    *path.Path
	key     asset.Key
	assetID string
	score   float64
	ratio   float64
	outcome Outcome
	res     Result
}

func (s *step) run() {
	p := s.path
	idx := p.IndexOfAsset(s.assetID)
	if idx < 0 {
		s.res.Diagnostic = DiagnosticAssetNotInPath
		s.advance()
		s.res.Reason = fmt.Sprintf("%s is not part of this path; path unchanged, %s",
			s.assetID, s.nextPhrase())
		return
	}

	attempted := p.Nodes[idx]
	if attempted.Status.Terminal() {
		s.advance()
		s.res.Reason = fmt.Sprintf("%s was already %s; progress recorded, path unchanged, %s",
			s.assetID, attempted.Status, s.nextPhrase())
		return
	}
	if attempted.Status == path.StatusNeedsReview {
		// a direct retry reinstates the node where it stands
		if _, err := p.MoveToNow(attempted.ID, idx); err != nil {
			panic(fmt.Sprintf("engine: reinstate %s: %v", s.assetID, err))
		}
	}

	if s.outcome.Passed() {
		s.pass(attempted)
		return
	}
	s.fail(attempted, idx)
}

// advance moves the pointer over completed and skipped nodes. A needs_review
// node reached this way is reinstated in place for another try.
func (s *step) advance() {
	p := s.path
	i := p.CurrentIndex
	if i < 0 {
		i = 0
	}
	for i < p.Len() {
		n := p.Nodes[i]
		if n.Status == path.StatusPending {
			break
		}
		if n.Status == path.StatusNeedsReview {
			if _, err := p.MoveToNow(n.ID, i); err != nil {
				panic(fmt.Sprintf("engine: reinstate %s: %v", n.AssetID, err))
			}
			break
		}
		i++
	}
	p.CurrentIndex = i
	p.ResolveNext()
}

// pointAt sets the pointer to the node with the given id.
func (s *step) pointAt(nodeID int) {
	s.path.CurrentIndex = s.path.IndexOfNode(nodeID)
	s.path.ResolveNext()
}

func (s *step) nextPhrase() string {
	if s.path.NextAssetID == "" {
		return "path complete"
	}
	return "next up " + s.path.NextAssetID
}

func (s *step) attemptPhrase() string {
	return fmt.Sprintf("%s (score %.0f, time ratio %.2f)", s.assetID, s.score, s.ratio)
}

// candidate returns the node for id when it can still be delivered. The
// second value explains why an existing node was rejected. Only promotion
// uses it; remediation accepts nodes in any status.
func (s *step) candidate(id string) (*path.Node, string) {
	n := s.path.NodeByAsset(id)
	if n == nil {
		return nil, id + " not in path"
	}
	if n.Status.Terminal() {
		return nil, fmt.Sprintf("%s already %s", id, n.Status)
	}
	return n, ""
}
