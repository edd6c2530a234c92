package engine

import "github.com/abhisek/pathwise/internal/mastery"

// Outcome is the classification of a quiz attempt.
type Outcome string

const (
	OutcomeStruggling Outcome = "struggling"
	OutcomeGreatPass  Outcome = "great_pass"
	OutcomeGoodPass   Outcome = "good_pass"
	OutcomePass       Outcome = "pass"
)

// Classify applies the outcome rules in precedence order.
func Classify(score, timeRatio float64) Outcome {
	switch {
	case mastery.Struggling(score, timeRatio):
		return OutcomeStruggling
	case score >= mastery.GreatScore && timeRatio <= mastery.GreatMaxTimeRatio:
		return OutcomeGreatPass
	case score >= mastery.GoodScore:
		return OutcomeGoodPass
	default:
		return OutcomePass
	}
}

// Passed reports whether the outcome follows the pass flow.
func (o Outcome) Passed() bool { return o != OutcomeStruggling }

// Promotes reports whether the outcome is strong enough to move up a level.
func (o Outcome) Promotes() bool { return o == OutcomeGreatPass || o == OutcomeGoodPass }

// Diagnostic codes a degraded resequencing result.
type Diagnostic string

const (
	DiagnosticNone                    Diagnostic = "none"
	DiagnosticMissingRoutingData      Diagnostic = "missing_routing_data"
	DiagnosticRelocationTargetMissing Diagnostic = "relocation_target_missing"
	DiagnosticAssetNotInPath          Diagnostic = "asset_not_in_path"
)
