package calc

import "github.com/jbpowers9/powersbiostrikes-web/internal/model"

// ContParams holds the weights behind the conviction score. Positive
// designations add, negative designations subtract, and the result saturates
// within [0,100]. The exact coefficients are tunable business heuristics;
// only the sign of each flag's contribution is load-bearing.
type ContParams struct {
	Base float64

	FirstInClass      float64
	CriticalUnmetNeed float64
	Orphan            float64
	Breakthrough      float64
	FastTrack         float64

	MeToo                  float64
	SingleIndicationOnly   float64
	IncrementalImprovement float64
	MarketSkepticism       float64

	// Momentum: a 60-day price move beyond the threshold (in either
	// direction) nudges the score.
	MomentumThresholdPct float64
	MomentumWeight       float64

	// Small caps get a bump: more room to re-rate on a win.
	SmallCapMillions float64
	SmallCapWeight   float64
}

// DefaultContParams returns the standard weight set.
func DefaultContParams() ContParams {
	return ContParams{
		Base: 50,

		FirstInClass:      15,
		CriticalUnmetNeed: 10,
		Orphan:            10,
		Breakthrough:      10,
		FastTrack:         5,

		MeToo:                  15,
		SingleIndicationOnly:   10,
		IncrementalImprovement: 10,
		MarketSkepticism:       10,

		MomentumThresholdPct: 30,
		MomentumWeight:       5,

		SmallCapMillions: 500,
		SmallCapWeight:   5,
	}
}

// ContScore computes the 0-100 conviction score from research designations,
// 60-day price momentum, and market cap.
func ContScore(p ContParams, r model.Research) int {
	score := p.Base

	if r.FirstInClass {
		score += p.FirstInClass
	}
	if r.CriticalUnmetNeed {
		score += p.CriticalUnmetNeed
	}
	if r.Orphan {
		score += p.Orphan
	}
	if r.Breakthrough {
		score += p.Breakthrough
	}
	if r.FastTrack {
		score += p.FastTrack
	}

	if r.MeToo {
		score -= p.MeToo
	}
	if r.SingleIndicationOnly {
		score -= p.SingleIndicationOnly
	}
	if r.IncrementalImprovement {
		score -= p.IncrementalImprovement
	}
	if r.MarketSkepticism {
		score -= p.MarketSkepticism
	}

	if r.PriceChange60dPct >= p.MomentumThresholdPct {
		score += p.MomentumWeight
	} else if r.PriceChange60dPct <= -p.MomentumThresholdPct {
		score -= p.MomentumWeight
	}

	if r.McapMillions > 0 && r.McapMillions < p.SmallCapMillions {
		score += p.SmallCapWeight
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// ContRating buckets a conviction score.
func ContRating(score int) string {
	switch {
	case score >= 80:
		return "HIGH"
	case score >= 50:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// ContDisplay is the member-facing rating text.
func ContDisplay(score int) string {
	switch {
	case score >= 80:
		return "High (Hold Through)"
	case score >= 50:
		return "Moderate"
	default:
		return "Low (Exit Early)"
	}
}
