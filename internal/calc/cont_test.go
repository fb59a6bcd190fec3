package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

func TestContScore_PositiveFlagsNeverDecrease(t *testing.T) {
	p := DefaultContParams()
	base := model.Research{Found: true, McapMillions: 800}

	flips := []struct {
		name string
		set  func(r *model.Research)
	}{
		{"first in class", func(r *model.Research) { r.FirstInClass = true }},
		{"critical unmet need", func(r *model.Research) { r.CriticalUnmetNeed = true }},
		{"orphan", func(r *model.Research) { r.Orphan = true }},
		{"breakthrough", func(r *model.Research) { r.Breakthrough = true }},
		{"fast track", func(r *model.Research) { r.FastTrack = true }},
	}
	for _, f := range flips {
		t.Run(f.name, func(t *testing.T) {
			before := ContScore(p, base)
			flipped := base
			f.set(&flipped)
			assert.GreaterOrEqual(t, ContScore(p, flipped), before)
		})
	}
}

func TestContScore_NegativeFlagsNeverIncrease(t *testing.T) {
	p := DefaultContParams()
	base := model.Research{Found: true, FirstInClass: true, Orphan: true}

	flips := []struct {
		name string
		set  func(r *model.Research)
	}{
		{"me too", func(r *model.Research) { r.MeToo = true }},
		{"single indication", func(r *model.Research) { r.SingleIndicationOnly = true }},
		{"incremental improvement", func(r *model.Research) { r.IncrementalImprovement = true }},
		{"market skepticism", func(r *model.Research) { r.MarketSkepticism = true }},
	}
	for _, f := range flips {
		t.Run(f.name, func(t *testing.T) {
			before := ContScore(p, base)
			flipped := base
			f.set(&flipped)
			assert.LessOrEqual(t, ContScore(p, flipped), before)
		})
	}
}

func TestContScore_SaturatesWithinBounds(t *testing.T) {
	p := DefaultContParams()

	all := model.Research{
		Found:             true,
		FirstInClass:      true,
		CriticalUnmetNeed: true,
		Orphan:            true,
		Breakthrough:      true,
		FastTrack:         true,
		PriceChange60dPct: 80,
		McapMillions:      200,
	}
	assert.LessOrEqual(t, ContScore(p, all), 100)

	worst := model.Research{
		Found:                  true,
		MeToo:                  true,
		SingleIndicationOnly:   true,
		IncrementalImprovement: true,
		MarketSkepticism:       true,
		PriceChange60dPct:      -80,
	}
	assert.GreaterOrEqual(t, ContScore(p, worst), 0)
}

func TestContRatingBuckets(t *testing.T) {
	tests := []struct {
		score   int
		rating  string
		display string
	}{
		{95, "HIGH", "High (Hold Through)"},
		{80, "HIGH", "High (Hold Through)"},
		{65, "MODERATE", "Moderate"},
		{50, "MODERATE", "Moderate"},
		{30, "LOW", "Low (Exit Early)"},
		{0, "LOW", "Low (Exit Early)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.rating, ContRating(tt.score))
		assert.Equal(t, tt.display, ContDisplay(tt.score))
	}
}
