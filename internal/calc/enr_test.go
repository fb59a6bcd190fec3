package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

func TestExpectedNetReturn_BaseProbabilityByEvent(t *testing.T) {
	p := DefaultENRParams()
	tests := []struct {
		event   string
		winProb float64
	}{
		{"PDUFA decision for drug X", 85.0},
		{"FDA approval decision", 85.0},
		{"Phase 3 topline data", 60.0},
		{"Phase 2 interim readout", 40.0},
		{"Investor day", 50.0},
		{"", 50.0},
	}
	for _, tt := range tests {
		r := ExpectedNetReturn(p, 48, 50, 1.80, tt.event, model.Research{})
		assert.Equal(t, tt.winProb, r.WinProb, "event %q", tt.event)
	}
}

func TestExpectedNetReturn_WinProbCappedWithAllFlags(t *testing.T) {
	p := DefaultENRParams()
	r := ExpectedNetReturn(p, 48, 50, 1.80, "PDUFA decision", model.Research{
		FirstInClass: true,
		Orphan:       true,
		FastTrack:    true,
		Breakthrough: true,
	})
	assert.Equal(t, 95.0, r.WinProb)
}

func TestExpectedNetReturn_Phase3Scenario(t *testing.T) {
	// Stock 48, strike 50, premium 1.80, Phase 3: projected stock on win is
	// 48*2.2=105.6, intrinsic 55.6, win return (55.6/1.8-1)*100.
	p := DefaultENRParams()
	r := ExpectedNetReturn(p, 48, 50, 1.80, "Phase 3 data", model.Research{})
	assert.Equal(t, 60.0, r.WinProb)
	assert.InDelta(t, 0.60*((55.6/1.8-1)*100)+0.40*(-90), r.ENR, 0.1)
}

func TestExpectedNetReturn_BelowStrikeCushionPenalty(t *testing.T) {
	// Projected move leaves intrinsic below the premium paid: the option
	// still loses despite the stock gain.
	p := DefaultENRParams()
	r := ExpectedNetReturn(p, 10, 50, 5.00, "Phase 2 readout", model.Research{})
	// win return -50, lose return -90: expectation is negative, floored at 0
	assert.Zero(t, r.ENR)
}

func TestExpectedNetReturn_MissingPricesUseFallback(t *testing.T) {
	p := DefaultENRParams()
	r := ExpectedNetReturn(p, 0, 50, 0, "Phase 3 data", model.Research{})
	// fallback win return 200: 0.6*200 + 0.4*(-90) = 84
	assert.InDelta(t, 84.0, r.ENR, 0.1)
}

func TestExpectedNetReturn_FlooredAtZero(t *testing.T) {
	p := DefaultENRParams()
	r := ExpectedNetReturn(p, 10, 100, 8.00, "Phase 2 data", model.Research{})
	assert.GreaterOrEqual(t, r.ENR, 0.0)
}
