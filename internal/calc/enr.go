package calc

import (
	"strings"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// ENRParams holds the heuristic constants behind the expected-net-return
// estimate. The defaults reflect historical biotech base rates (FDA approval
// ~85%, Phase 3 ~60%, Phase 2 ~40%) and typical post-catalyst moves. This is
// an explicit heuristic, not an options-pricing model: there is no implied
// volatility or time-value input.
type ENRParams struct {
	WinProbPDUFA   float64
	WinProbPhase3  float64
	WinProbPhase2  float64
	WinProbDefault float64
	WinProbCap     float64

	BumpFirstInClass float64
	BumpOrphan       float64
	BumpFastTrack    float64
	BumpBreakthrough float64

	MovePDUFA   float64
	MovePhase3  float64
	MoveDefault float64

	// Return applied when the projected stock move still leaves the option
	// worth less than the premium paid.
	ReturnBelowPremium float64
	// Near-total loss assumed for a speculative short-dated option on a
	// failed catalyst.
	ReturnOnLose float64
	// Assumed win return when prices are missing entirely.
	ReturnOnWinFallback float64
}

// DefaultENRParams returns the standard coefficient set.
func DefaultENRParams() ENRParams {
	return ENRParams{
		WinProbPDUFA:   0.85,
		WinProbPhase3:  0.60,
		WinProbPhase2:  0.40,
		WinProbDefault: 0.50,
		WinProbCap:     0.95,

		BumpFirstInClass: 0.05,
		BumpOrphan:       0.05,
		BumpFastTrack:    0.03,
		BumpBreakthrough: 0.05,

		MovePDUFA:   0.80,
		MovePhase3:  1.20,
		MoveDefault: 0.60,

		ReturnBelowPremium:  -50,
		ReturnOnLose:        -90,
		ReturnOnWinFallback: 200,
	}
}

// ENRResult is the probability-weighted payoff estimate for one position.
type ENRResult struct {
	// ENR is the expected net return in percent, floored at 0 for display
	// and rounded to one decimal place.
	ENR float64
	// WinProb is the win probability in percent, one decimal place.
	WinProb float64
}

// ExpectedNetReturn blends a base win probability from the catalyst event
// text with designation-flag adjustments, then weighs the compounded option
// return on success against a near-total loss on failure.
func ExpectedNetReturn(p ENRParams, stockPrice, strike, premium float64, catalystEvent string, research model.Research) ENRResult {
	event := strings.ToLower(catalystEvent)

	winProb := p.WinProbDefault
	switch {
	case strings.Contains(event, "pdufa") || strings.Contains(event, "approval"):
		winProb = p.WinProbPDUFA
	case strings.Contains(event, "phase 3"):
		winProb = p.WinProbPhase3
	case strings.Contains(event, "phase 2"):
		winProb = p.WinProbPhase2
	}

	if research.FirstInClass {
		winProb += p.BumpFirstInClass
	}
	if research.Orphan {
		winProb += p.BumpOrphan
	}
	if research.FastTrack {
		winProb += p.BumpFastTrack
	}
	if research.Breakthrough {
		winProb += p.BumpBreakthrough
	}
	if winProb > p.WinProbCap {
		winProb = p.WinProbCap
	}

	expectedMove := p.MoveDefault
	switch {
	case strings.Contains(event, "pdufa"):
		expectedMove = p.MovePDUFA
	case strings.Contains(event, "phase 3"):
		expectedMove = p.MovePhase3
	}

	returnOnWin := p.ReturnOnWinFallback
	if stockPrice > 0 && premium > 0 {
		stockOnWin := stockPrice * (1 + expectedMove)
		intrinsic := stockOnWin - strike
		if intrinsic < 0 {
			intrinsic = 0
		}
		if intrinsic > premium {
			returnOnWin = (intrinsic/premium - 1) * 100
		} else {
			returnOnWin = p.ReturnBelowPremium
		}
	}

	enr := winProb*returnOnWin + (1-winProb)*p.ReturnOnLose
	if enr < 0 {
		enr = 0
	}

	return ENRResult{
		ENR:     round1(enr),
		WinProb: round1(winProb * 100),
	}
}
