package calc

import (
	"math"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// BreakEven returns the underlying price at which the option breaks even at
// expiration. Negative results are valid for deep out-of-the-money puts and
// are reported as-is.
func BreakEven(strike, premium float64, optType model.OptionType) float64 {
	if optType == model.OptionPut {
		return strike - premium
	}
	return strike + premium
}

// MaxBuy is the highest recommended buy price: 10% above the entry premium,
// rounded to cents.
func MaxBuy(entryPrice float64) float64 {
	return round2(entryPrice * zoneGoodMax)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
