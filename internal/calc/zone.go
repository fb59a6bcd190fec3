package calc

import (
	"fmt"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// Entry zone thresholds, as ratios of current premium to entry premium.
const (
	zoneExcellentMax = 0.90 // below this the market is offering a better entry
	zoneGoodMax      = 1.10 // up to 10% above entry is still acceptable
	zoneCautionMax   = 1.25 // 10-25% above entry warrants smaller size
)

// EntryZone classifies the current premium relative to the recommended entry
// premium. Non-positive or missing inputs yield the unknown zone rather than
// an error; the feed must render every position.
func EntryZone(currentPrice, entryPrice float64) model.ZoneBlock {
	if entryPrice <= 0 {
		return model.ZoneBlock{Zone: "unknown", Color: "gray", Message: "No entry price"}
	}
	if currentPrice <= 0 {
		return model.ZoneBlock{Zone: "unknown", Color: "gray", Message: "No current price"}
	}

	ratio := currentPrice / entryPrice
	pct := (ratio - 1) * 100

	switch {
	case ratio < zoneExcellentMax:
		return model.ZoneBlock{
			Zone:         "excellent",
			Color:        "green",
			Message:      fmt.Sprintf("Down %.1f%% from entry - better value", -pct),
			PctFromEntry: pct,
		}
	case ratio <= zoneGoodMax:
		return model.ZoneBlock{
			Zone:         "good",
			Color:        "green",
			Message:      fmt.Sprintf("Within %.1f%% of entry - still good", pct),
			PctFromEntry: pct,
		}
	case ratio <= zoneCautionMax:
		return model.ZoneBlock{
			Zone:         "caution",
			Color:        "yellow",
			Message:      fmt.Sprintf("Up %.1f%% - consider smaller size", pct),
			PctFromEntry: pct,
		}
	default:
		return model.ZoneBlock{
			Zone:         "passed",
			Color:        "red",
			Message:      fmt.Sprintf("Up %.1f%% - wait for pullback", pct),
			PctFromEntry: pct,
		}
	}
}

// ENR zone thresholds, in expected-net-return percent.
const (
	enrGood    = 140
	enrCaution = 100
	enrAvoid   = 50
)

// ClassifyENR categorizes an expected net return.
func ClassifyENR(enr float64) model.ENRZoneBlock {
	switch {
	case enr >= enrGood:
		return model.ENRZoneBlock{Zone: "good", Color: "green", Message: "Strong expected return"}
	case enr >= enrCaution:
		return model.ENRZoneBlock{Zone: "fair", Color: "yellow", Message: "Moderate expected return"}
	case enr >= enrAvoid:
		return model.ENRZoneBlock{Zone: "weak", Color: "orange", Message: "Below target threshold"}
	default:
		return model.ENRZoneBlock{Zone: "avoid", Color: "red", Message: "Negative expected return"}
	}
}
