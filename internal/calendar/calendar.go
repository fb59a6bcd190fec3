package calendar

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jbpowers9/powersbiostrikes-web/internal/calc"
	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
	"github.com/jbpowers9/powersbiostrikes-web/internal/store"
)

// DefaultPublicDays is the free-tier visibility window. Catalysts further
// out are listed but marked members-only.
const DefaultPublicDays = 7

// Generator renders the upcoming-catalyst calendar from research rows.
type Generator struct {
	Store      store.Reader
	PublicDays int
	Now        func() time.Time
}

func New(st store.Reader) *Generator {
	return &Generator{Store: st, PublicDays: DefaultPublicDays, Now: time.Now}
}

// Build produces the calendar document.
func (g *Generator) Build(ctx context.Context) (*model.CalendarDocument, error) {
	catalysts, err := g.Store.UpcomingCatalysts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch upcoming catalysts: %w", err)
	}
	log.Printf("[INFO] building calendar for %d catalysts", len(catalysts))

	now := g.Now()
	entries := make([]model.CalendarEntry, 0, len(catalysts))
	summary := model.CalendarSummary{ByType: make(map[string]int)}
	for _, c := range catalysts {
		e := g.buildEntry(c, now)
		entries = append(entries, e)

		summary.TotalCatalysts++
		summary.ByType[e.Event.Type]++
		switch d := e.DaysUntil; {
		case d <= 7:
			summary.ThisWeek++
		case d <= 14:
			summary.NextWeek++
		}
		if e.DaysUntil <= 30 {
			summary.ThisMonth++
		}
	}

	return &model.CalendarDocument{
		GeneratedAt: now.Format(time.RFC3339),
		PublicDays:  g.PublicDays,
		Summary:     summary,
		Catalysts:   entries,
	}, nil
}

func (g *Generator) buildEntry(c model.Catalyst, now time.Time) model.CalendarEntry {
	days := calc.DaysUntil(c.Date, now)
	eventType := EventType(c.Event)

	entry := model.CalendarEntry{
		Ticker:      c.Ticker,
		Date:        c.Date,
		DateDisplay: calc.DisplayDate(c.Date),
		Weekday:     weekdayName(c.Date),
		DaysUntil:   days,
		IsPublic:    days >= 0 && days <= g.PublicDays,
		Event: model.EventBlock{
			Type:        eventType,
			Description: c.Event,
			DrugName:    c.DrugName,
			Indication:  c.Indication,
		},
		Risk:         BinaryRisk(eventType),
		Designations: Designations(c),
		Company: model.CompanyBlock{
			McapMillions:     c.McapMillions,
			ShortInterestPct: c.ShortInterestPct,
		},
		Analysis: model.AnalysisBlock{
			PlayType:         c.PlayType,
			IsLeapPlay:       c.LeapPlay,
			EstimatedPDUFA:   c.EstimatedPDUFADate,
			DataCompleteness: c.DataCompletenessPct,
		},
		Meta: model.CalendarMeta{
			HasPosition:       c.HasPosition,
			ResearchAvailable: c.ResearchNotes != "",
		},
	}
	if c.HasPosition {
		score := c.ContScore
		entry.Analysis.ContScore = &score
	}
	return entry
}

// EventType buckets a free-text catalyst description.
func EventType(event string) string {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "pdufa") || strings.Contains(e, "approval"):
		return "PDUFA"
	case strings.Contains(e, "adcom") || strings.Contains(e, "advisory"):
		return "AdCom"
	case strings.Contains(e, "phase 3") || strings.Contains(e, "phase3"):
		return "Phase 3"
	case strings.Contains(e, "phase 2") || strings.Contains(e, "phase2"):
		return "Phase 2"
	case strings.Contains(e, "phase 1") || strings.Contains(e, "phase1"):
		return "Phase 1"
	default:
		return "Other"
	}
}

// BinaryRisk grades how all-or-nothing an event type's outcome is.
func BinaryRisk(eventType string) model.RiskBlock {
	switch eventType {
	case "PDUFA", "AdCom":
		return model.RiskBlock{Level: "extreme", Color: "red", Note: "Binary regulatory decision"}
	case "Phase 3":
		return model.RiskBlock{Level: "high", Color: "orange", Note: "Pivotal data readout"}
	case "Phase 2":
		return model.RiskBlock{Level: "elevated", Color: "yellow", Note: "Mid-stage data readout"}
	default:
		return model.RiskBlock{Level: "moderate", Color: "gray", Note: "Non-binary event"}
	}
}

// Designations lists the badge set for one catalyst, regulatory first.
func Designations(c model.Catalyst) []model.Designation {
	var out []model.Designation
	add := func(on bool, code, label, color string) {
		if on {
			out = append(out, model.Designation{Code: code, Label: label, Color: color})
		}
	}
	add(c.Orphan, "ORPHAN", "Orphan Drug", "purple")
	add(c.FastTrack, "FT", "Fast Track", "blue")
	add(c.Breakthrough, "BTD", "Breakthrough Therapy", "gold")
	add(c.PriorityReview, "PR", "Priority Review", "blue")
	add(c.Accelerated, "AA", "Accelerated Approval", "teal")
	add(c.RMAT, "RMAT", "RMAT Designation", "teal")
	add(c.FirstInClass, "FIC", "First in Class", "green")
	add(c.BestInClass, "BIC", "Best in Class", "green")
	add(c.CriticalUnmetNeed, "UMN", "Unmet Need", "green")
	return out
}

func weekdayName(dateStr string) string {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
