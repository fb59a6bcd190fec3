package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jbpowers9/powersbiostrikes-web/internal/calc"
	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
	"github.com/jbpowers9/powersbiostrikes-web/internal/quote"
	"github.com/jbpowers9/powersbiostrikes-web/internal/store"
)

// A stored current-price figure larger than this multiple of the entry
// premium is taken to be a total position value rather than a per-contract
// premium, and is divided back down. Guards a known upstream unit ambiguity.
const unitCorrectionFactor = 10

// Assembler fuses positions, research, and live quotes into the feed
// document. Every output record is a pure function of its inputs at run
// time; nothing is carried between runs.
type Assembler struct {
	Store  store.Reader
	Quotes quote.Source
	ENR    calc.ENRParams
	Cont   calc.ContParams
	Now    func() time.Time
}

// New creates an Assembler with the default heuristic parameters.
func New(st store.Reader, src quote.Source) *Assembler {
	return &Assembler{
		Store:  st,
		Quotes: src,
		ENR:    calc.DefaultENRParams(),
		Cont:   calc.DefaultContParams(),
		Now:    time.Now,
	}
}

// Build produces the feed document. Only an unreachable position store is
// fatal; quote failures degrade to persisted fallback prices per record.
func (a *Assembler) Build(ctx context.Context) (*model.FeedDocument, error) {
	positions, err := a.Store.OpenPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch open positions: %w", err)
	}
	log.Printf("[INFO] assembling feed for %d open positions", len(positions))

	authenticated := a.Quotes.Authenticate(ctx)
	if !authenticated {
		log.Printf("[WARN] quote source %s not authenticated, using fallback prices", a.Quotes.Name())
	}

	var live map[string]model.LiveQuote
	if authenticated {
		live = a.Quotes.Quotes(ctx, uniqueTickers(positions))
	}

	now := a.Now()
	records := make([]model.FeedRecord, 0, len(positions))
	var totalValue float64
	var totalDays int
	for _, p := range positions {
		rec := a.buildRecord(ctx, p, live, authenticated, now)
		records = append(records, rec)
		totalValue += rec.Prices.Current * float64(p.Quantity) * 100
		totalDays += rec.Catalyst.DaysToCatalyst
	}

	avgDays := 0.0
	if len(records) > 0 {
		avgDays = math.Round(float64(totalDays) / float64(len(records)))
	}

	stamp := now.Format(time.RFC3339)
	return &model.FeedDocument{
		Positions: records,
		Summary: model.FeedSummary{
			TotalPositions:    len(records),
			TotalValue:        math.Round(totalValue*100) / 100,
			AvgDaysToCatalyst: avgDays,
		},
		MarketStatus: model.MarketStatus{
			IsOpen:      MarketOpen(now),
			LastUpdated: stamp,
		},
		LastUpdated: stamp,
	}, nil
}

func (a *Assembler) buildRecord(ctx context.Context, p model.Position, live map[string]model.LiveQuote, authenticated bool, now time.Time) model.FeedRecord {
	stockPrice := p.StoredStockPrice
	if q, ok := live[p.Ticker]; ok && q.Last > 0 {
		stockPrice = q.Last
	}

	currentOption, optionLive, openInterest := a.resolveOptionPrice(ctx, p, authenticated)

	daysToExpiry := calc.DaysUntil(p.Expiration, now)
	daysToCatalyst := calc.DaysUntil(p.CatalystDate, now)
	breakEven := calc.BreakEven(p.Strike, p.EntryPrice, p.OptionType)
	entryZone := calc.EntryZone(currentOption, p.EntryPrice)

	pnlPct := 0.0
	if p.EntryPrice > 0 {
		pnlPct = math.Round((currentOption-p.EntryPrice)/p.EntryPrice*1000) / 10
	}

	// ENR is recomputed live when both prices are present; otherwise the
	// synced values are reported and flagged as stale.
	var enrBlock model.ENRBlock
	if authenticated && stockPrice > 0 && currentOption > 0 {
		res := calc.ExpectedNetReturn(a.ENR, stockPrice, p.Strike, currentOption, p.CatalystEvent, p.Research)
		enrBlock = model.ENRBlock{
			ENR:     res.ENR,
			WinProb: res.WinProb,
			Zone:    calc.ClassifyENR(res.ENR),
			IsLive:  true,
		}
	} else {
		winProb := p.StoredWinProb
		if winProb < 1 {
			winProb *= 100
		}
		enrBlock = model.ENRBlock{
			ENR:     math.Round(p.StoredENR*10) / 10,
			WinProb: math.Round(winProb*10) / 10,
			Zone:    calc.ClassifyENR(p.StoredENR),
			IsLive:  false,
		}
	}

	contScore := p.StoredContScore
	if p.Research.Found {
		contScore = calc.ContScore(a.Cont, p.Research)
	}

	highlights, risks := parseTradeAnalysis(p.Research.TradeAnalysisJSON)

	oi := model.OIBlock{Trend: "unknown"}
	if optionLive {
		oi.Current = int(openInterest)
	}

	return model.FeedRecord{
		Ticker:   p.Ticker,
		Status:   p.Status,
		Category: Category(p.CatalystEvent),
		Position: model.PositionBlock{
			Strike:            p.Strike,
			Expiration:        p.Expiration,
			ExpirationDisplay: calc.DisplayDate(p.Expiration),
			OptionType:        string(p.OptionType),
			Quantity:          p.Quantity,
		},
		Prices: model.PriceBlock{
			Entry:      p.EntryPrice,
			Current:    currentOption,
			StockPrice: stockPrice,
			BreakEven:  breakEven,
			MaxBuy:     calc.MaxBuy(p.EntryPrice),
			PnlPct:     pnlPct,
		},
		EntryZone: entryZone,
		ENR:       enrBlock,
		Cont: model.ContBlock{
			Score:   contScore,
			Rating:  calc.ContRating(contScore),
			Display: calc.ContDisplay(contScore),
		},
		Catalyst: model.CatalystBlock{
			Date:           p.CatalystDate,
			DateDisplay:    calc.DisplayDate(p.CatalystDate),
			Event:          p.CatalystEvent,
			Drug:           p.CatalystDrug,
			DaysToCatalyst: daysToCatalyst,
		},
		Timing: model.TimingBlock{
			DaysToExpiry: daysToExpiry,
			EntryDate:    p.EntryDate,
		},
		Thesis: model.ThesisBlock{
			DrugName:      p.CatalystDrug,
			Indication:    p.CatalystEvent,
			Highlights:    highlights,
			Risks:         risks,
			FirstInClass:  p.Research.FirstInClass,
			Orphan:        p.Research.Orphan,
			FastTrack:     p.Research.FastTrack,
			ShortInterest: p.Research.ShortInterestPct,
		},
		OI:          oi,
		LastUpdated: now.Format(time.RFC3339),
	}
}

// resolveOptionPrice prefers a live mid, then the stored price with the
// total-value unit correction, then the entry premium.
func (a *Assembler) resolveOptionPrice(ctx context.Context, p model.Position, authenticated bool) (price float64, isLive bool, openInterest int64) {
	if authenticated {
		if oq, ok := a.Quotes.OptionQuote(ctx, p.Ticker, p.Expiration, p.Strike, p.OptionType); ok && oq.Mid > 0 {
			return oq.Mid, true, oq.OpenInterest
		}
	}
	if p.StoredPrice > 0 {
		if p.EntryPrice > 0 && p.Quantity > 0 && p.StoredPrice > p.EntryPrice*unitCorrectionFactor {
			return p.StoredPrice / (float64(p.Quantity) * 100), false, 0
		}
		return p.StoredPrice, false, 0
	}
	return p.EntryPrice, false, 0
}

type tradeAnalysis struct {
	ExecutiveSummary string   `json:"executive_summary"`
	KeyRisks         []string `json:"key_risks"`
}

func parseTradeAnalysis(raw string) (highlights, risks []string) {
	if raw == "" {
		return nil, nil
	}
	var analysis tradeAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, nil
	}
	if s := analysis.ExecutiveSummary; s != "" {
		if len(s) > 300 {
			s = s[:300] + "..."
		}
		highlights = append(highlights, s)
	}
	risks = analysis.KeyRisks
	if len(risks) > 3 {
		risks = risks[:3]
	}
	return highlights, risks
}

// Category buckets a catalyst event description into a therapeutic area.
func Category(event string) string {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "lung"), strings.Contains(e, "nsclc"),
		strings.Contains(e, "cancer"), strings.Contains(e, "oncolog"):
		return "Oncology"
	case strings.Contains(e, "fung"), strings.Contains(e, "infect"):
		return "Infectious Disease"
	case strings.Contains(e, "neuro"), strings.Contains(e, "cns"):
		return "CNS/Neurology"
	case strings.Contains(e, "cardio"), strings.Contains(e, "heart"):
		return "Cardiovascular"
	case strings.Contains(e, "autoimmune"), strings.Contains(e, "inflam"):
		return "Autoimmune"
	default:
		return "Biotech"
	}
}

// MarketOpen is a weekday-only approximation. Proper market-hours logic
// needs exchange-timezone handling and a holiday calendar.
// TODO: convert to America/New_York and check the 9:30-16:00 session.
func MarketOpen(now time.Time) bool {
	wd := now.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func uniqueTickers(positions []model.Position) []string {
	seen := make(map[string]struct{}, len(positions))
	var tickers []string
	for _, p := range positions {
		if _, ok := seen[p.Ticker]; ok {
			continue
		}
		seen[p.Ticker] = struct{}{}
		tickers = append(tickers, p.Ticker)
	}
	return tickers
}
