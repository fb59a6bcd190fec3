package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// SupabaseStore reads the cloud mirror of the trading database through its
// PostgREST interface. Used by unattended runs that have no access to the
// local SQLite file.
type SupabaseStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSupabaseStore(baseURL, apiKey string, timeout time.Duration) *SupabaseStore {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SupabaseStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// flexBool tolerates the 0/1 integers the sync job writes alongside real
// JSON booleans.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", "0":
		*b = false
	case "true":
		*b = true
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("boolean field: unexpected %s", data)
		}
		*b = n != 0
	}
	return nil
}

type supabasePosition struct {
	Ticker        string   `json:"ticker"`
	Strike        float64  `json:"strike"`
	Expiration    string   `json:"expiration"`
	OptionType    string   `json:"option_type"`
	EntryPrice    float64  `json:"entry_price"`
	Quantity      float64  `json:"quantity"`
	CurrentPrice  float64  `json:"current_price"`
	StockPrice    float64  `json:"stock_price"`
	Status        string   `json:"status"`
	EntryDate     string   `json:"entry_date"`
	CatalystDate  string   `json:"catalyst_date"`
	CatalystEvent string   `json:"catalyst_event"`
	CatalystDrug  string   `json:"catalyst_drug"`
	PlayType      string   `json:"play_type"`
	ContScore     float64  `json:"cont_score"`
	ENR           float64  `json:"enr"`
	WinProb       float64  `json:"win_prob"`
}

type supabaseResearch struct {
	Ticker                 string   `json:"ticker"`
	CatalystDate           string   `json:"catalyst_date"`
	CatalystEvent          string   `json:"catalyst_event"`
	DrugName               string   `json:"drug_name"`
	Indication             string   `json:"indication"`
	ResearchNotes          string   `json:"research_notes"`
	TradeAnalysisJSON      string   `json:"trade_analysis_json"`
	McapMillions           float64  `json:"mcap_millions"`
	PeakRevenueMillions    float64  `json:"peak_revenue_millions"`
	ShortInterestPct       float64  `json:"short_interest_pct"`
	PriceChange60dPct      float64  `json:"price_change_60d_pct"`
	DataCompletenessPct    float64  `json:"data_completeness_pct"`
	EstimatedPDUFADate     string   `json:"estimated_pdufa_date"`
	FirstInClass           flexBool `json:"is_first_in_class"`
	BestInClass            flexBool `json:"is_best_in_class"`
	Orphan                 flexBool `json:"is_orphan"`
	FastTrack              flexBool `json:"is_fast_track"`
	Breakthrough           flexBool `json:"is_breakthrough"`
	CriticalUnmetNeed      flexBool `json:"critical_unmet_need"`
	PriorityReview         flexBool `json:"is_priority_review"`
	RMAT                   flexBool `json:"is_rmat"`
	Accelerated            flexBool `json:"is_accelerated"`
	LeapPlay               flexBool `json:"is_leap_play"`
	MeToo                  flexBool `json:"is_me_too"`
	SingleIndicationOnly   flexBool `json:"single_indication_only"`
	IncrementalImprovement flexBool `json:"incremental_improvement"`
	MarketSkepticism       flexBool `json:"market_skepticism"`
	Excluded               flexBool `json:"excluded"`
}

func (s *SupabaseStore) get(ctx context.Context, table string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("supabase %s: status %d, body: %s", table, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase %s: decode: %w", table, err)
	}
	return nil
}

func (s *SupabaseStore) OpenPositions(ctx context.Context) ([]model.Position, error) {
	var rawPositions []supabasePosition
	params := url.Values{
		"select": {"*"},
		"status": {"eq.OPEN"},
		"order":  {"catalyst_date.asc"},
	}
	if err := s.get(ctx, "positions", params, &rawPositions); err != nil {
		return nil, err
	}

	// Research is fetched whole and joined in memory; the table is small.
	var rawResearch []supabaseResearch
	if err := s.get(ctx, "catalyst_research", url.Values{"select": {"*"}}, &rawResearch); err != nil {
		log.Printf("[WARN] supabase: research fetch failed, positions proceed without: %v", err)
		rawResearch = nil
	}
	type key struct{ ticker, date string }
	researchByKey := make(map[key]supabaseResearch, len(rawResearch))
	for _, r := range rawResearch {
		researchByKey[key{r.Ticker, r.CatalystDate}] = r
	}

	positions := make([]model.Position, 0, len(rawPositions))
	for _, rp := range rawPositions {
		p := model.Position{
			Ticker:           rp.Ticker,
			Strike:           rp.Strike,
			Expiration:       rp.Expiration,
			OptionType:       model.OptionCall,
			EntryPrice:       rp.EntryPrice,
			Quantity:         int(rp.Quantity),
			Status:           rp.Status,
			EntryDate:        rp.EntryDate,
			StoredPrice:      rp.CurrentPrice,
			StoredStockPrice: rp.StockPrice,
			CatalystDate:     rp.CatalystDate,
			CatalystEvent:    rp.CatalystEvent,
			CatalystDrug:     rp.CatalystDrug,
			PlayType:         rp.PlayType,
			StoredContScore:  int(rp.ContScore),
			StoredENR:        rp.ENR,
			StoredWinProb:    rp.WinProb,
		}
		if model.OptionType(rp.OptionType) == model.OptionPut {
			p.OptionType = model.OptionPut
		}
		if r, ok := researchByKey[key{rp.Ticker, rp.CatalystDate}]; ok {
			p.Research = model.Research{
				Found:                  true,
				Notes:                  r.ResearchNotes,
				TradeAnalysisJSON:      r.TradeAnalysisJSON,
				McapMillions:           r.McapMillions,
				PeakRevenueMillions:    r.PeakRevenueMillions,
				ShortInterestPct:       r.ShortInterestPct,
				PriceChange60dPct:      r.PriceChange60dPct,
				FirstInClass:           bool(r.FirstInClass),
				Orphan:                 bool(r.Orphan),
				FastTrack:              bool(r.FastTrack),
				Breakthrough:           bool(r.Breakthrough),
				CriticalUnmetNeed:      bool(r.CriticalUnmetNeed),
				MeToo:                  bool(r.MeToo),
				SingleIndicationOnly:   bool(r.SingleIndicationOnly),
				IncrementalImprovement: bool(r.IncrementalImprovement),
				MarketSkepticism:       bool(r.MarketSkepticism),
			}
		}
		positions = append(positions, p)
	}
	return positions, nil
}

func (s *SupabaseStore) UpcomingCatalysts(ctx context.Context) ([]model.Catalyst, error) {
	var rawResearch []supabaseResearch
	params := url.Values{
		"select":        {"*"},
		"catalyst_date": {"gte." + time.Now().Format("2006-01-02")},
		"order":         {"catalyst_date.asc"},
	}
	if err := s.get(ctx, "catalyst_research", params, &rawResearch); err != nil {
		return nil, err
	}

	var rawPositions []supabasePosition
	if err := s.get(ctx, "positions", url.Values{"select": {"*"}, "status": {"eq.OPEN"}}, &rawPositions); err != nil {
		log.Printf("[WARN] supabase: positions fetch for calendar failed: %v", err)
		rawPositions = nil
	}
	open := make(map[string]supabasePosition, len(rawPositions))
	for _, p := range rawPositions {
		open[p.Ticker] = p
	}

	var catalysts []model.Catalyst
	for _, r := range rawResearch {
		if bool(r.Excluded) {
			continue
		}
		c := model.Catalyst{
			Ticker:              r.Ticker,
			Date:                r.CatalystDate,
			Event:               r.CatalystEvent,
			DrugName:            r.DrugName,
			Indication:          r.Indication,
			McapMillions:        r.McapMillions,
			ShortInterestPct:    r.ShortInterestPct,
			Orphan:              bool(r.Orphan),
			FastTrack:           bool(r.FastTrack),
			Breakthrough:        bool(r.Breakthrough),
			FirstInClass:        bool(r.FirstInClass),
			BestInClass:         bool(r.BestInClass),
			CriticalUnmetNeed:   bool(r.CriticalUnmetNeed),
			PriorityReview:      bool(r.PriorityReview),
			RMAT:                bool(r.RMAT),
			Accelerated:         bool(r.Accelerated),
			LeapPlay:            bool(r.LeapPlay),
			EstimatedPDUFADate:  r.EstimatedPDUFADate,
			DataCompletenessPct: r.DataCompletenessPct,
			ResearchNotes:       r.ResearchNotes,
		}
		if p, ok := open[r.Ticker]; ok {
			c.HasPosition = true
			c.ContScore = int(p.ContScore)
			c.PlayType = p.PlayType
		}
		catalysts = append(catalysts, c)
	}

	sort.SliceStable(catalysts, func(i, j int) bool { return catalysts[i].Date < catalysts[j].Date })
	return catalysts, nil
}

func (s *SupabaseStore) Close() error { return nil }
