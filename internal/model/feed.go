package model

// FeedDocument is the top-level shape of positions.json consumed by the
// public website.
type FeedDocument struct {
	Positions    []FeedRecord `json:"positions"`
	Summary      FeedSummary  `json:"summary"`
	MarketStatus MarketStatus `json:"market_status"`
	LastUpdated  string       `json:"last_updated"`
}

// FeedSummary aggregates across all open positions.
type FeedSummary struct {
	TotalPositions    int     `json:"total_positions"`
	TotalValue        float64 `json:"total_value"`
	AvgDaysToCatalyst float64 `json:"avg_days_to_catalyst"`
}

// MarketStatus carries the weekday-only market-open approximation.
type MarketStatus struct {
	IsOpen      bool   `json:"is_open"`
	LastUpdated string `json:"last_updated"`
}

// FeedRecord is one denormalized position entry in the feed.
type FeedRecord struct {
	Ticker      string        `json:"ticker"`
	Status      string        `json:"status"`
	Category    string        `json:"category"`
	Position    PositionBlock `json:"position"`
	Prices      PriceBlock    `json:"prices"`
	EntryZone   ZoneBlock     `json:"entry_zone"`
	ENR         ENRBlock      `json:"enr"`
	Cont        ContBlock     `json:"cont"`
	Catalyst    CatalystBlock `json:"catalyst"`
	Timing      TimingBlock   `json:"timing"`
	Thesis      ThesisBlock   `json:"thesis"`
	OI          OIBlock       `json:"oi"`
	LastUpdated string        `json:"last_updated"`
}

type PositionBlock struct {
	Strike            float64 `json:"strike"`
	Expiration        string  `json:"expiration"`
	ExpirationDisplay string  `json:"expiration_display"`
	OptionType        string  `json:"option_type"`
	Quantity          int     `json:"quantity"`
}

type PriceBlock struct {
	Entry      float64 `json:"entry"`
	Current    float64 `json:"current"`
	StockPrice float64 `json:"stock_price"`
	BreakEven  float64 `json:"break_even"`
	MaxBuy     float64 `json:"max_buy"`
	PnlPct     float64 `json:"pnl_pct"`
}

// ZoneBlock is the traffic-light entry-zone classification.
type ZoneBlock struct {
	Zone         string  `json:"zone"`
	Color        string  `json:"color"`
	Message      string  `json:"message"`
	PctFromEntry float64 `json:"pct_from_entry"`
}

// ENRZoneBlock categorizes an ENR value.
type ENRZoneBlock struct {
	Zone    string `json:"zone"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

type ENRBlock struct {
	ENR     float64      `json:"enr"`
	WinProb float64      `json:"win_prob"`
	Zone    ENRZoneBlock `json:"enr_zone"`
	IsLive  bool         `json:"is_live"`
}

type ContBlock struct {
	Score   int    `json:"score"`
	Rating  string `json:"rating"`
	Display string `json:"display"`
}

type CatalystBlock struct {
	Date           string `json:"date"`
	DateDisplay    string `json:"date_display"`
	Event          string `json:"event"`
	Drug           string `json:"drug"`
	DaysToCatalyst int    `json:"days_to_catalyst"`
}

type TimingBlock struct {
	DaysToExpiry int    `json:"days_to_expiry"`
	EntryDate    string `json:"entry_date"`
}

type ThesisBlock struct {
	DrugName      string   `json:"drug_name"`
	Indication    string   `json:"indication"`
	Highlights    []string `json:"highlights"`
	Risks         []string `json:"risks"`
	FirstInClass  bool     `json:"is_first_in_class"`
	Orphan        bool     `json:"is_orphan"`
	FastTrack     bool     `json:"is_fast_track"`
	ShortInterest float64  `json:"short_interest"`
}

// OIBlock is a placeholder for open-interest trend tracking; populating it
// needs historical chain snapshots the pipeline does not collect yet.
type OIBlock struct {
	Current  int    `json:"current"`
	Change1d int    `json:"change_1d"`
	Change5d int    `json:"change_5d"`
	Trend    string `json:"trend"`
}
