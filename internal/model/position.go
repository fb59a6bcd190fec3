package model

// OptionType distinguishes calls from puts.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Research holds the qualitative and quantitative annotations attached to a
// ticker's catalyst. A position with no matching research row carries the
// zero value (Found=false); that is never an error.
type Research struct {
	FirstInClass           bool
	Orphan                 bool
	FastTrack              bool
	Breakthrough           bool
	CriticalUnmetNeed      bool
	MeToo                  bool
	SingleIndicationOnly   bool
	IncrementalImprovement bool
	MarketSkepticism       bool

	McapMillions        float64
	PeakRevenueMillions float64
	ShortInterestPct    float64
	PriceChange60dPct   float64

	Notes             string
	TradeAnalysisJSON string

	Found bool
}

// Position is one open options contract tied to a trading thesis.
// Dates are kept in the store's YYYY-MM-DD string form; they are parsed only
// where day arithmetic is needed.
type Position struct {
	Ticker     string
	Strike     float64
	Expiration string
	OptionType OptionType
	EntryPrice float64
	Quantity   int
	Status     string
	EntryDate  string

	// Last persisted prices, used as fallbacks when no live quote is
	// available. StoredPrice is unit-ambiguous upstream: it may be a
	// per-contract premium or a total position value.
	StoredPrice      float64
	StoredStockPrice float64

	CatalystDate  string
	CatalystEvent string
	CatalystDrug  string
	PlayType      string

	// Metrics synced from the research pipeline, reported when no live
	// recomputation is possible.
	StoredContScore int
	StoredENR       float64
	StoredWinProb   float64

	Research Research
}

// LiveQuote is an ephemeral per-run underlying quote. Never persisted.
type LiveQuote struct {
	Last      float64
	NetChange float64
	ChangePct float64
	Bid       float64
	Ask       float64
	Volume    int64
}

// OptionQuote is an ephemeral per-run quote for a single option contract.
type OptionQuote struct {
	Bid          float64
	Ask          float64
	Last         float64
	Mid          float64
	Volume       int64
	OpenInterest int64
	IV           float64
}
