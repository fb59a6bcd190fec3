package model

// Catalyst is one upcoming catalyst_research row, joined with any open
// position on the same ticker for the conviction score.
type Catalyst struct {
	Ticker     string
	Date       string
	Event      string
	DrugName   string
	Indication string

	McapMillions     float64
	ShortInterestPct float64

	Orphan            bool
	FastTrack         bool
	Breakthrough      bool
	FirstInClass      bool
	BestInClass       bool
	CriticalUnmetNeed bool
	PriorityReview    bool
	RMAT              bool
	Accelerated       bool

	LeapPlay            bool
	EstimatedPDUFADate  string
	DataCompletenessPct float64
	ResearchNotes       string

	HasPosition bool
	ContScore   int
	PlayType    string
}

// CalendarDocument is the top-level shape of calendar.json.
type CalendarDocument struct {
	GeneratedAt string          `json:"generated_at"`
	PublicDays  int             `json:"public_days"`
	Summary     CalendarSummary `json:"summary"`
	Catalysts   []CalendarEntry `json:"catalysts"`
}

type CalendarSummary struct {
	TotalCatalysts int            `json:"total_catalysts"`
	ThisWeek       int            `json:"this_week"`
	NextWeek       int            `json:"next_week"`
	ThisMonth      int            `json:"this_month"`
	ByType         map[string]int `json:"by_type"`
}

type CalendarEntry struct {
	Ticker       string         `json:"ticker"`
	Date         string         `json:"date"`
	DateDisplay  string         `json:"date_display"`
	Weekday      string         `json:"weekday"`
	DaysUntil    int            `json:"days_until"`
	IsPublic     bool           `json:"is_public"`
	Event        EventBlock     `json:"event"`
	Risk         RiskBlock      `json:"risk"`
	Designations []Designation  `json:"designations"`
	Company      CompanyBlock   `json:"company"`
	Analysis     AnalysisBlock  `json:"analysis"`
	Meta         CalendarMeta   `json:"meta"`
}

type EventBlock struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	DrugName    string `json:"drug_name"`
	Indication  string `json:"indication"`
}

// RiskBlock grades how binary the catalyst outcome is.
type RiskBlock struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Note  string `json:"note"`
}

// Designation is a regulatory or competitive badge shown on the calendar.
type Designation struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type CompanyBlock struct {
	McapMillions     float64 `json:"mcap_millions"`
	ShortInterestPct float64 `json:"short_interest_pct"`
}

// AnalysisBlock holds the members-only detail.
type AnalysisBlock struct {
	ContScore        *int    `json:"cont_score"`
	PlayType         string  `json:"play_type"`
	IsLeapPlay       bool    `json:"is_leap_play"`
	EstimatedPDUFA   string  `json:"estimated_pdufa"`
	DataCompleteness float64 `json:"data_completeness"`
}

type CalendarMeta struct {
	HasPosition       bool `json:"has_position"`
	ResearchAvailable bool `json:"research_available"`
}
