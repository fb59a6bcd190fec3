package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// SQLiteStore reads the trading database maintained by the research
// pipeline. The database is owned elsewhere; this store never writes.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens an existing database file. A missing file is an error:
// the feed must not silently generate from an empty store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("position database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	log.Printf("[INFO] position store opened: %s", path)
	return &SQLiteStore{db: db}, nil
}

const openPositionsQuery = `
SELECT
	p.ticker, p.strike, p.expiration, p.option_type,
	p.entry_price, p.quantity, p.current_price, p.stock_price,
	p.status, p.entry_date,
	p.catalyst_date, p.catalyst_event, p.catalyst_drug, p.play_type,
	p.cont_score, p.enr, p.win_prob,
	cr.ticker,
	cr.research_notes, cr.mcap_millions, cr.peak_revenue_millions,
	cr.is_first_in_class, cr.is_orphan, cr.is_fast_track, cr.is_breakthrough,
	cr.short_interest_pct, cr.critical_unmet_need, cr.price_change_60d_pct,
	cr.trade_analysis_json, cr.is_me_too, cr.single_indication_only,
	cr.incremental_improvement, cr.market_skepticism
FROM positions p
LEFT JOIN catalyst_research cr
	ON p.ticker = cr.ticker
	AND p.catalyst_date = cr.catalyst_date
WHERE p.status = 'OPEN'
ORDER BY p.catalyst_date ASC`

func (s *SQLiteStore) OpenPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := s.db.QueryContext(ctx, openPositionsQuery)
	if err != nil {
		return nil, fmt.Errorf("query open positions: %w", err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var (
			p model.Position

			optionType, entryDate                    sql.NullString
			entryPrice, quantity                     sql.NullFloat64
			currentPrice, stockPrice                 sql.NullFloat64
			catalystDate, catalystEvent, drug, play  sql.NullString
			contScore                                sql.NullInt64
			enr, winProb                             sql.NullFloat64
			researchTicker                           sql.NullString
			notes, analysisJSON                      sql.NullString
			mcap, peakRevenue, shortInterest, change sql.NullFloat64
			fic, orphan, fastTrack, breakthrough     sql.NullInt64
			unmetNeed, meToo, singleInd, incremental sql.NullInt64
			skepticism                               sql.NullInt64
		)
		if err := rows.Scan(
			&p.Ticker, &p.Strike, &p.Expiration, &optionType,
			&entryPrice, &quantity, &currentPrice, &stockPrice,
			&p.Status, &entryDate,
			&catalystDate, &catalystEvent, &drug, &play,
			&contScore, &enr, &winProb,
			&researchTicker,
			&notes, &mcap, &peakRevenue,
			&fic, &orphan, &fastTrack, &breakthrough,
			&shortInterest, &unmetNeed, &change,
			&analysisJSON, &meToo, &singleInd,
			&incremental, &skepticism,
		); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}

		p.OptionType = model.OptionCall
		if model.OptionType(optionType.String) == model.OptionPut {
			p.OptionType = model.OptionPut
		}
		p.EntryPrice = entryPrice.Float64
		p.Quantity = int(quantity.Float64)
		p.StoredPrice = currentPrice.Float64
		p.StoredStockPrice = stockPrice.Float64
		p.EntryDate = entryDate.String
		p.CatalystDate = catalystDate.String
		p.CatalystEvent = catalystEvent.String
		p.CatalystDrug = drug.String
		p.PlayType = play.String
		p.StoredContScore = int(contScore.Int64)
		p.StoredENR = enr.Float64
		p.StoredWinProb = winProb.Float64

		if researchTicker.Valid {
			p.Research = model.Research{
				Found:                  true,
				Notes:                  notes.String,
				TradeAnalysisJSON:      analysisJSON.String,
				McapMillions:           mcap.Float64,
				PeakRevenueMillions:    peakRevenue.Float64,
				ShortInterestPct:       shortInterest.Float64,
				PriceChange60dPct:      change.Float64,
				FirstInClass:           fic.Int64 != 0,
				Orphan:                 orphan.Int64 != 0,
				FastTrack:              fastTrack.Int64 != 0,
				Breakthrough:           breakthrough.Int64 != 0,
				CriticalUnmetNeed:      unmetNeed.Int64 != 0,
				MeToo:                  meToo.Int64 != 0,
				SingleIndicationOnly:   singleInd.Int64 != 0,
				IncrementalImprovement: incremental.Int64 != 0,
				MarketSkepticism:       skepticism.Int64 != 0,
			}
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	return positions, nil
}

const upcomingCatalystsQuery = `
SELECT
	ticker, catalyst_date, catalyst_event, drug_name, indication,
	mcap_millions, short_interest_pct,
	is_orphan, is_fast_track, is_breakthrough,
	is_first_in_class, is_best_in_class, critical_unmet_need,
	is_priority_review, is_rmat, is_accelerated,
	is_leap_play, estimated_pdufa_date, data_completeness_pct,
	research_notes
FROM catalyst_research
WHERE catalyst_date >= date('now')
AND (excluded != 1 OR excluded IS NULL)
ORDER BY catalyst_date ASC`

func (s *SQLiteStore) UpcomingCatalysts(ctx context.Context) ([]model.Catalyst, error) {
	rows, err := s.db.QueryContext(ctx, upcomingCatalystsQuery)
	if err != nil {
		return nil, fmt.Errorf("query upcoming catalysts: %w", err)
	}
	defer rows.Close()

	var catalysts []model.Catalyst
	for rows.Next() {
		var (
			c model.Catalyst

			event, drug, indication, pdufaDate, notes     sql.NullString
			mcap, shortInterest, completeness             sql.NullFloat64
			orphan, fastTrack, breakthrough, fic, bic     sql.NullInt64
			unmetNeed, priorityReview, rmat, accel, leap  sql.NullInt64
		)
		if err := rows.Scan(
			&c.Ticker, &c.Date, &event, &drug, &indication,
			&mcap, &shortInterest,
			&orphan, &fastTrack, &breakthrough,
			&fic, &bic, &unmetNeed,
			&priorityReview, &rmat, &accel,
			&leap, &pdufaDate, &completeness,
			&notes,
		); err != nil {
			return nil, fmt.Errorf("scan catalyst: %w", err)
		}

		c.Event = event.String
		c.DrugName = drug.String
		c.Indication = indication.String
		c.EstimatedPDUFADate = pdufaDate.String
		c.ResearchNotes = notes.String
		c.McapMillions = mcap.Float64
		c.ShortInterestPct = shortInterest.Float64
		c.DataCompletenessPct = completeness.Float64
		c.Orphan = orphan.Int64 != 0
		c.FastTrack = fastTrack.Int64 != 0
		c.Breakthrough = breakthrough.Int64 != 0
		c.FirstInClass = fic.Int64 != 0
		c.BestInClass = bic.Int64 != 0
		c.CriticalUnmetNeed = unmetNeed.Int64 != 0
		c.PriorityReview = priorityReview.Int64 != 0
		c.RMAT = rmat.Int64 != 0
		c.Accelerated = accel.Int64 != 0
		c.LeapPlay = leap.Int64 != 0

		catalysts = append(catalysts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalysts: %w", err)
	}

	if err := s.attachPositions(ctx, catalysts); err != nil {
		// Conviction scores on the calendar are a nice-to-have; the
		// calendar itself still renders.
		log.Printf("[WARN] attach position data to calendar: %v", err)
	}
	return catalysts, nil
}

func (s *SQLiteStore) attachPositions(ctx context.Context, catalysts []model.Catalyst) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, cont_score, play_type FROM positions WHERE status = 'OPEN'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type posInfo struct {
		contScore int
		playType  string
	}
	open := make(map[string]posInfo)
	for rows.Next() {
		var ticker string
		var contScore sql.NullInt64
		var playType sql.NullString
		if err := rows.Scan(&ticker, &contScore, &playType); err != nil {
			return err
		}
		open[ticker] = posInfo{contScore: int(contScore.Int64), playType: playType.String}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range catalysts {
		if info, ok := open[catalysts[i].Ticker]; ok {
			catalysts[i].HasPosition = true
			catalysts[i].ContScore = info.contScore
			catalysts[i].PlayType = info.playType
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
