package store

import (
	"context"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// Reader is the position-store boundary. Both the local SQLite database and
// the cloud mirror implement it, so the feed pipeline is wired once and the
// backend is selected by configuration.
type Reader interface {
	// OpenPositions returns OPEN positions left-joined with their catalyst
	// research, ordered soonest catalyst first. A missing research row is
	// not an error; the Research zero value is attached instead.
	OpenPositions(ctx context.Context) ([]model.Position, error)
	// UpcomingCatalysts returns research rows with catalyst dates from
	// today onward, ordered ascending, with any open position's conviction
	// score attached.
	UpcomingCatalysts(ctx context.Context) ([]model.Catalyst, error)
	Close() error
}
