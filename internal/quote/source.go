package quote

import (
	"context"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

// Source provides live market data. Every method degrades softly: a source
// that cannot authenticate or reach its upstream returns empty results, and
// the pipeline falls back to persisted prices.
type Source interface {
	// Authenticate reports whether a usable bearer token is held or could
	// be obtained. False is a soft failure, never a reason to abort a run.
	Authenticate(ctx context.Context) bool
	// Quotes fetches underlying quotes for a batch of symbols. Symbols that
	// fail individually are simply absent from the result.
	Quotes(ctx context.Context, symbols []string) map[string]model.LiveQuote
	// OptionQuote fetches one option contract's quote.
	OptionQuote(ctx context.Context, ticker, expiration string, strike float64, optType model.OptionType) (model.OptionQuote, bool)
	Name() string
}

// NoopSource is used when no market-data credentials are configured; the
// feed then renders entirely from persisted fallback prices.
type NoopSource struct{}

func NewNoopSource() *NoopSource { return &NoopSource{} }

func (n *NoopSource) Name() string                        { return "noop" }
func (n *NoopSource) Authenticate(context.Context) bool   { return false }
func (n *NoopSource) Quotes(context.Context, []string) map[string]model.LiveQuote {
	return nil
}
func (n *NoopSource) OptionQuote(context.Context, string, string, float64, model.OptionType) (model.OptionQuote, bool) {
	return model.OptionQuote{}, false
}

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Authenticated bool
	Stocks        map[string]model.LiveQuote
	// Options is keyed by ticker; a single contract quote per ticker is
	// enough for feed tests.
	Options map[string]model.OptionQuote
}

func (m *MockSource) Name() string                      { return "mock" }
func (m *MockSource) Authenticate(context.Context) bool { return m.Authenticated }

func (m *MockSource) Quotes(_ context.Context, symbols []string) map[string]model.LiveQuote {
	if !m.Authenticated {
		return nil
	}
	out := make(map[string]model.LiveQuote)
	for _, s := range symbols {
		if q, ok := m.Stocks[s]; ok {
			out[s] = q
		}
	}
	return out
}

func (m *MockSource) OptionQuote(_ context.Context, ticker, _ string, _ float64, _ model.OptionType) (model.OptionQuote, bool) {
	if !m.Authenticated {
		return model.OptionQuote{}, false
	}
	q, ok := m.Options[ticker]
	return q, ok
}
