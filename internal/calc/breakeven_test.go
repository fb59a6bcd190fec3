package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

func TestBreakEven(t *testing.T) {
	tests := []struct {
		name    string
		strike  float64
		premium float64
		optType model.OptionType
		want    float64
	}{
		{"call", 50, 2.00, model.OptionCall, 52},
		{"put", 50, 2.00, model.OptionPut, 48},
		{"zero premium call", 50, 0, model.OptionCall, 50},
		{"deep otm put goes negative", 1.50, 2.00, model.OptionPut, -0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BreakEven(tt.strike, tt.premium, tt.optType), 1e-9)
		})
	}
}

func TestMaxBuy(t *testing.T) {
	assert.Equal(t, 2.20, MaxBuy(2.00))
	assert.Equal(t, 1.38, MaxBuy(1.25))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 29, DaysUntil("2026-04-01", now))
	assert.Equal(t, 0, DaysUntil("2026-03-02", now))
	assert.Equal(t, 0, DaysUntil("2026-01-15", now), "past dates floor at 0")
	assert.Equal(t, -1, DaysUntil("", now))
	assert.Equal(t, -1, DaysUntil("not-a-date", now))
	assert.Equal(t, -1, DaysUntil("03/02/2026", now))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Jul 17, 2026", DisplayDate("2026-07-17"))
	assert.Equal(t, "TBD", DisplayDate("TBD"))
}
