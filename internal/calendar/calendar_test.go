package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

type fakeStore struct {
	catalysts []model.Catalyst
	err       error
}

func (f *fakeStore) OpenPositions(context.Context) ([]model.Position, error) { return nil, f.err }
func (f *fakeStore) UpcomingCatalysts(context.Context) ([]model.Catalyst, error) {
	return f.catalysts, f.err
}
func (f *fakeStore) Close() error { return nil }

// Monday.
var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestGenerator(st *fakeStore) *Generator {
	g := New(st)
	g.Now = func() time.Time { return fixedNow }
	return g
}

func TestBuild_SummaryAndWindows(t *testing.T) {
	g := newTestGenerator(&fakeStore{catalysts: []model.Catalyst{
		{Ticker: "SOON", Date: "2026-06-04", Event: "PDUFA target action date", DrugName: "DrugA"},
		{Ticker: "NEXT", Date: "2026-06-11", Event: "Phase 3 topline"},
		{Ticker: "LATE", Date: "2026-06-25", Event: "Phase 2 data"},
		{Ticker: "FARR", Date: "2026-08-01", Event: "AdCom meeting"},
	}})

	doc, err := g.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Catalysts, 4)

	assert.Equal(t, 4, doc.Summary.TotalCatalysts)
	assert.Equal(t, 1, doc.Summary.ThisWeek)
	assert.Equal(t, 1, doc.Summary.NextWeek)
	assert.Equal(t, 3, doc.Summary.ThisMonth)
	assert.Equal(t, map[string]int{"PDUFA": 1, "Phase 3": 1, "Phase 2": 1, "AdCom": 1}, doc.Summary.ByType)

	soon := doc.Catalysts[0]
	assert.True(t, soon.IsPublic, "within the free window")
	assert.Equal(t, 2, soon.DaysUntil)
	assert.Equal(t, "Thursday", soon.Weekday)
	assert.Equal(t, "Jun 04, 2026", soon.DateDisplay)
	assert.Equal(t, "PDUFA", soon.Event.Type)
	assert.Equal(t, "extreme", soon.Risk.Level)

	assert.False(t, doc.Catalysts[1].IsPublic)
	assert.Equal(t, "high", doc.Catalysts[1].Risk.Level)
	assert.Equal(t, 7, doc.PublicDays)
}

func TestBuild_AnalysisAttachment(t *testing.T) {
	g := newTestGenerator(&fakeStore{catalysts: []model.Catalyst{
		{
			Ticker: "HELD", Date: "2026-06-10", Event: "Phase 3 data",
			HasPosition: true, ContScore: 88, PlayType: "hold_through",
			LeapPlay: true, EstimatedPDUFADate: "2027-01-15", DataCompletenessPct: 90,
			ResearchNotes: "solid design",
		},
		{Ticker: "WATCH", Date: "2026-06-12", Event: "Phase 2 data"},
	}})

	doc, err := g.Build(context.Background())
	require.NoError(t, err)

	held := doc.Catalysts[0]
	require.NotNil(t, held.Analysis.ContScore)
	assert.Equal(t, 88, *held.Analysis.ContScore)
	assert.Equal(t, "hold_through", held.Analysis.PlayType)
	assert.True(t, held.Analysis.IsLeapPlay)
	assert.True(t, held.Meta.HasPosition)
	assert.True(t, held.Meta.ResearchAvailable)

	watch := doc.Catalysts[1]
	assert.Nil(t, watch.Analysis.ContScore, "no position means no score, not zero")
	assert.False(t, watch.Meta.ResearchAvailable)
}

func TestBuild_StoreError(t *testing.T) {
	g := newTestGenerator(&fakeStore{err: errors.New("unreachable")})
	_, err := g.Build(context.Background())
	require.Error(t, err)
}

func TestEventType(t *testing.T) {
	cases := map[string]string{
		"PDUFA target action date": "PDUFA",
		"FDA approval decision":    "PDUFA",
		"Advisory committee vote":  "AdCom",
		"Phase 3 topline":          "Phase 3",
		"phase2 interim":           "Phase 2",
		"Phase 1 SAD/MAD":          "Phase 1",
		"Data presentation":        "Other",
	}
	for event, want := range cases {
		assert.Equal(t, want, EventType(event), event)
	}
}

func TestDesignations(t *testing.T) {
	c := model.Catalyst{Orphan: true, Breakthrough: true, FirstInClass: true}
	badges := Designations(c)
	require.Len(t, badges, 3)
	assert.Equal(t, "ORPHAN", badges[0].Code)
	assert.Equal(t, "BTD", badges[1].Code)
	assert.Equal(t, "FIC", badges[2].Code)

	assert.Empty(t, Designations(model.Catalyst{}))
}
