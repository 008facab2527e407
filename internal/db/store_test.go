package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ulhiking-backend/internal/components/chrono"
	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/internal/tripreport"
	"ulhiking-backend/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestStoreRoundTrip(t *testing.T) {
	database := testutil.OpenMemoryDB(t, Schema)
	now := time.Date(2024, time.June, 2, 8, 0, 0, 0, time.UTC)
	store := NewStore(database, chrono.FixedTime{At: now}, &telemetry.Recorder{})

	reports := []tripreport.Report{
		{
			Title:     "Trip report: Wind River High Route",
			Text:      "list at lighterpack.com/r/abc",
			Links:     []string{"https://lighterpack.com/r/abc"},
			Timestamp: "2024-06-01 18:00:00",
		},
		{
			Title:     "Trip report: no list",
			Links:     []string{},
			Timestamp: "2024-06-01 19:00:00",
		},
	}
	rows := []tripreport.ItemRow{
		{
			URL: "https://lighterpack.com/r/abc",
			Row: lighterpack.Row{
				Category: "Shelter",
				Item: lighterpack.Item{
					Name:        ptr("Duplex"),
					Description: ptr("DCF"),
					Price:       ptr(decimal.RequireFromString("350.50")),
					WeightGrams: ptr(539.0),
					Quantity:    ptr(1.0),
				},
			},
		},
		{
			URL: "https://lighterpack.com/r/abc",
			Row: lighterpack.Row{
				Category: "",
				Item:     lighterpack.Item{Name: ptr("Mystery item")},
			},
		},
	}

	after := now.Add(-24 * time.Hour)
	runID, err := store.Save(context.Background(), after, now, reports, rows)
	require.NoError(t, err)
	require.Len(t, runID, 8)

	loadedReports, loadedRows, err := store.Load(context.Background(), runID)
	require.NoError(t, err)

	diff := cmp.Diff(reports, loadedReports)
	if diff != "" {
		t.Fatal(diff)
	}
	diff = cmp.Diff(rows, loadedRows, cmp.Comparer(func(a, b decimal.Decimal) bool {
		return a.Equal(b)
	}))
	if diff != "" {
		t.Fatal(diff)
	}

	run, err := New(database).GetCrawlRun(context.Background(), runID)
	require.NoError(t, err)
	require.Equal(t, after.Unix(), run.WindowAfter)
	require.Equal(t, now.Unix(), run.WindowBefore)
	require.True(t, run.FinishedAt.Valid)
}

func TestStoreSeparatesRuns(t *testing.T) {
	database := testutil.OpenMemoryDB(t, Schema)
	store := NewStore(database, chrono.FixedTime{At: time.Unix(1717200000, 0)}, &telemetry.Recorder{})

	first, err := store.Save(context.Background(), time.Unix(0, 0), time.Unix(1, 0), []tripreport.Report{
		{Title: "one", Links: []string{}},
	}, nil)
	require.NoError(t, err)
	second, err := store.Save(context.Background(), time.Unix(0, 0), time.Unix(1, 0), []tripreport.Report{
		{Title: "two", Links: []string{}},
		{Title: "three", Links: []string{}},
	}, nil)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	reports, rows, err := store.Load(context.Background(), second)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Empty(t, rows)
}

func TestStoreLoadUnknownRun(t *testing.T) {
	database := testutil.OpenMemoryDB(t, Schema)
	store := NewStore(database, chrono.FixedTime{}, &telemetry.Recorder{})
	_, _, err := store.Load(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
