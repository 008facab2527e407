package tripreport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/internal/scrapers/reddit"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

type fakeScraper struct {
	results map[string]lighterpack.Result
	calls   [][]string
}

func (f *fakeScraper) ScrapeAll(ctx context.Context, urls []string) []lighterpack.Result {
	f.calls = append(f.calls, urls)
	out := make([]lighterpack.Result, len(urls))
	for i, u := range urls {
		res, ok := f.results[u]
		if !ok {
			res = lighterpack.Result{Err: &lighterpack.FetchError{URL: u, StatusCode: 404, Err: lighterpack.ErrNotFound}}
		}
		res.URL = u
		out[i] = res
	}
	return out
}

var tentList = lighterpack.GearList{
	Categories: []lighterpack.Category{
		{
			Label: "Shelter",
			Items: []lighterpack.Item{
				{Name: ptr("Duplex"), WeightGrams: ptr(539.0), Quantity: ptr(1.0)},
				{Name: ptr("Stakes"), Quantity: ptr(6.0)},
			},
		},
	},
}

var quiltList = lighterpack.GearList{
	Categories: []lighterpack.Category{
		{
			Label: "",
			Items: []lighterpack.Item{
				{Name: ptr("Quilt"), Price: ptr(decimal.NewFromInt(280))},
			},
		},
	},
}

func newFakeScraper() *fakeScraper {
	return &fakeScraper{results: map[string]lighterpack.Result{
		"https://lighterpack.com/r/tent":  {List: tentList},
		"https://lighterpack.com/r/quilt": {List: quiltList},
		"https://lighterpack.com/r/down": {
			Err: &lighterpack.FetchError{StatusCode: 500, Err: lighterpack.ErrFetchFailed},
		},
	}}
}

var created = time.Date(2024, time.June, 1, 23, 30, 0, 0, time.UTC)

func TestExtract(t *testing.T) {
	scraper := newFakeScraper()
	tel := &telemetry.Recorder{}
	extractor := NewExtractor(scraper, tel, time.UTC)

	report, rows := extractor.Extract(context.Background(), reddit.Submission{
		ID:       "abc",
		Title:    "Trip report: Sierra High Route",
		Selftext: "list: lighterpack.com/r/tent, again lighterpack.com/r/tent, old: lighterpack.com/r/gone and lighterpack.com/r/down",
		Created:  created,
	})

	expectedReport := Report{
		Title: "Trip report: Sierra High Route",
		Text:  "list: lighterpack.com/r/tent, again lighterpack.com/r/tent, old: lighterpack.com/r/gone and lighterpack.com/r/down",
		Links: []string{
			"https://lighterpack.com/r/tent",
			"https://lighterpack.com/r/gone",
			"https://lighterpack.com/r/down",
		},
		Timestamp: "2024-06-01 23:30:00",
	}
	diff := cmp.Diff(expectedReport, report)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, rows, 2)
	require.Equal(t, "https://lighterpack.com/r/tent", rows[0].URL)
	require.Equal(t, "Shelter", rows[0].Category)
	require.Equal(t, "Duplex", *rows[0].Name)
	require.Equal(t, "Stakes", *rows[1].Name)
	require.Nil(t, rows[1].WeightGrams)

	require.Len(t, scraper.calls, 1)
	require.Len(t, tel.Reports("warning"), 1)
}

func TestExtractWithoutLinks(t *testing.T) {
	scraper := newFakeScraper()
	extractor := NewExtractor(scraper, &telemetry.Recorder{}, time.UTC)

	report, rows := extractor.Extract(context.Background(), reddit.Submission{
		Title:    "Trip report: no list this time",
		Selftext: "just photos",
		Created:  created,
	})
	require.NotNil(t, report.Links)
	require.Empty(t, report.Links)
	require.Empty(t, rows)
	require.Empty(t, scraper.calls)

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"title": "Trip report: no list this time",
		"text": "just photos",
		"links": [],
		"ts": "2024-06-01 23:30:00"
	}`, string(encoded))
}

func TestExtractTimestampLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	extractor := NewExtractor(newFakeScraper(), &telemetry.Recorder{}, loc)
	report, _ := extractor.Extract(context.Background(), reddit.Submission{Created: created})
	require.Equal(t, "2024-06-02 01:30:00", report.Timestamp)
}

func TestExtractAll(t *testing.T) {
	extractor := NewExtractor(newFakeScraper(), &telemetry.Recorder{}, time.UTC)
	reports, rows := extractor.ExtractAll(context.Background(), []reddit.Submission{
		{ID: "1", Selftext: "lighterpack.com/r/down", Created: created},
		{ID: "2", Selftext: "nothing here", Created: created},
		{ID: "3", Selftext: "lighterpack.com/r/quilt lighterpack.com/r/tent", Created: created},
	})

	require.Len(t, reports, 3)
	require.Equal(t, []string{"https://lighterpack.com/r/down"}, reports[0].Links)
	require.Len(t, rows, 3)
	require.Equal(t, "https://lighterpack.com/r/quilt", rows[0].URL)
	require.Equal(t, "", rows[0].Category)
	require.True(t, decimal.NewFromInt(280).Equal(*rows[0].Price))
	require.Equal(t, "https://lighterpack.com/r/tent", rows[2].URL)
}

func TestItemRowJSON(t *testing.T) {
	row := ItemRow{
		URL: "https://lighterpack.com/r/tent",
		Row: lighterpack.Row{
			Category: "Shelter",
			Item: lighterpack.Item{
				Name:        ptr("Duplex"),
				Price:       ptr(decimal.RequireFromString("350.00")),
				WeightGrams: ptr(539.0),
			},
		},
	}
	encoded, err := json.Marshal(row)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"url": "https://lighterpack.com/r/tent",
		"category": "Shelter",
		"name": "Duplex",
		"description": null,
		"price": "350",
		"weight_g": 539,
		"quantity": null
	}`, string(encoded))
}
