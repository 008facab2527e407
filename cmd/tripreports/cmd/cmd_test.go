package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/internal/scrapers/reddit"
	"ulhiking-backend/internal/tripreport"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)

	err = os.WriteFile(path, []byte(`{
		// shared settings
		reddit: { user_agent: "ulhiking/0.1" },
		max_cache: 250,
		lighterpack: { workers: 4 },
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		reddit: { client_id: "local-id", client_secret: "local-secret" },
		timezone: "America/Los_Angeles",
	}`), 0600)
	require.NoError(t, err)

	cfg, err = readConfig(path)
	require.NoError(t, err)
	require.Equal(t, reddit.Credentials{
		UserAgent:    "ulhiking/0.1",
		ClientID:     "local-id",
		ClientSecret: "local-secret",
	}, cfg.Reddit)
	require.Equal(t, 250, cfg.MaxCache)
	require.Equal(t, "America/Los_Angeles", cfg.Timezone)
	require.Equal(t, 4, cfg.Lighterpack.Workers)
	// defaults survive when the file does not mention them
	require.Equal(t, "ultralight", cfg.Subreddit)
	require.Equal(t, "trip report", cfg.Keyword)
	require.Equal(t, 30, cfg.Lighterpack.TimeoutSeconds)
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv(envUserAgent, "env-agent")
	t.Setenv(envClientSecret, "env-secret")
	t.Setenv(envClientID, "env-id")

	creds, err := resolveCredentials(nil, reddit.Credentials{})
	require.NoError(t, err)
	require.Equal(t, reddit.Credentials{UserAgent: "env-agent", ClientSecret: "env-secret", ClientID: "env-id"}, creds)

	creds, err = resolveCredentials([]string{"arg-agent"}, reddit.Credentials{ClientSecret: "cfg-secret"})
	require.NoError(t, err)
	require.Equal(t, reddit.Credentials{UserAgent: "arg-agent", ClientSecret: "cfg-secret", ClientID: "env-id"}, creds)

	creds, err = resolveCredentials(
		[]string{"arg-agent", "arg-secret", "arg-id"},
		reddit.Credentials{UserAgent: "cfg-agent", ClientSecret: "cfg-secret", ClientID: "cfg-id"},
	)
	require.NoError(t, err)
	require.Equal(t, reddit.Credentials{UserAgent: "arg-agent", ClientSecret: "arg-secret", ClientID: "arg-id"}, creds)
}

func TestResolveCredentialsMissing(t *testing.T) {
	t.Setenv(envUserAgent, "")
	t.Setenv(envClientSecret, "")
	t.Setenv(envClientID, "")

	_, err := resolveCredentials([]string{"agent", "secret"}, reddit.Credentials{})
	require.ErrorContains(t, err, envClientID)

	_, err = resolveCredentials(nil, reddit.Credentials{})
	require.ErrorContains(t, err, envUserAgent)
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*60*60)
	fallback := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		value    string
		expected time.Time
	}{
		{value: "", expected: fallback},
		{value: "2024-06-01", expected: time.Date(2024, time.June, 1, 0, 0, 0, 0, loc)},
		{value: "2024-06-01 13:45:10", expected: time.Date(2024, time.June, 1, 13, 45, 10, 0, loc)},
		{value: "2024-06-01T13:45", expected: time.Date(2024, time.June, 1, 13, 45, 0, 0, loc)},
		{value: "2024-06-01T13:45:10Z", expected: time.Date(2024, time.June, 1, 13, 45, 10, 0, time.UTC)},
	}
	for _, test := range cases {
		got, err := parseTime(test.value, loc, fallback)
		require.NoError(t, err, test.value)
		require.True(t, test.expected.Equal(got), "%s: expected %s, got %s", test.value, test.expected, got)
	}

	_, err := parseTime("yesterday", loc, fallback)
	require.Error(t, err)
}

func TestRenderGearList(t *testing.T) {
	name := "Duplex"
	grams := 2 * 453.59
	qty := 2.0
	price := decimal.RequireFromString("350.00")
	list := lighterpack.GearList{Categories: []lighterpack.Category{
		{
			Label: "Shelter",
			Items: []lighterpack.Item{
				{Name: &name, WeightGrams: &grams, Quantity: &qty, Price: &price},
				{},
			},
		},
	}}

	var out bytes.Buffer
	tw := table.NewWriter()
	tw.SetOutputMirror(&out)
	renderGearList(tw, list)
	tw.Render()

	rendered := out.String()
	require.Contains(t, rendered, "Duplex")
	require.Contains(t, rendered, "907.18")
	require.Contains(t, rendered, "350")
	require.Contains(t, rendered, "1814.36")
	require.Equal(t, 2, strings.Count(rendered, "SHELTER")+strings.Count(rendered, "Shelter"))
}

func TestBackfillDaysContinuesPastFailures(t *testing.T) {
	rec := &telemetry.Recorder{}
	tel = rec

	day := func(d int) tripreport.Day {
		return tripreport.Day{
			Date:        time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC),
			Submissions: []reddit.Submission{{ID: strconv.Itoa(d)}},
		}
	}
	days := []tripreport.Day{day(1), day(2), day(3)}

	var harvested []string
	err := backfillDays(context.Background(), days, func(ctx context.Context, prefix string, after, before time.Time, subs []reddit.Submission) error {
		harvested = append(harvested, prefix)
		require.Equal(t, after.AddDate(0, 0, 1), before)
		if prefix == "2024-03-02" {
			return errors.New("disk full")
		}
		return nil
	})

	require.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, harvested)
	require.ErrorContains(t, err, "2024-03-02: disk full")
	require.NotContains(t, err.Error(), "2024-03-01")

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, report_backfill_day, broken[0].Id)
}

func TestBackfillDaysNoFailures(t *testing.T) {
	tel = &telemetry.Recorder{}
	err := backfillDays(context.Background(), []tripreport.Day{
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}, func(context.Context, string, time.Time, time.Time, []reddit.Submission) error {
		return nil
	})
	require.NoError(t, err)
}
