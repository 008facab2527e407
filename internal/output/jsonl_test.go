package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/internal/tripreport"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestJSONLWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	writer, err := NewJSONLWriter(dir)
	require.NoError(t, err)

	reports := []tripreport.Report{
		{Title: "Trip report: <JMT>", Text: "a\nb", Links: []string{"https://lighterpack.com/r/a"}, Timestamp: "2024-06-01 10:00:00"},
		{Title: "Trip report: no list", Links: []string{}, Timestamp: "2024-06-01 11:00:00"},
	}
	rows := []tripreport.ItemRow{
		{
			URL: "https://lighterpack.com/r/a",
			Row: lighterpack.Row{
				Category: "Shelter",
				Item:     lighterpack.Item{Name: ptr("Duplex"), WeightGrams: ptr(539.0)},
			},
		},
	}

	paths, err := writer.Write("2024-06-01", reports, rows)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "2024-06-01-reports.jsonl"),
		filepath.Join(dir, "2024-06-01-lp_contents.jsonl"),
	}, paths)

	contents, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(contents), "\n"), "\n")
	require.Len(t, lines, 2)
	require.JSONEq(t, `{"title":"Trip report: <JMT>","text":"a\nb","links":["https://lighterpack.com/r/a"],"ts":"2024-06-01 10:00:00"}`, lines[0])
	require.Contains(t, lines[0], "<JMT>")

	readReports, err := ReadLines[tripreport.Report](paths[0])
	require.NoError(t, err)
	require.Equal(t, reports, readReports)

	contents, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	require.JSONEq(t, `{
		"url": "https://lighterpack.com/r/a",
		"category": "Shelter",
		"name": "Duplex",
		"description": null,
		"price": null,
		"weight_g": 539,
		"quantity": null
	}`, strings.TrimSpace(string(contents)))
}

func TestJSONLWriterEmpty(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewJSONLWriter(dir)
	require.NoError(t, err)

	paths, err := writer.Write("empty", nil, nil)
	require.NoError(t, err)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Zero(t, info.Size())
	}

	reports, err := ReadLines[tripreport.Report](paths[0])
	require.NoError(t, err)
	require.Empty(t, reports)
}
