package tripreport

import (
	"context"
	"time"

	"ulhiking-backend/internal/components/assert"
	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/internal/scrapers/reddit"
)

const (
	report_extractor_extract   = "extractor.extract"
	report_extractor_not_found = "extractor.not-found"
	report_extractor_rows      = "extractor.rows"
)

// TimestampLayout is how Report.Timestamp is written.
const TimestampLayout = time.DateTime

// Report is the serialized form of a trip report submission.
type Report struct {
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	Links     []string `json:"links"`
	Timestamp string   `json:"ts"`
}

// ItemRow is a single gear list item, tagged with the link it was scraped from.
type ItemRow struct {
	URL string `json:"url"`
	lighterpack.Row
}

// GearListScraper is the part of lighterpack.Scraper the extractor needs.
type GearListScraper interface {
	ScrapeAll(ctx context.Context, urls []string) []lighterpack.Result
}

// Extractor turns submissions into reports and the gear list items they link to.
type Extractor struct {
	scraper GearListScraper
	tel     telemetry.API
	loc     *time.Location
}

func NewExtractor(scraper GearListScraper, tel telemetry.API, loc *time.Location) Extractor {
	assert.NotNil(scraper)
	assert.NotNil(tel)
	if loc == nil {
		loc = time.Local
	}
	return Extractor{
		scraper: scraper,
		tel:     telemetry.NewScopedAPI("tripreport", tel),
		loc:     loc,
	}
}

// Extract scrapes every gear list linked from the submission's body. Links
// that fail to scrape still appear in the report but contribute no rows.
func (e Extractor) Extract(ctx context.Context, sub reddit.Submission) (Report, []ItemRow) {
	links := lighterpack.ExtractLinks(sub.Selftext)
	report := Report{
		Title:     sub.Title,
		Text:      sub.Selftext,
		Links:     []string{},
		Timestamp: sub.Created.In(e.loc).Format(TimestampLayout),
	}
	if len(links) == 0 {
		return report, nil
	}
	report.Links = links

	e.tel.ReportDebug(report_extractor_extract, sub.ID, links)

	var rows []ItemRow
	for _, result := range e.scraper.ScrapeAll(ctx, links) {
		if result.NotFound() {
			e.tel.ReportWarning(report_extractor_not_found, sub.ID, result.URL)
			continue
		}
		if result.Err != nil {
			continue
		}
		for _, row := range result.List.Rows() {
			rows = append(rows, ItemRow{URL: result.URL, Row: row})
		}
	}
	e.tel.ReportCount(report_extractor_rows, int64(len(rows)))

	return report, rows
}

// ExtractAll extracts every submission in order and concatenates the rows.
func (e Extractor) ExtractAll(ctx context.Context, subs []reddit.Submission) ([]Report, []ItemRow) {
	reports := make([]Report, 0, len(subs))
	var rows []ItemRow
	for _, sub := range subs {
		report, subRows := e.Extract(ctx, sub)
		reports = append(reports, report)
		rows = append(rows, subRows...)
	}
	return reports, rows
}
