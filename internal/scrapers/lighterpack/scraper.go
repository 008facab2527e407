package lighterpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"ulhiking-backend/internal/components/assert"
	"ulhiking-backend/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/lighterpack")

const (
	report_scraper_scrape     = "scraper.scrape"
	report_scraper_parse_item = "scraper.parse-item"
	report_scraper_items      = "scraper.items"
)

// Result is the outcome of scraping a single gear list link.
type Result struct {
	URL  string
	List GearList
	// Issues are the item fields that were dropped while parsing, see ParseItem.
	Issues []error
	// Err is a *FetchError when the page could not be fetched, or a parse error.
	Err error
}

// NotFound reports whether the link points at a missing or removed list.
func (r Result) NotFound() bool {
	return errors.Is(r.Err, ErrNotFound)
}

// Scraper fetches and parses gear list pages. It holds no state between
// calls, so a single Scraper may be shared by concurrent callers.
type Scraper struct {
	fetcher Fetcher
	tel     telemetry.API
	workers int
}

// NewScraper creates a Scraper that fetches up to `workers` pages at a time in ScrapeAll.
func NewScraper(fetcher Fetcher, tel telemetry.API, workers int) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	assert.Positive(workers)

	return Scraper{
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("lighterpack", tel),
		workers: workers,
	}
}

func (s Scraper) Scrape(ctx context.Context, url string) Result {
	ctx, span := tracer.Start(ctx, "scraper:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	result := Result{URL: url}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		result.Err = err
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(codes.Ok, "gear list not found")
			s.tel.ReportWarning(report_scraper_scrape, err, url)
			return result
		}
		span.SetStatus(codes.Error, "failed to fetch")
		s.tel.ReportBroken(report_scraper_scrape, err, url)
		return result
	}

	list, issues, err := Parse(bytes.NewReader(body))
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", url, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		s.tel.ReportBroken(report_scraper_scrape, err, url)
		return result
	}

	for _, issue := range issues {
		s.tel.ReportWarning(report_scraper_parse_item, issue, url)
	}
	s.tel.ReportCount(report_scraper_items, int64(list.ItemCount()))
	span.SetAttributes(
		attribute.Int("categories", len(list.Categories)),
		attribute.Int("items", list.ItemCount()),
		attribute.Int("issues", len(issues)),
	)

	result.List = list
	result.Issues = issues
	return result
}

// ScrapeAll scrapes every url and returns the results in the same order as
// urls. A failing url only affects its own Result.
func (s Scraper) ScrapeAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	if len(urls) == 0 {
		return results
	}

	workers := min(s.workers, len(urls))
	jobs := make(chan int)
	wg := sync.WaitGroup{}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.Scrape(ctx, urls[i])
			}
		}()
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
