package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ulhiking-backend/internal/components/assert"
	"ulhiking-backend/internal/components/chrono"
	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/tripreport"

	"github.com/mazen160/go-random"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/db")

const report_store_save = "store.save"

// Store archives the output of a crawl, every call to Save is a new crawl run.
type Store struct {
	makeTx MakeTx
	time   chrono.TimeAPI
	tel    telemetry.API
}

func NewStore(database *sql.DB, clock chrono.TimeAPI, tel telemetry.API) Store {
	assert.NotNil(database)
	assert.NotNil(clock)
	assert.NotNil(tel)
	return Store{
		makeTx: NewMakeTx(database),
		time:   clock,
		tel:    telemetry.NewScopedAPI("db", tel),
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// Save writes the reports and item rows of a crawl over [after, before] in a
// single transaction and returns the id of the new crawl run.
func (s Store) Save(
	ctx context.Context,
	after, before time.Time,
	reports []tripreport.Report,
	rows []tripreport.ItemRow,
) (runID string, err error) {
	ctx, span := tracer.Start(ctx, "store:Save")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save crawl run")
			s.tel.ReportBroken(report_store_save, err)
		}
	}()

	runID, err = random.String(8)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("run_id", runID))

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return "", err
	}
	defer discard()

	err = tx.CreateCrawlRun(ctx, CreateCrawlRunParams{
		ID:           runID,
		StartedAt:    s.time.Now().Unix(),
		WindowAfter:  after.Unix(),
		WindowBefore: before.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("create crawl run: %w", err)
	}

	for i, r := range reports {
		links, err := json.Marshal(r.Links)
		if err != nil {
			return "", err
		}
		err = tx.CreateReport(ctx, CreateReportParams{
			RunID: runID,
			Title: r.Title,
			Body:  r.Text,
			Links: string(links),
			Ts:    r.Timestamp,
		})
		if err != nil {
			return "", fmt.Errorf("create report %d: %w", i, err)
		}
	}

	for i, r := range rows {
		err = tx.CreateGearItem(ctx, CreateGearItemParams{
			RunID:       runID,
			Url:         r.URL,
			Category:    r.Category,
			Name:        nullString(r.Name),
			Description: nullString(r.Description),
			Price:       nullDecimal(r.Price),
			WeightGrams: nullFloat(r.WeightGrams),
			Quantity:    nullFloat(r.Quantity),
		})
		if err != nil {
			return "", fmt.Errorf("create gear item %d: %w", i, err)
		}
	}

	err = tx.FinishCrawlRun(ctx, runID, s.time.Now().Unix())
	if err != nil {
		return "", err
	}

	err = commit()
	if err != nil {
		return "", err
	}

	span.SetAttributes(
		attribute.Int("reports", len(reports)),
		attribute.Int("items", len(rows)),
	)
	return runID, nil
}

// Load reads back the reports and item rows saved under a crawl run.
func (s Store) Load(ctx context.Context, runID string) ([]tripreport.Report, []tripreport.ItemRow, error) {
	qry, discard, _, err := s.makeTx(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer discard()

	_, err = qry.GetCrawlRun(ctx, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("crawl run %s: %w", runID, err)
	}

	reportRows, err := qry.GetReports(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	reports := make([]tripreport.Report, len(reportRows))
	for i, r := range reportRows {
		var links []string
		err = json.Unmarshal([]byte(r.Links), &links)
		if err != nil {
			return nil, nil, fmt.Errorf("report %d links: %w", r.ID, err)
		}
		reports[i] = tripreport.Report{
			Title:     r.Title,
			Text:      r.Body,
			Links:     links,
			Timestamp: r.Ts,
		}
	}

	itemRows, err := qry.GetGearItems(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	items := make([]tripreport.ItemRow, len(itemRows))
	for i, r := range itemRows {
		row := tripreport.ItemRow{URL: r.Url}
		row.Category = r.Category
		if r.Name.Valid {
			row.Name = &r.Name.String
		}
		if r.Description.Valid {
			row.Description = &r.Description.String
		}
		if r.Price.Valid {
			price, err := decimal.NewFromString(r.Price.String)
			if err != nil {
				return nil, nil, fmt.Errorf("gear item %d price: %w", r.ID, err)
			}
			row.Price = &price
		}
		if r.WeightGrams.Valid {
			row.WeightGrams = &r.WeightGrams.Float64
		}
		if r.Quantity.Valid {
			row.Quantity = &r.Quantity.Float64
		}
		items[i] = row
	}

	return reports, items, nil
}
