package db

import (
	"context"
	"database/sql"
)

type CrawlRun struct {
	ID           string
	StartedAt    int64
	WindowAfter  int64
	WindowBefore int64
	FinishedAt   sql.NullInt64
}

const createCrawlRun = `insert into CrawlRun(id, startedAt, windowAfter, windowBefore)
values (?, ?, ?, ?)`

type CreateCrawlRunParams struct {
	ID           string
	StartedAt    int64
	WindowAfter  int64
	WindowBefore int64
}

func (q *Queries) CreateCrawlRun(ctx context.Context, arg CreateCrawlRunParams) error {
	_, err := q.db.ExecContext(ctx, createCrawlRun,
		arg.ID,
		arg.StartedAt,
		arg.WindowAfter,
		arg.WindowBefore,
	)
	return err
}

const finishCrawlRun = `update CrawlRun set finishedAt = ? where id = ?`

func (q *Queries) FinishCrawlRun(ctx context.Context, id string, finishedAt int64) error {
	_, err := q.db.ExecContext(ctx, finishCrawlRun, finishedAt, id)
	return err
}

const getCrawlRun = `select id, startedAt, windowAfter, windowBefore, finishedAt
from CrawlRun where id = ?`

func (q *Queries) GetCrawlRun(ctx context.Context, id string) (CrawlRun, error) {
	row := q.db.QueryRowContext(ctx, getCrawlRun, id)
	var i CrawlRun
	err := row.Scan(
		&i.ID,
		&i.StartedAt,
		&i.WindowAfter,
		&i.WindowBefore,
		&i.FinishedAt,
	)
	return i, err
}

type Report struct {
	ID    int64
	RunID string
	Title string
	Body  string
	Links string
	Ts    string
}

const createReport = `insert into Report(runId, title, body, links, ts)
values (?, ?, ?, ?, ?)`

type CreateReportParams struct {
	RunID string
	Title string
	Body  string
	Links string
	Ts    string
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) error {
	_, err := q.db.ExecContext(ctx, createReport,
		arg.RunID,
		arg.Title,
		arg.Body,
		arg.Links,
		arg.Ts,
	)
	return err
}

const getReports = `select id, runId, title, body, links, ts
from Report where runId = ? order by id`

func (q *Queries) GetReports(ctx context.Context, runID string) ([]Report, error) {
	rows, err := q.db.QueryContext(ctx, getReports, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Report
	for rows.Next() {
		var i Report
		err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.Title,
			&i.Body,
			&i.Links,
			&i.Ts,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type GearItem struct {
	ID          int64
	RunID       string
	Url         string
	Category    string
	Name        sql.NullString
	Description sql.NullString
	Price       sql.NullString
	WeightGrams sql.NullFloat64
	Quantity    sql.NullFloat64
}

const createGearItem = `insert into GearItem(runId, url, category, name, description, price, weightGrams, quantity)
values (?, ?, ?, ?, ?, ?, ?, ?)`

type CreateGearItemParams struct {
	RunID       string
	Url         string
	Category    string
	Name        sql.NullString
	Description sql.NullString
	Price       sql.NullString
	WeightGrams sql.NullFloat64
	Quantity    sql.NullFloat64
}

func (q *Queries) CreateGearItem(ctx context.Context, arg CreateGearItemParams) error {
	_, err := q.db.ExecContext(ctx, createGearItem,
		arg.RunID,
		arg.Url,
		arg.Category,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.WeightGrams,
		arg.Quantity,
	)
	return err
}

const getGearItems = `select id, runId, url, category, name, description, price, weightGrams, quantity
from GearItem where runId = ? order by id`

func (q *Queries) GetGearItems(ctx context.Context, runID string) ([]GearItem, error) {
	rows, err := q.db.QueryContext(ctx, getGearItems, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GearItem
	for rows.Next() {
		var i GearItem
		err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.Url,
			&i.Category,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.WeightGrams,
			&i.Quantity,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
