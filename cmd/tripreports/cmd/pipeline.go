package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ulhiking-backend/internal/db"
	"ulhiking-backend/internal/output"
	"ulhiking-backend/internal/scrapers/reddit"
	"ulhiking-backend/internal/tripreport"
	"ulhiking-backend/lib/sqliteutil"
)

// harvester holds everything a crawl needs once credentials are known.
type harvester struct {
	reddit    *reddit.Client
	extractor tripreport.Extractor
	writer    output.JSONLWriter
	store     *db.Store
	database  *sql.DB
}

func newHarvester(ctx context.Context, creds reddit.Credentials, outDir string, database sqliteutil.Config) (harvester, error) {
	client := reddit.NewClient(creds, tel, reddit.ClientOptions{})
	err := client.Login(ctx)
	if err != nil {
		return harvester{}, fmt.Errorf("reddit login: %w", err)
	}

	scraper, err := newScraper()
	if err != nil {
		return harvester{}, err
	}

	writer, err := output.NewJSONLWriter(outDir)
	if err != nil {
		return harvester{}, err
	}

	h := harvester{
		reddit:    client,
		extractor: tripreport.NewExtractor(scraper, tel, clock.Location()),
		writer:    writer,
	}

	if !database.Empty() {
		sqldb, err := database.OpenDB(db.Schema)
		if err != nil {
			return harvester{}, fmt.Errorf("open database: %w", err)
		}
		store := db.NewStore(sqldb, clock, tel)
		h.store = &store
		h.database = sqldb
	}

	return h, nil
}

func (h harvester) Close() {
	if h.database != nil {
		h.database.Close()
	}
}

func (h harvester) search(ctx context.Context, after, before time.Time, maxCache int) ([]reddit.Submission, error) {
	return h.reddit.Search(ctx, reddit.SearchQuery{
		Subreddit:  cfg.Subreddit,
		Keyword:    cfg.Keyword,
		After:      after,
		Before:     before,
		MaxCache:   maxCache,
		MatchTitle: cfg.MatchTitle,
	})
}

// harvest extracts the submissions and writes them under prefix, and to the
// database when one is configured.
func (h harvester) harvest(ctx context.Context, prefix string, after, before time.Time, subs []reddit.Submission) error {
	reports, rows := h.extractor.ExtractAll(ctx, subs)

	paths, err := h.writer.Write(prefix, reports, rows)
	if err != nil {
		return fmt.Errorf("write %s: %w", prefix, err)
	}
	slog.Info("wrote trip reports", "reports", len(reports), "items", len(rows), "files", paths)

	if h.store == nil {
		return nil
	}
	runID, err := h.store.Save(ctx, after, before, reports, rows)
	if err != nil {
		return fmt.Errorf("save %s: %w", prefix, err)
	}
	slog.Info("saved crawl run", "run_id", runID)
	return nil
}
