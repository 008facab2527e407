package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ulhiking-backend/internal/scrapers/reddit"
	"ulhiking-backend/internal/tripreport"

	"github.com/spf13/cobra"
)

var backfillFlags struct {
	start string
	end   string
	out   string
	db    string
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().StringVar(&backfillFlags.start, "start", "", "First day to backfill, YYYY-MM-DD.")
	backfillCmd.Flags().StringVar(&backfillFlags.end, "end", "", "Day to stop at (exclusive), YYYY-MM-DD.")
	backfillCmd.Flags().StringVar(&backfillFlags.out, "out", "", "Directory the jsonl files are written to (default from config).")
	backfillCmd.Flags().StringVar(&backfillFlags.db, "db", "", "Also save the results to this sqlite file.")
	backfillCmd.MarkFlagRequired("start")
	backfillCmd.MarkFlagRequired("end")
}

var backfillCmd = &cobra.Command{
	Use:   "backfill [user_agent] [client_secret] [client_id]",
	Short: "Crawl every trip report between two days, writing one pair of files per day.",
	Args:  cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		creds, err := resolveCredentials(args, cfg.Reddit)
		if err != nil {
			return err
		}

		start, err := parseTime(backfillFlags.start, clock.Location(), time.Time{})
		if err != nil {
			return err
		}
		end, err := parseTime(backfillFlags.end, clock.Location(), time.Time{})
		if err != nil {
			return err
		}
		if !start.Before(end) {
			return fmt.Errorf("--start (%s) must be before --end (%s)", start, end)
		}

		out := cfg.OutputDir
		if backfillFlags.out != "" {
			out = backfillFlags.out
		}
		database := cfg.Database
		if backfillFlags.db != "" {
			database.File = backfillFlags.db
			database.Url = ""
		}

		h, err := newHarvester(ctx, creds, out, database)
		if err != nil {
			return err
		}
		defer h.Close()

		// the window is inclusive of the first day
		subs, err := h.search(ctx, start.Add(-time.Nanosecond), end, 0)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		days := tripreport.GroupByDay(subs, clock.Location())
		if len(days) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No submissions found.")
			return nil
		}
		return backfillDays(ctx, days, h.harvest)
	},
}

const report_backfill_day = "backfill.day"

type harvestFunc = func(ctx context.Context, prefix string, after, before time.Time, subs []reddit.Submission) error

// backfillDays harvests each day on its own, a day that fails is reported
// and skipped so the remaining days are still written.
func backfillDays(ctx context.Context, days []tripreport.Day, harvest harvestFunc) error {
	var errs []error
	for _, day := range days {
		slog.Info("backfilling day", "day", day.Label(), "submissions", len(day.Submissions))
		err := harvest(ctx, day.Label(), day.Date, day.Date.AddDate(0, 0, 1), day.Submissions)
		if err != nil {
			slog.Error("failed to backfill day", "day", day.Label(), "err", err)
			tel.ReportBroken(report_backfill_day, err, day.Label())
			errs = append(errs, fmt.Errorf("%s: %w", day.Label(), err))
		}
	}
	return errors.Join(errs...)
}
