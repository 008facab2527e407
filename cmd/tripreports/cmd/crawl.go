package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var crawlFlags struct {
	after    string
	before   string
	prefix   string
	maxCache int
	out      string
	db       string
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVar(&crawlFlags.after, "after", "", "Only include posts created after this time (default 24 hours ago).")
	crawlCmd.Flags().StringVar(&crawlFlags.before, "before", "", "Only include posts created before this time (default now).")
	crawlCmd.Flags().StringVar(&crawlFlags.prefix, "prefix", "", "Output file prefix (default today's date).")
	crawlCmd.Flags().IntVar(&crawlFlags.maxCache, "max-cache", -1, "Maximum amount of search results to examine, 0 means no limit (default from config).")
	crawlCmd.Flags().StringVar(&crawlFlags.out, "out", "", "Directory the jsonl files are written to (default from config).")
	crawlCmd.Flags().StringVar(&crawlFlags.db, "db", "", "Also save the results to this sqlite file.")
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [user_agent] [client_secret] [client_id]",
	Short: "Crawl trip reports posted in a time window and the gear lists they link to.",
	Long: `Crawl trip reports posted in a time window and the gear lists they link to.

Reddit credentials missing from the arguments are read from the config, then
from REDDIT_USER_AGENT, REDDIT_CLIENT_SECRET and REDDIT_CLIENT_ID.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		creds, err := resolveCredentials(args, cfg.Reddit)
		if err != nil {
			return err
		}

		now := clock.Now()
		after, err := parseTime(crawlFlags.after, clock.Location(), now.Add(-24*time.Hour))
		if err != nil {
			return err
		}
		before, err := parseTime(crawlFlags.before, clock.Location(), now)
		if err != nil {
			return err
		}
		if !after.Before(before) {
			return fmt.Errorf("--after (%s) must be before --before (%s)", after, before)
		}

		prefix := crawlFlags.prefix
		if prefix == "" {
			prefix = now.Format(time.DateOnly)
		}
		maxCache := cfg.MaxCache
		if crawlFlags.maxCache >= 0 {
			maxCache = crawlFlags.maxCache
		}
		out := cfg.OutputDir
		if crawlFlags.out != "" {
			out = crawlFlags.out
		}
		database := cfg.Database
		if crawlFlags.db != "" {
			database.File = crawlFlags.db
			database.Url = ""
		}

		h, err := newHarvester(ctx, creds, out, database)
		if err != nil {
			return err
		}
		defer h.Close()

		subs, err := h.search(ctx, after, before, maxCache)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(subs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No submissions found.")
			return nil
		}

		return h.harvest(ctx, prefix, after, before, subs)
	},
}
