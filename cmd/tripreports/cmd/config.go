package cmd

import (
	"fmt"

	"ulhiking-backend/internal/scrapers/reddit"
	"ulhiking-backend/lib/configutil"
	"ulhiking-backend/lib/sqliteutil"
)

type LighterpackConfig struct {
	// how many gear lists are fetched at once
	Workers           int     `json:"workers"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Retries           int     `json:"retries"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	// disables the cloudflare bot-check bypass transport
	DisableBypass bool `json:"disable_bypass"`
	// if set, every lighterpack request/response is written here, may start with <dev_state>
	DumpDir string `json:"dump_dir"`
}

type Config struct {
	Reddit     reddit.Credentials `json:"reddit"`
	Subreddit  string             `json:"subreddit"`
	Keyword    string             `json:"keyword"`
	MatchTitle bool               `json:"match_title"`
	// the maximum amount of search results examined per crawl, 0 means no limit
	MaxCache int `json:"max_cache"`
	// IANA timezone used for report timestamps and day boundaries, empty means local
	Timezone    string            `json:"timezone"`
	OutputDir   string            `json:"output_dir"`
	Database    sqliteutil.Config `json:"database"`
	Lighterpack LighterpackConfig `json:"lighterpack"`
}

func defaultConfig() Config {
	return Config{
		Subreddit: "ultralight",
		Keyword:   "trip report",
		MaxCache:  100,
		OutputDir: ".",
		Lighterpack: LighterpackConfig{
			Workers:           1,
			RequestsPerSecond: 1,
			Retries:           2,
			TimeoutSeconds:    30,
		},
	}
}

func readConfig(path string) (Config, error) {
	return configutil.ReadOptional(path, defaultConfig())
}

const (
	envUserAgent    = "REDDIT_USER_AGENT"
	envClientSecret = "REDDIT_CLIENT_SECRET"
	envClientID     = "REDDIT_CLIENT_ID"
)

// resolveCredentials picks each credential from the positional args
// (user agent, client secret, client id), then the config, then the environment.
func resolveCredentials(args []string, cfg reddit.Credentials) (reddit.Credentials, error) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	creds := reddit.Credentials{
		UserAgent:    configutil.FirstNonEmpty(envUserAgent, arg(0), cfg.UserAgent),
		ClientSecret: configutil.FirstNonEmpty(envClientSecret, arg(1), cfg.ClientSecret),
		ClientID:     configutil.FirstNonEmpty(envClientID, arg(2), cfg.ClientID),
	}

	if creds.UserAgent == "" {
		return creds, fmt.Errorf("please provide a user agent or set the %s environment variable", envUserAgent)
	}
	if creds.ClientSecret == "" {
		return creds, fmt.Errorf("please provide a client secret or set the %s environment variable", envClientSecret)
	}
	if creds.ClientID == "" {
		return creds, fmt.Errorf("please provide a client id or set the %s environment variable", envClientID)
	}
	return creds, nil
}
