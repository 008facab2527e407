package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ulhiking-backend/internal/components/assert"
	"ulhiking-backend/internal/components/telemetry"
	libtelemetry "ulhiking-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_login  = "client.login"
	report_client_search = "client.search"
)

const (
	DefaultAuthURL = "https://www.reddit.com"
	DefaultAPIURL  = "https://oauth.reddit.com"
)

var ErrUnauthorized = errors.New("reddit rejected the client credentials")

// Credentials identify a reddit "script" or "web" app, see
// https://github.com/reddit-archive/reddit/wiki/OAuth2
type Credentials struct {
	UserAgent    string `json:"user_agent"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type ClientOptions struct {
	// defaults to DefaultAuthURL
	AuthURL string
	// defaults to DefaultAPIURL
	APIURL string
	// defaults to 1 minute
	Timeout time.Duration
	// reddit allows 100 queries per minute for oauth clients, defaults to 1
	RequestsPerSecond float64
}

// Client is an app-only (client credentials) reddit API client.
type Client struct {
	http    *resty.Client
	tel     telemetry.API
	creds   Credentials
	authURL string
	apiURL  string
}

func NewClient(creds Credentials, tel telemetry.API, opts ClientOptions) *Client {
	assert.NotNil(tel)
	assert.NotEmptyStr(creds.UserAgent)

	tel = telemetry.NewScopedAPI("reddit_scraper", tel)

	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Minute
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("user-agent", creds.UserAgent)

	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	libtelemetry.InstrumentResty(httpClient, "scrapers/reddit/http")

	return &Client{
		http:    httpClient,
		tel:     tel,
		creds:   creds,
		authURL: opts.AuthURL,
		apiURL:  opts.APIURL,
	}
}

type accessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}

// Login exchanges the client credentials for an app-only access token, it
// must be called before Search.
func (c *Client) Login(ctx context.Context) error {
	c.tel.ReportDebug(report_client_login, c.creds.ClientID)

	res, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(c.authURL + "/api/v1/access_token")
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("fetch: %w", err))
		return err
	}
	if res.StatusCode() == 401 || res.StatusCode() == 403 {
		c.tel.ReportBroken(report_client_login, ErrUnauthorized, res.Status())
		return ErrUnauthorized
	}
	if res.IsError() {
		err := fmt.Errorf("access token: status %s", res.Status())
		c.tel.ReportBroken(report_client_login, err)
		return err
	}

	var token accessToken
	err = json.Unmarshal(res.Body(), &token)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("json unmarshal: %w", err))
		return err
	}
	if token.Error != "" || token.AccessToken == "" {
		err := fmt.Errorf("%w: %s", ErrUnauthorized, token.Error)
		c.tel.ReportBroken(report_client_login, err)
		return err
	}

	c.http.SetHeader("Authorization", fmt.Sprintf("bearer %s", token.AccessToken))
	return nil
}
