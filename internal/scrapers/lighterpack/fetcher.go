package lighterpack

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"ulhiking-backend/internal/components/assert"
	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/lib/restyutil"
	libtelemetry "ulhiking-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Fetcher retrieves the markup of a gear list page.
//
// A client error status must be reported as a *FetchError wrapping
// ErrNotFound, every other failure (server error, timeout, transport) as a
// *FetchError wrapping ErrFetchFailed. Fetchers own their timeout and retry
// policy.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

type HTTPFetcherOptions struct {
	UserAgent string
	// defaults to 30 seconds
	Timeout time.Duration
	// 0 disables rate limiting
	RequestsPerSecond float64
	// how many times a server error or transport failure is retried
	Retries int
	// wraps the transport with a cloudflare bot-check bypass
	CloudflareBypass bool
	// if set, every request/response pair is written here
	Dump restyutil.DumpOutput
}

// HTTPFetcher is the Fetcher used against lighterpack.com.
type HTTPFetcher struct {
	http *resty.Client
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func NewHTTPFetcher(tel telemetry.API, opts HTTPFetcherOptions) HTTPFetcher {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("lighterpack_fetcher", tel)

	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("user-agent", opts.UserAgent)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	if opts.RequestsPerSecond > 0 {
		// burst of 1 keeps the limiter from ever letting two requests through at once
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	if opts.Retries > 0 {
		client.SetRetryCount(opts.Retries)
		client.AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= http.StatusInternalServerError
		})
	}

	telemetry.InstrumentResty(client, tel)
	libtelemetry.InstrumentResty(client, "scrapers/lighterpack/http")
	restyutil.DumpResponses(client, opts.Dump)

	return HTTPFetcher{http: client}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &FetchError{
			URL:     url,
			Timeout: isTimeout(err),
			Err:     ErrFetchFailed,
			Cause:   err,
		}
	}

	status := res.StatusCode()
	switch {
	case status >= 400 && status < 500:
		return nil, &FetchError{URL: url, StatusCode: status, Err: ErrNotFound}
	case status >= 500:
		return nil, &FetchError{URL: url, StatusCode: status, Err: ErrFetchFailed}
	}

	return res.Body(), nil
}
