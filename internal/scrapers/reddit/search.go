package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ulhiking-backend/lib/textutil"
)

const searchPageSize = 100

// titleMatchThreshold is the Jaro-Winkler similarity a title needs against
// the search keyword to be kept, reddit's search also matches the body.
const titleMatchThreshold = 0.9

type SearchQuery struct {
	Subreddit string
	Keyword   string
	// only submissions created strictly between After and Before are returned
	After  time.Time
	Before time.Time
	// the maximum amount of search results examined, 0 means no limit
	MaxCache int
	// keep only submissions whose title fuzzily contains the keyword
	MatchTitle bool
}

// Search pages through the subreddit's search results, newest first, and
// returns the submissions created inside the query's time window. It stops
// at the end of the results, at the first submission older than the window,
// or once MaxCache results have been examined.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Submission, error) {
	c.tel.ReportDebug(report_client_search, q.Subreddit, q.Keyword, q.After, q.Before)

	var out []Submission
	examined := 0
	after := ""
	for {
		page, err := c.searchPage(ctx, q, after)
		if err != nil {
			c.tel.ReportBroken(report_client_search, err, q.Subreddit, after)
			return out, err
		}

		for _, child := range page.Data.Children {
			if q.MaxCache > 0 && examined >= q.MaxCache {
				return out, nil
			}
			examined++

			sub := child.Data.submission()
			if !sub.Created.Before(q.Before) {
				continue
			}
			if !sub.Created.After(q.After) {
				return out, nil
			}
			if q.MatchTitle && !textutil.FuzzyContains(sub.Title, q.Keyword, titleMatchThreshold) {
				c.tel.ReportDebug(report_client_search+" skip", sub.ID, sub.Title)
				continue
			}
			out = append(out, sub)
		}

		if page.Data.After == "" || len(page.Data.Children) == 0 {
			return out, nil
		}
		after = page.Data.After
	}
}

func (c *Client) searchPage(ctx context.Context, q SearchQuery, after string) (listing, error) {
	params := map[string]string{
		"q":           q.Keyword,
		"restrict_sr": "1",
		"sort":        "new",
		"limit":       strconv.Itoa(searchPageSize),
		"raw_json":    "1",
	}
	if after != "" {
		params["after"] = after
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetPathParam("subreddit", q.Subreddit).
		Get(c.apiURL + "/r/{subreddit}/search")
	if err != nil {
		return listing{}, fmt.Errorf("fetch: %w", err)
	}
	if res.StatusCode() == 401 || res.StatusCode() == 403 {
		return listing{}, ErrUnauthorized
	}
	if res.IsError() {
		return listing{}, fmt.Errorf("search: status %s", res.Status())
	}

	var page listing
	err = json.Unmarshal(res.Body(), &page)
	if err != nil {
		return listing{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return page, nil
}
