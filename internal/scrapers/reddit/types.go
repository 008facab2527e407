package reddit

import (
	"math"
	"time"
)

// Submission is a reddit post ("link" in reddit's API).
type Submission struct {
	ID        string
	Title     string
	Selftext  string
	Permalink string
	Author    string
	Created   time.Time
}

type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string   `json:"kind"`
			Data linkData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type linkData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	CreatedUtc float64 `json:"created_utc"`
}

func decodeTimestamp(seconds float64) time.Time {
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func (l linkData) submission() Submission {
	return Submission{
		ID:        l.ID,
		Title:     l.Title,
		Selftext:  l.Selftext,
		Permalink: l.Permalink,
		Author:    l.Author,
		Created:   decodeTimestamp(l.CreatedUtc),
	}
}
