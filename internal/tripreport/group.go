package tripreport

import (
	"slices"
	"time"

	"ulhiking-backend/internal/components/chrono"
	"ulhiking-backend/internal/scrapers/reddit"
)

// Day is the submissions created on a single calendar day.
type Day struct {
	// midnight of the day in the location it was grouped by
	Date        time.Time
	Submissions []reddit.Submission
}

// Label is the day formatted as YYYY-MM-DD.
func (d Day) Label() string {
	return d.Date.Format(time.DateOnly)
}

// GroupByDay buckets submissions by the calendar day they were created on in
// loc. Days are returned oldest first, submissions keep their input order.
func GroupByDay(subs []reddit.Submission, loc *time.Location) []Day {
	index := map[time.Time]int{}
	var days []Day
	for _, sub := range subs {
		date := chrono.StartOfDay(sub.Created, loc)
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, Day{Date: date})
		}
		days[i].Submissions = append(days[i].Submissions, sub)
	}
	slices.SortStableFunc(days, func(a, b Day) int {
		return a.Date.Compare(b.Date)
	})
	return days
}
