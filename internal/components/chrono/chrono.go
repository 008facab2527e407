package chrono

import "time"

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in Location().
	Now() time.Time
	// Location is the timezone used to decide which calendar day a post belongs to.
	Location() *time.Location
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	location *time.Location
}

// NewStandardTime loads the given IANA timezone, an empty name means the
// machine's local timezone.
func NewStandardTime(tz string) (StandardTime, error) {
	if tz == "" {
		return StandardTime{location: time.Local}, nil
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return StandardTime{}, err
	}
	return StandardTime{location: location}, nil
}

func (s StandardTime) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardTime) Location() *time.Location {
	return s.location
}

// FixedTime is a TimeAPI that always returns the same instant, used in tests.
type FixedTime struct {
	At  time.Time
	Loc *time.Location
}

func (f FixedTime) Now() time.Time {
	return f.At.In(f.Location())
}

func (f FixedTime) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
