package lighterpack

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the gear list page answered with a client error, the
	// link is invalid or the list was deleted. It is a "no data" outcome and
	// is not the same as a page that exists but holds no categories.
	ErrNotFound = errors.New("gear list not found")
	// ErrFetchFailed means the page could not be retrieved for reasons that may
	// be temporary (server error, timeout, transport failure).
	ErrFetchFailed = errors.New("gear list fetch failed")

	// ErrMalformedFieldValue means a field's node held text that could not be
	// converted into the field's type.
	ErrMalformedFieldValue = errors.New("malformed field value")
	// ErrUnknownUnit means a weight was given in a unit with no gram conversion.
	ErrUnknownUnit = errors.New("unknown weight unit")
)

// FieldError describes a single item field that was dropped during parsing.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s (%q): %v", e.Field, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FetchError is returned by a Fetcher, Err is either ErrNotFound or ErrFetchFailed.
type FetchError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
	Cause      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s: %v: timed out", e.URL, e.Err)
	case e.Cause != nil:
		return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Err, e.Cause)
	default:
		return fmt.Sprintf("fetch %s: %v: status %d", e.URL, e.Err, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
