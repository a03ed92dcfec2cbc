package amazon

import (
	"fmt"

	"github.com/kailas-cloud/vibecheck/internal/domain"
)

// Kind distinguishes fetch failures internally. All kinds surface as domain.ErrUpstreamBlocked.
type Kind string

// Fetch failure kinds.
const (
	KindTransport Kind = "transport" // DNS, timeout, connection reset
	KindStatus    Kind = "status"    // non-2xx response
	KindBlocked   Kind = "blocked"   // block or CAPTCHA page
	KindEmpty     Kind = "empty"     // no review fragments in the page
	KindParse     Kind = "parse"     // unparseable HTML
)

// FetchError is a failed review fetch.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int    // KindStatus only
	Marker string // KindBlocked only
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	switch {
	case e.Status != 0:
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	case e.Marker != "":
		msg += fmt.Sprintf(" (marker %q)", e.Marker)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the upstream sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrUpstreamBlocked}
	}
	return []error{domain.ErrUpstreamBlocked, e.Err}
}

// Outcome returns the failure kind as a log and metric label.
func (e *FetchError) Outcome() string { return string(e.Kind) }
