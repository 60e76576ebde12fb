package edugis

import "errors"

var (
	// ErrNetwork covers connection failures, timeouts and non-success
	// statuses that persisted through every retry.
	ErrNetwork = errors.New("statistics portal unreachable")
	// ErrFormState means the landing page had no extractable hidden
	// form fields, so a query submission cannot be built.
	ErrFormState = errors.New("hidden form state missing from landing page")
	// ErrUnexpectedContent means the query response carried no
	// recognizable results section. An empty results section is a
	// valid response, not this error.
	ErrUnexpectedContent = errors.New("response is missing the results section")
	// ErrParse means the results section had no table matching the
	// known column headers.
	ErrParse = errors.New("results table not recognized")
)
