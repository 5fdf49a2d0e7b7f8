package catalog

import "fmt"

// RequestError wraps a transport- or status-level fetch failure. The
// orchestrator treats it as "skip this unit of work" rather than aborting
// the run.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ExtractionError reports a page whose expected structural container is
// missing. Skippable at the category and subject boundaries.
type ExtractionError struct {
	URL      string
	Selector string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: no element matches %q", e.URL, e.Selector)
}

// ParseError reports a course block whose required title fields are missing.
// It causes the whole subject page to be skipped.
type ParseError struct {
	Field string
	Code  string
}

func (e *ParseError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("parse course: missing %s", e.Field)
	}
	return fmt.Sprintf("parse course %s: missing %s", e.Code, e.Field)
}
