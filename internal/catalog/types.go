// Package catalog implements the course-catalog traversal: fetching pages,
// extracting category/subject links and course blocks, and parsing each block
// into a Course record.
package catalog

// Course is one parsed catalog entry. Identity is the Code; a Course is
// immutable once constructed.
type Course struct {
	Code        string
	Name        string
	Credits     string
	Description string
	Attributes  string
}

// NotAvailable is the placeholder stored when an optional field cannot be
// located in the course block.
const NotAvailable = "N/A"
