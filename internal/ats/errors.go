package ats

import "errors"

// ErrEmptyDocument is returned when the resume or job text has no terms
// left after analysis.
var ErrEmptyDocument = errors.New("document has no scorable terms")
