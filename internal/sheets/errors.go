package sheets

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable means the schedule sheet could not be fetched at
// all. Callers keep their previously loaded schedule and retry on the
// next refresh cycle.
var ErrSourceUnavailable = errors.New("schedule source unavailable")

// RowParseError describes a single malformed schedule row. It is logged
// and the row skipped; it never fails a whole load.
type RowParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: bad %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}
