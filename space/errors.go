package space

import (
	"errors"
	"fmt"
)

// ErrEmptyVector is returned when a distance is requested over zero-length
// operands.
var ErrEmptyVector = errors.New("empty vector")

// ErrPhaseViolation indicates that the public distance entry point was called
// while the space was in the query phase.
type ErrPhaseViolation struct {
	Op string
}

func (e *ErrPhaseViolation) Error() string {
	return fmt.Sprintf("%s is accessible only during the indexing phase", e.Op)
}

// ErrDimensionMismatch indicates two vectors of unequal element counts, or a
// requested element count exceeding an object's actual count.
type ErrDimensionMismatch struct {
	Expected int // Expected element count
	Actual   int // Actual element count
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrFormat indicates a malformed record. Line is the 1-based line number in
// the input file, or 0 when the record did not come from a file session.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrFormat struct {
	Line   int
	Text   string
	Reason string
	cause  error
}

func (e *ErrFormat) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error at line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("format error: %s: %q", e.Reason, e.Text)
}

func (e *ErrFormat) Unwrap() error { return e.cause }

// ErrOrderingViolation indicates a repeated or out-of-order sparse id after
// the post-parse sort. It carries both offending entries and their position.
type ErrOrderingViolation struct {
	Line    int
	Pos     int // index of the second offending entry in the sorted sequence
	PrevID  uint32
	CurrID  uint32
	PrevVal string
	CurrVal string
	Reason  string
}

func (e *ErrOrderingViolation) Error() string {
	return fmt.Sprintf("%s: prev id = %d (val %s), current id = %d (val %s) at position %d (line %d)",
		e.Reason, e.PrevID, e.PrevVal, e.CurrID, e.CurrVal, e.Pos, e.Line)
}
