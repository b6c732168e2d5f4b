// Package contract validates tables before they are exported for
// visualization.
package contract

import (
	"errors"
	"fmt"
	"math"

	"github.com/gorewood/avcp/internal/table"
)

// ErrViolation matches every Violation via errors.Is.
var ErrViolation = errors.New("data contract violation")

// Reason identifies which precondition a Violation failed.
type Reason string

// Violation reasons, in the order Validate checks them. ReasonFormat is
// raised by the export bridge for unsupported file extensions.
const (
	ReasonNotTable     Reason = "not_table"
	ReasonEmpty        Reason = "empty"
	ReasonKeyMissing   Reason = "key_missing"
	ReasonKeyNull      Reason = "key_null"
	ReasonKeyDuplicate Reason = "key_duplicate"
	ReasonFormat       Reason = "format"
)

// Violation is a failed export precondition.
type Violation struct {
	Reason  Reason
	Message string
}

// NewViolation creates a Violation.
func NewViolation(reason Reason, message string) *Violation {
	return &Violation{Reason: reason, Message: message}
}

func (v *Violation) Error() string {
	return v.Message
}

// Is reports whether target is ErrViolation.
func (v *Violation) Is(target error) bool {
	return target == ErrViolation
}

// ReasonOf returns the Reason of the first Violation in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v.Reason, true
	}
	return "", false
}

// Validate checks that t can be exported with primaryKey as its key column.
// Checks run in order and stop at the first failure: t is a table, t has
// rows, the key column exists, it holds no nulls, and its values are unique.
func Validate(t *table.Table, primaryKey string) error {
	if t == nil {
		return NewViolation(ReasonNotTable, "Input must be a table.")
	}
	if t.Rows() == 0 {
		return NewViolation(ReasonEmpty, "Table is empty; refusing to export.")
	}

	col, ok := t.Column(primaryKey)
	if !ok {
		return NewViolation(ReasonKeyMissing, fmt.Sprintf("Primary key column '%s' missing.", primaryKey))
	}

	for _, value := range col.Values {
		if isNull(value) {
			return NewViolation(ReasonKeyNull, fmt.Sprintf("Primary key column '%s' contains null values.", primaryKey))
		}
	}

	seen := make(map[any]struct{}, len(col.Values))
	for _, value := range col.Values {
		if _, dup := seen[value]; dup {
			return NewViolation(ReasonKeyDuplicate, fmt.Sprintf("Primary key column '%s' is not unique.", primaryKey))
		}
		seen[value] = struct{}{}
	}
	return nil
}

// isNull reports whether a cell is missing. NaN counts as missing, the same
// as an empty cell.
func isNull(value any) bool {
	if value == nil {
		return true
	}
	f, ok := value.(float64)
	return ok && math.IsNaN(f)
}
