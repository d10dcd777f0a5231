package language

import (
	"errors"
	"fmt"
)

// ErrMismatch is matched by every *MismatchError.
var ErrMismatch = errors.New("language mismatch")

// MismatchError reports that the detected language does not resolve to the
// language the caller declared.
type MismatchError struct {
	Declared Tag
	Detected string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("language mismatch: expected %s, got %s", e.Declared, e.Detected)
}

// Is ties the error to ErrMismatch for errors.Is.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Validator reconciles a detected language against a declared one.
type Validator struct {
	table *Table
}

// NewValidator returns a validator backed by table, or the default table
// when table is nil.
func NewValidator(table *Table) *Validator {
	if table == nil {
		table = DefaultTable()
	}
	return &Validator{table: table}
}

// Validate returns nil when detected resolves to declared, and a
// *MismatchError otherwise.
func (v *Validator) Validate(detected string, declared Tag) error {
	if tag, ok := v.table.Resolve(detected); ok && tag == declared {
		return nil
	}
	return &MismatchError{Declared: declared, Detected: detected}
}
