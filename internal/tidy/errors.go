package tidy

import (
	"errors"
	"fmt"
)

// SchemaErrorCode categorizes schema errors.
type SchemaErrorCode string

const (
	// ErrCodeMissingColumn indicates the identifier column is absent.
	ErrCodeMissingColumn SchemaErrorCode = "MISSING_COLUMN"

	// ErrCodeDuplicateColumn indicates two columns share a header.
	ErrCodeDuplicateColumn SchemaErrorCode = "DUPLICATE_COLUMN"

	// ErrCodeDuplicateKey indicates an identifier appears on two rows.
	ErrCodeDuplicateKey SchemaErrorCode = "DUPLICATE_KEY"

	// ErrCodeEmptyTable indicates a table without a header row.
	ErrCodeEmptyTable SchemaErrorCode = "EMPTY_TABLE"

	// ErrCodeRaggedRow indicates a row longer than the header.
	ErrCodeRaggedRow SchemaErrorCode = "RAGGED_ROW"
)

// SchemaError reports a table whose shape does not match expectations.
type SchemaError struct {
	Code    SchemaErrorCode
	Column  string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s (column=%q)", e.Code, e.Message, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaError returns true if err is, or wraps, a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
