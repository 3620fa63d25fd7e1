package metrics

import (
	"errors"
	"fmt"
)

// EmptyInputError reports an aggregate requested over zero qualifying rows.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no qualifying rows", e.Op)
}

// IsEmptyInput returns true if err is, or wraps, an *EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}
