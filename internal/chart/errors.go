package chart

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a builder's selection holds no present values.
var ErrNoData = errors.New("no data to chart")

// OptionError reports an invalid builder option.
type OptionError struct {
	Option  string
	Message string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("chart option %s: %s", e.Option, e.Message)
}

// IsOptionError returns true if err is, or wraps, an *OptionError.
func IsOptionError(err error) bool {
	var oe *OptionError
	return errors.As(err, &oe)
}
