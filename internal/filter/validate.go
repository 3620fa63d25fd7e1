package filter

import "fmt"

// Validation error codes.
const (
	ErrUnsupportedExpr = "F100" // unknown Expr implementation
	ErrEmptyCountryIn  = "F101" // CountryIn without countries
	ErrInvertedRange   = "F102" // YearBetween with From > To
)

// ValidationError describes one problem in an expression.
type ValidationError struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// Validate returns every problem found in e. A nil expression is valid.
func Validate(e Expr) []ValidationError {
	return validate(e, "filter")
}

func validate(e Expr, path string) []ValidationError {
	switch x := e.(type) {
	case nil:
		return nil
	case YearEquals, *YearEquals:
		return nil
	case YearBetween:
		return validateRange(x, path)
	case *YearBetween:
		return validateRange(*x, path)
	case CountryIn:
		return validateCountries(x, path)
	case *CountryIn:
		return validateCountries(*x, path)
	case And:
		return validateAnd(x, path)
	case *And:
		return validateAnd(*x, path)
	default:
		return []ValidationError{{
			Code:    ErrUnsupportedExpr,
			Path:    path,
			Message: fmt.Sprintf("unsupported expression type %T", e),
		}}
	}
}

func validateRange(r YearBetween, path string) []ValidationError {
	if r.From > r.To {
		return []ValidationError{{
			Code:    ErrInvertedRange,
			Path:    path,
			Message: fmt.Sprintf("year range %d..%d is inverted", r.From, r.To),
		}}
	}
	return nil
}

func validateCountries(c CountryIn, path string) []ValidationError {
	if len(c.Countries) == 0 {
		return []ValidationError{{
			Code:    ErrEmptyCountryIn,
			Path:    path,
			Message: "country list is empty",
		}}
	}
	return nil
}

func validateAnd(a And, path string) []ValidationError {
	var errs []ValidationError
	for i, sub := range a.Exprs {
		errs = append(errs, validate(sub, fmt.Sprintf("%s.and[%d]", path, i))...)
	}
	return errs
}
