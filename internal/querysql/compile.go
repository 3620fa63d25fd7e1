// Package querysql compiles filter expressions to parameterised SQLite
// queries over the observations table.
//
// Every query carries ORDER BY country COLLATE BINARY, year so rows come
// back in the same order as tidy.Table keeps them. Values are always bound
// as parameters, never interpolated.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/malviz/internal/filter"
)

const selectObservations = "SELECT country, year, value FROM observations WHERE dataset_id = ?"

const orderBy = " ORDER BY country COLLATE BINARY ASC, year ASC"

// Compile returns the SQL and parameters selecting the observations of one
// dataset that satisfy e. A nil e selects every row.
func Compile(datasetID string, e filter.Expr) (string, []any, error) {
	if errs := filter.Validate(e); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, ve := range errs {
			joined[i] = ve
		}
		return "", nil, fmt.Errorf("invalid filter: %w", errors.Join(joined...))
	}

	params := []any{datasetID}
	sql := selectObservations
	if e != nil {
		where, whereParams, err := compileExpr(e)
		if err != nil {
			return "", nil, err
		}
		sql += " AND " + where
		params = append(params, whereParams...)
	}
	return sql + orderBy, params, nil
}

func compileExpr(e filter.Expr) (string, []any, error) {
	switch x := e.(type) {
	case filter.YearEquals:
		return "year = ?", []any{x.Year}, nil
	case *filter.YearEquals:
		return "year = ?", []any{x.Year}, nil
	case filter.YearBetween:
		return "year BETWEEN ? AND ?", []any{x.From, x.To}, nil
	case *filter.YearBetween:
		return "year BETWEEN ? AND ?", []any{x.From, x.To}, nil
	case filter.CountryIn:
		return compileCountries(x)
	case *filter.CountryIn:
		return compileCountries(*x)
	case filter.And:
		return compileAnd(x)
	case *filter.And:
		return compileAnd(*x)
	default:
		return "", nil, fmt.Errorf("unsupported filter type: %T", e)
	}
}

func compileCountries(c filter.CountryIn) (string, []any, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(c.Countries)), ", ")
	params := make([]any, len(c.Countries))
	for i, name := range c.Countries {
		params[i] = name
	}
	return "country IN (" + placeholders + ")", params, nil
}

func compileAnd(a filter.And) (string, []any, error) {
	if len(a.Exprs) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(a.Exprs))
	var params []any
	for _, sub := range a.Exprs {
		if sub == nil {
			continue
		}
		sql, subParams, err := compileExpr(sub)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, subParams...)
	}
	if len(parts) == 0 {
		return "1 = 1", nil, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}
