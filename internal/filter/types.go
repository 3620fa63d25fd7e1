package filter

import "github.com/roach88/malviz/internal/tidy"

// Expr is a predicate over tidy.Key values.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// YearEquals matches keys whose year equals Year.
type YearEquals struct {
	Year int
}

func (YearEquals) exprNode() {}

// YearBetween matches keys whose year lies in [From, To].
type YearBetween struct {
	From int
	To   int
}

func (YearBetween) exprNode() {}

// CountryIn matches keys whose country is one of Countries (exact match).
type CountryIn struct {
	Countries []string
}

func (CountryIn) exprNode() {}

// And matches keys satisfying every sub-expression. An empty And matches
// everything.
type And struct {
	Exprs []Expr
}

func (And) exprNode() {}

// Match reports whether key satisfies e.
func Match(e Expr, key tidy.Key) bool {
	switch x := e.(type) {
	case nil:
		return true
	case YearEquals:
		return key.Year == x.Year
	case *YearEquals:
		return key.Year == x.Year
	case YearBetween:
		return key.Year >= x.From && key.Year <= x.To
	case *YearBetween:
		return key.Year >= x.From && key.Year <= x.To
	case CountryIn:
		return containsString(x.Countries, key.Country)
	case *CountryIn:
		return containsString(x.Countries, key.Country)
	case And:
		return matchAll(x.Exprs, key)
	case *And:
		return matchAll(x.Exprs, key)
	default:
		return false
	}
}

func matchAll(exprs []Expr, key tidy.Key) bool {
	for _, sub := range exprs {
		if !Match(sub, key) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Year is shorthand for YearEquals{Year: y}.
func Year(y int) Expr {
	return YearEquals{Year: y}
}

// Years is shorthand for YearBetween{From: from, To: to}.
func Years(from, to int) Expr {
	return YearBetween{From: from, To: to}
}

// Countries is shorthand for CountryIn{Countries: names}.
func Countries(names ...string) Expr {
	return CountryIn{Countries: names}
}

// All combines expressions with And, dropping nil entries.
func All(exprs ...Expr) Expr {
	var kept []Expr
	for _, e := range exprs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Exprs: kept}
	}
}
