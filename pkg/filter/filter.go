// Package filter implements the filter chain grammar and compiles it
// against an index definition into a byte-range scan plus a residual
// predicate.
package filter

import "github.com/inkdex/inkdex/pkg/schema"

// Op is a filter clause's comparison operator.
type Op int

const (
	OpEq Op = iota
	OpStartsWith
	OpGt
	OpGte
	OpLt
	OpLte
	OpBetween
)

// Clause constrains a single field. Between uses Value as the lower bound
// and Upper as the upper bound, both inclusive.
type Clause struct {
	Field string
	Op    Op
	Value schema.Value
	Upper schema.Value
}

// Eq, StartsWith, Gt, Gte, Lt, Lte and Between build a Clause for the named
// field. They are thin constructors; chains are built by appending them.
func Eq(field string, v schema.Value) Clause         { return Clause{Field: field, Op: OpEq, Value: v} }
func StartsWith(field, prefix string) Clause {
	return Clause{Field: field, Op: OpStartsWith, Value: schema.String(prefix)}
}
func Gt(field string, v schema.Value) Clause  { return Clause{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v schema.Value) Clause { return Clause{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v schema.Value) Clause  { return Clause{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v schema.Value) Clause { return Clause{Field: field, Op: OpLte, Value: v} }
func Between(field string, lo, hi schema.Value) Clause {
	return Clause{Field: field, Op: OpBetween, Value: lo, Upper: hi}
}

// Chain is an ordered list of clauses. Order has no semantic effect on the
// result (Compile resolves clauses by field name against the index
// definition), but affects which clause is picked when two clauses target
// the same field — the first one found wins, others fall to the residual.
type Chain []Clause

func (c Chain) find(field string) (Clause, bool) {
	for _, cl := range c {
		if cl.Field == field {
			return cl, true
		}
	}
	return Clause{}, false
}

// Match evaluates a residual chain against a fully hydrated field map,
// returning whether the document satisfies every clause. Used by the query
// engine after a range scan to apply the clauses the index could not
// narrow.
func Match(chain Chain, fields map[string]schema.Value) bool {
	for _, cl := range chain {
		v, ok := fields[cl.Field]
		if !ok {
			return false
		}
		if !matchClause(cl, v) {
			return false
		}
	}
	return true
}

func matchClause(cl Clause, v schema.Value) bool {
	switch cl.Op {
	case OpEq:
		return valuesEqual(v, cl.Value)
	case OpStartsWith:
		return v.Kind == schema.KindString && len(v.Str) >= len(cl.Value.Str) && v.Str[:len(cl.Value.Str)] == cl.Value.Str
	case OpGt:
		return compareValues(v, cl.Value) > 0
	case OpGte:
		return compareValues(v, cl.Value) >= 0
	case OpLt:
		return compareValues(v, cl.Value) < 0
	case OpLte:
		return compareValues(v, cl.Value) <= 0
	case OpBetween:
		return compareValues(v, cl.Value) >= 0 && compareValues(v, cl.Upper) <= 0
	default:
		return false
	}
}

func valuesEqual(a, b schema.Value) bool {
	return compareValues(a, b) == 0
}

// compareValues compares two values of the same kind. Mismatched kinds
// compare as unequal in an unspecified but deterministic order; callers
// should not rely on the ordering beyond equality for mismatched kinds.
func compareValues(a, b schema.Value) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case schema.KindString, schema.KindReference:
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	case schema.KindNumber:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	case schema.KindBool:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case schema.KindDatetime:
		switch {
		case a.Time.Before(b.Time):
			return -1
		case a.Time.After(b.Time):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
