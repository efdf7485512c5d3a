// Package condition holds the compiled form of a search query: an ordered
// predicate list, the positional parameters bound to it, and the join
// fragments the storage layer must incorporate. A Set is produced fresh on
// every compile and never mutated afterwards.
package condition

import (
	"fmt"
	"strings"
)

// Set is an immutable compiled condition set. Placeholders are numbered $1..$N
// in the order the parameters appear across joins and predicates; consumers
// bind positionally and number their own additional parameters from N+1.
type Set struct {
	where  []string
	params []any
	joins  []string
}

// Where returns the predicate clauses, in compilation order.
func (s Set) Where() []string { return cloneStrings(s.where) }

// Params returns the positional parameters, in placeholder order.
func (s Set) Params() []any {
	if len(s.params) == 0 {
		return nil
	}
	out := make([]any, len(s.params))
	copy(out, s.params)
	return out
}

// Joins returns the join fragments required by the predicates.
func (s Set) Joins() []string { return cloneStrings(s.joins) }

// Clause returns the predicates joined with AND ("" when empty).
func (s Set) Clause() string { return strings.Join(s.where, " AND ") }

// IsEmpty reports whether the set constrains nothing.
func (s Set) IsEmpty() bool { return len(s.where) == 0 && len(s.joins) == 0 }

// Builder accumulates one compilation pass and snapshots it into a Set.
// The zero value is ready to use. Each Bind call appends a parameter and
// returns its placeholder, so placeholder order always matches parameter
// order by construction.
type Builder struct {
	where  []string
	params []any
	joins  []string
}

// Bind appends a parameter and returns its positional placeholder ($N).
func (b *Builder) Bind(value any) string {
	b.params = append(b.params, value)
	return fmt.Sprintf("$%d", len(b.params))
}

// Where appends a predicate clause.
func (b *Builder) Where(clause string) {
	b.where = append(b.where, clause)
}

// Join appends a join fragment.
func (b *Builder) Join(fragment string) {
	b.joins = append(b.joins, fragment)
}

// Build snapshots the accumulated clauses into an immutable Set. The builder
// must not be reused afterwards.
func (b *Builder) Build() Set {
	return Set{where: b.where, params: b.params, joins: b.joins}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
