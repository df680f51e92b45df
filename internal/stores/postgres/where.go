package postgres

import (
	"fmt"
	"strings"
)

// Where accumulates AND-ed predicates with positional arguments.
// Each clause carries a single "$%d" verb which is replaced with the
// argument's position.
type Where struct {
	clauses []string
	args    []any
}

// NewWhere starts a builder whose first positions are taken by fixed args.
func NewWhere(fixed ...any) *Where {
	return &Where{args: fixed}
}

// Add appends a predicate with a single bound argument.
func (w *Where) Add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

// Raw appends a predicate that takes no argument or refers to fixed args.
func (w *Where) Raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *Where) Args() []any { return w.args }

// Contains wraps s for a case-insensitive substring ILIKE match.
func Contains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
