package repository

import (
	"fmt"
	"strings"
)

// Spec declares the read shape for one entity: which table and columns,
// the one join the callers ever need (denormalized views are fixed, not
// ad-hoc), which fields free-text search runs over, and the natural
// order of listings.
type Spec struct {
	Table        string
	Columns      []string
	Join         string   // fixed join clause, empty when the entity has none
	SearchFields []string // ILIKE-matched, OR-combined
	OrderColumn  string   // natural-order column, ascending by default
}

// Cond is an exact-match predicate. Conds with empty values are skipped
// entirely: an absent filter is "no constraint", not "match empty".
type Cond struct {
	Column string
	Value  any
}

// Sort order directions
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Build assembles the SELECT for a list/search read and its arguments.
// term adds a case-insensitive substring match over the spec's search
// fields; conds are AND-combined equality predicates. Order-by is always
// emitted, falling back to the spec's natural order ascending.
func (s Spec) Build(term string, conds []Cond, orderColumn, direction string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.Table)
	if s.Join != "" {
		sb.WriteString(" ")
		sb.WriteString(s.Join)
	}

	var (
		where []string
		args  []any
	)

	if term != "" && len(s.SearchFields) > 0 {
		args = append(args, "%"+term+"%")
		ph := fmt.Sprintf("$%d", len(args))
		matches := make([]string, len(s.SearchFields))
		for i, f := range s.SearchFields {
			matches[i] = f + " ILIKE " + ph
		}
		where = append(where, "("+strings.Join(matches, " OR ")+")")
	}

	for _, c := range conds {
		if isEmpty(c.Value) {
			continue
		}
		args = append(args, c.Value)
		where = append(where, fmt.Sprintf("%s = $%d", c.Column, len(args)))
	}

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	if orderColumn == "" {
		orderColumn = s.OrderColumn
	}
	sb.WriteString(orderColumn)
	if strings.EqualFold(direction, OrderDesc) {
		sb.WriteString(" DESC")
	} else {
		sb.WriteString(" ASC")
	}

	return sb.String(), args
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case int:
		return val == 0
	case int64:
		return val == 0
	default:
		return false
	}
}
