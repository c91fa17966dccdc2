package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Page limits a listing. A zero Limit returns every row.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) clause() string {
	if p.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
}

// conditions accumulates AND-ed WHERE clauses with their ? arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// foldCase lowercases s with Unicode rules. On SQLite it also backs the SQL
// lower() function, so both sides of a LOWER(column) LIKE ? compare folded
// the same way. A Caser is stateful, hence one per call.
func foldCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// containsPattern builds a LIKE pattern matching term anywhere. Callers
// compare against LOWER(column) with ESCAPE '\'.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(foldCase(term)) + "%"
}

func direction(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// selectIn runs a query whose single IN (?) expands to ids. An empty ids
// slice selects nothing.
func (db *DB) selectIn(ctx context.Context, dest interface{}, query string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return fmt.Errorf("failed to expand IN clause: %w", err)
	}
	return db.sel(ctx, dest, q, args...)
}
