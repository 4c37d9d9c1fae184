package postgres

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// whereClause collects AND-ed conditions written with ? placeholders.
type whereClause struct {
	conds []string
	args  []interface{}
}

func (w *whereClause) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// build appends the clause and a suffix to base and rebinds placeholders for
// PostgreSQL.
func (w *whereClause) build(base, suffix string, extra ...interface{}) (string, []interface{}) {
	query := sqlx.Rebind(sqlx.DOLLAR, base+w.String()+suffix)
	args := make([]interface{}, 0, len(w.args)+len(extra))
	args = append(args, w.args...)
	args = append(args, extra...)
	return query, args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}
