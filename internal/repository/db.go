package repository

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.
// Repositories built by Store always receive the *sql.Tx of the current
// request so every statement of one operation shares a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// likeEscaper escapes LIKE wildcards so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern matching any value
// that contains term. An empty term matches every row.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, db DBTX, table string, id uint64) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
