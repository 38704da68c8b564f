package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SoftDeleteQuery helps build queries that respect soft deletes
type SoftDeleteQuery struct {
	baseQuery    string
	tableName    string
	deleteColumn string
	params       []interface{}
	whereClause  []string
	orderBy      string
}

// NewSoftDeleteQuery creates a new soft delete query builder
func NewSoftDeleteQuery(baseQuery, tableName string) *SoftDeleteQuery {
	return &SoftDeleteQuery{
		baseQuery:    baseQuery,
		tableName:    tableName,
		deleteColumn: "deleted_at",
	}
}

// WithDeleteColumn sets custom soft delete column name (default: deleted_at)
func (q *SoftDeleteQuery) WithDeleteColumn(column string) *SoftDeleteQuery {
	q.deleteColumn = column
	return q
}

// Where adds a WHERE condition
func (q *SoftDeleteQuery) Where(condition string, args ...interface{}) *SoftDeleteQuery {
	q.whereClause = append(q.whereClause, condition)
	q.params = append(q.params, args...)
	return q
}

// OrderBy sets the ORDER BY clause
func (q *SoftDeleteQuery) OrderBy(clause string) *SoftDeleteQuery {
	q.orderBy = clause
	return q
}

// Build builds the final query with the soft delete filter. It can be called
// more than once.
func (q *SoftDeleteQuery) Build() (string, []interface{}) {
	conditions := append([]string{}, q.whereClause...)
	conditions = append(conditions, fmt.Sprintf("%s.%s IS NULL", q.tableName, q.deleteColumn))

	query := q.baseQuery + " WHERE " + strings.Join(conditions, " AND ")
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	return query, q.params
}

// QueryRows executes the query and returns rows
func (q *SoftDeleteQuery) QueryRows(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query, params := q.Build()
	return db.QueryContext(ctx, query, params...)
}

// QueryRow executes the query and returns a single row
func (q *SoftDeleteQuery) QueryRow(ctx context.Context, db *sql.DB) *sql.Row {
	query, params := q.Build()
	return db.QueryRowContext(ctx, query, params...)
}

// SoftDelete stamps the delete column of live rows matching condition and
// returns the number of rows affected
func SoftDelete(ctx context.Context, db *sql.DB, tableName, condition string, args ...interface{}) (int64, error) {
	query := fmt.Sprintf("UPDATE %s SET deleted_at = ? WHERE %s AND deleted_at IS NULL", tableName, condition)
	params := append([]interface{}{time.Now().UTC()}, args...)

	result, err := db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete from %s: %w", tableName, err)
	}
	return result.RowsAffected()
}
