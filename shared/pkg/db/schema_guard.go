package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnType describes one expected column. DataType is a base type such as
// "varchar", which also matches "varchar(191)".
type ColumnType struct {
	Name     string
	DataType string
	Nullable bool
}

// TableSchema is the set of columns a repository depends on
type TableSchema struct {
	Name    string
	Columns []ColumnType
}

// SchemaMismatchError lists every difference found in one table
type SchemaMismatchError struct {
	Table    string
	Problems []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table %s: %s", e.Table, strings.Join(e.Problems, "; "))
}

// SchemaGuard compares live INFORMATION_SCHEMA columns with TableSchemas
type SchemaGuard struct {
	db *sql.DB
}

func NewSchemaGuard(db *sql.DB) *SchemaGuard {
	return &SchemaGuard{db: db}
}

const columnsQuery = `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

func (sg *SchemaGuard) columns(ctx context.Context, table string) (map[string]ColumnType, error) {
	rows, err := sg.db.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query table schema for %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[string]ColumnType)
	for rows.Next() {
		var col ColumnType
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		col.Nullable = nullable == "YES"
		found[col.Name] = col
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table schema for %s: %w", table, err)
	}
	return found, nil
}

// ValidateTable returns a *SchemaMismatchError naming every missing column,
// incompatible type and column that must allow NULL but does not.
// Extra columns in the database are ignored.
func (sg *SchemaGuard) ValidateTable(ctx context.Context, schema TableSchema) error {
	found, err := sg.columns(ctx, schema.Name)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return &SchemaMismatchError{Table: schema.Name, Problems: []string{"does not exist or has no columns"}}
	}

	var problems []string
	for _, want := range schema.Columns {
		got, ok := found[want.Name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("missing column %s", want.Name))
		case !matchesDataType(got.DataType, want.DataType):
			problems = append(problems, fmt.Sprintf("column %s has type %s, expected %s", want.Name, got.DataType, want.DataType))
		case want.Nullable && !got.Nullable:
			problems = append(problems, fmt.Sprintf("column %s must be nullable", want.Name))
		}
	}

	if len(problems) > 0 {
		return &SchemaMismatchError{Table: schema.Name, Problems: problems}
	}
	return nil
}

func matchesDataType(actual, expected string) bool {
	return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(expected))
}

// ValidateTables validates each schema and stops at the first failing table
func (sg *SchemaGuard) ValidateTables(ctx context.Context, schemas []TableSchema) error {
	for _, schema := range schemas {
		if err := sg.ValidateTable(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}
