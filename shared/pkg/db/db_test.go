package db

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DSN(t *testing.T) {
	dsn := Config{Host: "mysql", Port: 3306, User: "u", Password: "p", Database: "jalaali"}.DSN()

	assert.True(t, strings.HasPrefix(dsn, "u:p@tcp(mysql:3306)/jalaali?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "collation=utf8mb4_unicode_ci")
}

var templateSchema = TableSchema{
	Name: "format_templates",
	Columns: []ColumnType{
		{Name: "id", DataType: "char"},
		{Name: "name", DataType: "varchar"},
		{Name: "deleted_at", DataType: "timestamp", Nullable: true},
	},
}

func TestSchemaGuard_ValidateTable(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM INFORMATION_SCHEMA.COLUMNS")
	columns := []string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE"}

	t.Run("matching table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs("format_templates").WillReturnRows(
			sqlmock.NewRows(columns).
				AddRow("id", "char", "NO").
				AddRow("name", "varchar", "NO").
				AddRow("deleted_at", "timestamp", "YES"))

		assert.NoError(t, NewSchemaGuard(db).ValidateTable(ctx, templateSchema))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs("format_templates").WillReturnRows(sqlmock.NewRows(columns))

		err = NewSchemaGuard(db).ValidateTable(ctx, templateSchema)
		assert.EqualError(t, err, "table format_templates: does not exist or has no columns")
	})

	t.Run("wrong type", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs("format_templates").WillReturnRows(
			sqlmock.NewRows(columns).
				AddRow("id", "bigint", "NO").
				AddRow("name", "varchar", "NO").
				AddRow("deleted_at", "timestamp", "YES"))

		err = NewSchemaGuard(db).ValidateTable(ctx, templateSchema)
		assert.EqualError(t, err, "table format_templates: column id has type bigint, expected char")
	})

	t.Run("not nullable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs("format_templates").WillReturnRows(
			sqlmock.NewRows(columns).
				AddRow("id", "char", "NO").
				AddRow("name", "varchar", "NO").
				AddRow("deleted_at", "timestamp", "NO"))

		err = NewSchemaGuard(db).ValidateTables(ctx, []TableSchema{templateSchema})
		assert.EqualError(t, err, "table format_templates: column deleted_at must be nullable")
	})

	t.Run("reports every problem", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs("format_templates").WillReturnRows(
			sqlmock.NewRows(columns).
				AddRow("id", "int", "NO").
				AddRow("deleted_at", "timestamp", "NO"))

		err = NewSchemaGuard(db).ValidateTable(ctx, templateSchema)
		var mismatch *SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, []string{
			"column id has type int, expected char",
			"missing column name",
			"column deleted_at must be nullable",
		}, mismatch.Problems)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(query).WillReturnError(errors.New("connection refused"))

		err = NewSchemaGuard(db).ValidateTable(ctx, templateSchema)
		assert.ErrorContains(t, err, "failed to query table schema for format_templates")
	})
}

func TestSoftDeleteQuery_Build(t *testing.T) {
	q := NewSoftDeleteQuery("SELECT id FROM format_templates", "format_templates").
		Where("name = ?", "short").
		OrderBy("name")

	query, params := q.Build()
	assert.Equal(t, "SELECT id FROM format_templates WHERE name = ? AND format_templates.deleted_at IS NULL ORDER BY name", query)
	assert.Equal(t, []interface{}{"short"}, params)

	again, _ := q.Build()
	assert.Equal(t, query, again)

	query, params = NewSoftDeleteQuery("SELECT id FROM t", "t").WithDeleteColumn("removed_at").Build()
	assert.Equal(t, "SELECT id FROM t WHERE t.removed_at IS NULL", query)
	assert.Empty(t, params)
}

func TestSoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE format_templates SET deleted_at = ? WHERE name = ? AND deleted_at IS NULL")).
		WithArgs(sqlmock.AnyArg(), "short").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := SoftDelete(context.Background(), db, "format_templates", "name = ?", "short")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
