package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"metargb/jalaali/services/jalaali-service/internal/models"
	"metargb/jalaali/shared/pkg/db"
	"metargb/jalaali/shared/pkg/jalaali"
)

// ErrTemplateNotFound is returned when no live template has the requested name
var ErrTemplateNotFound = errors.New("format template not found")

const templatesTable = "format_templates"

// TemplateSchema is the format_templates layout checked at startup
var TemplateSchema = db.TableSchema{
	Name: templatesTable,
	Columns: []db.ColumnType{
		{Name: "id", DataType: "char"},
		{Name: "name", DataType: "varchar"},
		{Name: "pattern", DataType: "varchar"},
		{Name: "description", DataType: "varchar"},
		{Name: "created_at", DataType: "timestamp"},
		{Name: "updated_at", DataType: "timestamp"},
		{Name: "deleted_at", DataType: "timestamp", Nullable: true},
	},
}

// TemplateRepository defines the persistence operations for format templates
type TemplateRepository interface {
	GetByName(ctx context.Context, name string) (*models.FormatTemplate, error)
	List(ctx context.Context) ([]*models.FormatTemplate, error)
	Upsert(ctx context.Context, template *models.FormatTemplate) (*models.FormatTemplate, error)
	Delete(ctx context.Context, name string) error
}

type templateRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTemplateRepository creates a MySQL backed template repository
func NewTemplateRepository(database *sql.DB) TemplateRepository {
	return &templateRepository{db: database, now: time.Now}
}

const selectTemplates = "SELECT id, name, pattern, description, created_at, updated_at, deleted_at FROM format_templates"

func scanTemplate(scan func(dest ...interface{}) error) (*models.FormatTemplate, error) {
	var t models.FormatTemplate
	if err := scan(&t.ID, &t.Name, &t.Pattern, &t.Description, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) GetByName(ctx context.Context, name string) (*models.FormatTemplate, error) {
	row := db.NewSoftDeleteQuery(selectTemplates, templatesTable).
		Where("name = ?", name).
		QueryRow(ctx, r.db)

	t, err := scanTemplate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", name, err)
	}
	return t, nil
}

func (r *templateRepository) List(ctx context.Context) ([]*models.FormatTemplate, error) {
	rows, err := db.NewSoftDeleteQuery(selectTemplates, templatesTable).
		OrderBy("name").
		QueryRows(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.FormatTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return templates, nil
}

// Upsert inserts the template or revives and updates the row with the same name
func (r *templateRepository) Upsert(ctx context.Context, template *models.FormatTemplate) (*models.FormatTemplate, error) {
	id := template.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := jalaali.New(r.now().UTC())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO format_templates (id, name, pattern, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			pattern = VALUES(pattern),
			description = VALUES(description),
			updated_at = VALUES(updated_at),
			deleted_at = NULL`,
		id, template.Name, template.Pattern, template.Description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save template %s: %w", template.Name, err)
	}

	return r.GetByName(ctx, template.Name)
}

func (r *templateRepository) Delete(ctx context.Context, name string) error {
	affected, err := db.SoftDelete(ctx, r.db, templatesTable, "name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", name, err)
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
