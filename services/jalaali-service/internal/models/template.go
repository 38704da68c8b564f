package models

import "metargb/jalaali/shared/pkg/jalaali"

// FormatTemplate is a named, persisted format pattern. Timestamps are
// stored as instants and exposed as Jalaali dates; DeletedAt is MinValue
// for live rows.
type FormatTemplate struct {
	ID          string           `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Pattern     string           `db:"pattern" json:"pattern"`
	Description string           `db:"description" json:"description"`
	CreatedAt   jalaali.DateTime `db:"created_at" json:"created_at"`
	UpdatedAt   jalaali.DateTime `db:"updated_at" json:"updated_at"`
	DeletedAt   jalaali.DateTime `db:"deleted_at" json:"-"`
}

// IsDeleted reports whether the template was soft deleted
func (t *FormatTemplate) IsDeleted() bool {
	return !t.DeletedAt.IsZero()
}
