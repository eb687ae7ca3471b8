package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uninorte/feria-gamer/internal/audit"
	"gorm.io/gorm"
)

// CatalogService manages the event catalog: materias, NRCs, videojuegos,
// equipos and estudiantes. Every record is soft deleted through its
// deleted column.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// findActive loads the non-deleted row with the given id into dest.
func findActive(tx *gorm.DB, dest interface{}, id uint) error {
	err := tx.Where("id = ? AND deleted = ?", id, false).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// requireRef turns a missing referenced row into a ValidationError naming
// the offending field.
func requireRef(tx *gorm.DB, dest interface{}, id uint, field string) error {
	err := findActive(tx, dest, id)
	if errors.Is(err, ErrNotFound) {
		return &ValidationError{Message: fmt.Sprintf("%s %d no existe", field, id)}
	}
	return err
}

// taken reports whether any row, deleted or not, other than exceptID already
// uses value in column. Deleted rows still hold their unique index entry.
func taken(tx *gorm.DB, model interface{}, column, value string, exceptID uint) (bool, error) {
	var n int64
	q := tx.Model(model).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func ensureUnique(tx *gorm.DB, model interface{}, column, value string, exceptID uint, msg string) error {
	exists, err := taken(tx, model, column, value, exceptID)
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Message: msg}
	}
	return nil
}

// softDelete marks the row as deleted and writes the audit entry.
func softDelete(tx *gorm.DB, model interface{}, id, userID uint, action, resource string) error {
	if err := tx.Model(model).Where("id = ?", id).Update("deleted", true).Error; err != nil {
		return err
	}
	return audit.LogAction(tx, userID, action, fmt.Sprintf("%s:%d", resource, id), map[string]interface{}{"id": id})
}

// writeError converts a duplicate-key failure that slipped past the
// uniqueness pre-check into a ConflictError.
func writeError(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Message: msg}
	}
	return err
}
