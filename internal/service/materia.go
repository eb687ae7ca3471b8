package service

import (
	"context"
	"fmt"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

const msgMateriaExists = "Ya existe una materia con ese código"

// CreateMateriaInput holds the fields of a new materia.
type CreateMateriaInput struct {
	Codigo string
	Nombre string
}

// UpdateMateriaInput holds a partial materia update. Nil fields are left
// untouched.
type UpdateMateriaInput struct {
	Codigo *string
	Nombre *string
}

// ListMaterias returns all active materias.
func (s *CatalogService) ListMaterias(ctx context.Context) ([]models.Materia, error) {
	var materias []models.Materia
	if err := s.db.WithContext(ctx).Where("deleted = ?", false).Order("codigo").Find(&materias).Error; err != nil {
		return nil, err
	}
	return materias, nil
}

// GetMateria returns an active materia by id.
func (s *CatalogService) GetMateria(ctx context.Context, id uint) (*models.Materia, error) {
	var m models.Materia
	if err := findActive(s.db.WithContext(ctx), &m, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMateria creates a materia and audits the write.
func (s *CatalogService) CreateMateria(ctx context.Context, in CreateMateriaInput, userID uint) (*models.Materia, error) {
	m := models.Materia{Codigo: in.Codigo, Nombre: in.Nombre}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Materia{}, "codigo", in.Codigo, 0, msgMateriaExists); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return writeError(err, msgMateriaExists)
		}
		return audit.LogAction(tx, userID, audit.ActionCreateMateria, fmt.Sprintf("materia:%d", m.ID), map[string]interface{}{
			"codigo": m.Codigo,
			"nombre": m.Nombre,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMateria applies a partial update to an active materia.
func (s *CatalogService) UpdateMateria(ctx context.Context, id uint, in UpdateMateriaInput, userID uint) (*models.Materia, error) {
	var m models.Materia

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := findActive(tx, &m, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Codigo != nil && *in.Codigo != m.Codigo {
			if err := ensureUnique(tx, &models.Materia{}, "codigo", *in.Codigo, id, msgMateriaExists); err != nil {
				return err
			}
			updates["codigo"] = *in.Codigo
		}
		if in.Nombre != nil {
			updates["nombre"] = *in.Nombre
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return writeError(err, msgMateriaExists)
		}
		return audit.LogAction(tx, userID, audit.ActionUpdateMateria, fmt.Sprintf("materia:%d", id), updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMateria(ctx, id)
}

// DeleteMateria soft deletes a materia. A materia still referenced by an
// active NRC cannot be deleted.
func (s *CatalogService) DeleteMateria(ctx context.Context, id, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var m models.Materia
		if err := findActive(tx, &m, id); err != nil {
			return err
		}

		var nrcs int64
		if err := tx.Model(&models.Nrc{}).Where("materia_id = ? AND deleted = ?", id, false).Count(&nrcs).Error; err != nil {
			return err
		}
		if nrcs > 0 {
			return &ConflictError{Message: "La materia tiene NRC activos"}
		}

		return softDelete(tx, &models.Materia{}, id, userID, audit.ActionDeleteMateria, "materia")
	})
}
