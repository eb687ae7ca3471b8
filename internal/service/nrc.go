package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/store"
	"gorm.io/gorm"
)

const msgNrcExists = "Ya existe un NRC con ese código"

// CreateNrcInput holds the fields of a new NRC.
type CreateNrcInput struct {
	Codigo     string
	Periodo    string
	MateriaID  uint
	ProfesorID *uint
}

// UpdateNrcInput holds a partial NRC update.
type UpdateNrcInput struct {
	Codigo     *string
	Periodo    *string
	MateriaID  *uint
	ProfesorID *uint
}

// ListNrcs returns all active NRCs with their materia.
func (s *CatalogService) ListNrcs(ctx context.Context) ([]models.Nrc, error) {
	var nrcs []models.Nrc
	err := s.db.WithContext(ctx).
		Preload("Materia").
		Where("deleted = ?", false).
		Order("codigo").
		Find(&nrcs).Error
	if err != nil {
		return nil, err
	}
	return nrcs, nil
}

// GetNrc returns an active NRC by id.
func (s *CatalogService) GetNrc(ctx context.Context, id uint) (*models.Nrc, error) {
	var n models.Nrc
	if err := findActive(s.db.WithContext(ctx).Preload("Materia"), &n, id); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNrc creates an NRC for an active materia. When a profesor is given it
// must be an active user holding the profesor role.
func (s *CatalogService) CreateNrc(ctx context.Context, in CreateNrcInput, userID uint) (*models.Nrc, error) {
	n := models.Nrc{
		Codigo:     in.Codigo,
		Periodo:    in.Periodo,
		MateriaID:  in.MateriaID,
		ProfesorID: in.ProfesorID,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Nrc{}, "codigo", in.Codigo, 0, msgNrcExists); err != nil {
			return err
		}
		if err := requireRef(tx, &models.Materia{}, in.MateriaID, "materia_id"); err != nil {
			return err
		}
		if in.ProfesorID != nil {
			if err := requireProfesor(ctx, tx, *in.ProfesorID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Materia").Create(&n).Error; err != nil {
			return writeError(err, msgNrcExists)
		}
		return audit.LogAction(tx, userID, audit.ActionCreateNrc, fmt.Sprintf("nrc:%d", n.ID), map[string]interface{}{
			"codigo":     n.Codigo,
			"materia_id": n.MateriaID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetNrc(ctx, n.ID)
}

// UpdateNrc applies a partial update to an active NRC.
func (s *CatalogService) UpdateNrc(ctx context.Context, id uint, in UpdateNrcInput, userID uint) (*models.Nrc, error) {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var n models.Nrc
		if err := findActive(tx, &n, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Codigo != nil && *in.Codigo != n.Codigo {
			if err := ensureUnique(tx, &models.Nrc{}, "codigo", *in.Codigo, id, msgNrcExists); err != nil {
				return err
			}
			updates["codigo"] = *in.Codigo
		}
		if in.Periodo != nil {
			updates["periodo"] = *in.Periodo
		}
		if in.MateriaID != nil {
			if err := requireRef(tx, &models.Materia{}, *in.MateriaID, "materia_id"); err != nil {
				return err
			}
			updates["materia_id"] = *in.MateriaID
		}
		if in.ProfesorID != nil {
			if err := requireProfesor(ctx, tx, *in.ProfesorID); err != nil {
				return err
			}
			updates["profesor_id"] = *in.ProfesorID
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Nrc{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return writeError(err, msgNrcExists)
		}
		return audit.LogAction(tx, userID, audit.ActionUpdateNrc, fmt.Sprintf("nrc:%d", id), updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetNrc(ctx, id)
}

// DeleteNrc soft deletes an NRC.
func (s *CatalogService) DeleteNrc(ctx context.Context, id, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var n models.Nrc
		if err := findActive(tx, &n, id); err != nil {
			return err
		}
		return softDelete(tx, &models.Nrc{}, id, userID, audit.ActionDeleteNrc, "nrc")
	})
}

func requireProfesor(ctx context.Context, tx *gorm.DB, userID uint) error {
	user, err := store.New(tx).FindActiveUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return &ValidationError{Message: fmt.Sprintf("profesor_id %d no existe", userID)}
		}
		return err
	}
	if !slices.Contains(user.Roles, models.RoleProfesor) {
		return &ValidationError{Message: fmt.Sprintf("El usuario %d no es profesor", userID)}
	}
	return nil
}
