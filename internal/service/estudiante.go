package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

const msgEstudianteExists = "Ya existe un estudiante con ese email"

// CreateEstudianteInput holds the fields of a new estudiante.
type CreateEstudianteInput struct {
	NombreCompleto string
	Email          string
	Codigo         string
	NrcID          *uint
	EquipoID       *uint
}

// UpdateEstudianteInput holds a partial estudiante update.
type UpdateEstudianteInput struct {
	NombreCompleto *string
	Email          *string
	Codigo         *string
	NrcID          *uint
	EquipoID       *uint
}

// EstudianteFilter narrows ListEstudiantes. Zero values match everything.
type EstudianteFilter struct {
	NrcID    uint
	EquipoID uint
}

// ListEstudiantes returns active estudiantes matching the filter.
func (s *CatalogService) ListEstudiantes(ctx context.Context, f EstudianteFilter) ([]models.Estudiante, error) {
	q := s.db.WithContext(ctx).Where("deleted = ?", false)
	if f.NrcID != 0 {
		q = q.Where("nrc_id = ?", f.NrcID)
	}
	if f.EquipoID != 0 {
		q = q.Where("equipo_id = ?", f.EquipoID)
	}

	var students []models.Estudiante
	if err := q.Order("nombre_completo").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// GetEstudiante returns an active estudiante by id.
func (s *CatalogService) GetEstudiante(ctx context.Context, id uint) (*models.Estudiante, error) {
	var st models.Estudiante
	if err := findActive(s.db.WithContext(ctx), &st, id); err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateEstudiante creates an estudiante, optionally enrolled in an NRC and
// placed on a team with a free slot.
func (s *CatalogService) CreateEstudiante(ctx context.Context, in CreateEstudianteInput, userID uint) (*models.Estudiante, error) {
	st := models.Estudiante{
		NombreCompleto: in.NombreCompleto,
		Email:          strings.ToLower(in.Email),
		Codigo:         in.Codigo,
		NrcID:          in.NrcID,
		EquipoID:       in.EquipoID,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Estudiante{}, "email", st.Email, 0, msgEstudianteExists); err != nil {
			return err
		}
		if in.NrcID != nil {
			if err := requireRef(tx, &models.Nrc{}, *in.NrcID, "nrc_id"); err != nil {
				return err
			}
		}
		if in.EquipoID != nil {
			if err := requireTeamSlot(tx, *in.EquipoID); err != nil {
				return err
			}
		}
		if err := tx.Create(&st).Error; err != nil {
			return writeError(err, msgEstudianteExists)
		}
		return audit.LogAction(tx, userID, audit.ActionCreateStudent, fmt.Sprintf("estudiante:%d", st.ID), map[string]interface{}{
			"email": st.Email,
		})
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateEstudiante applies a partial update. Moving a student to another team
// requires a free slot on the destination.
func (s *CatalogService) UpdateEstudiante(ctx context.Context, id uint, in UpdateEstudianteInput, userID uint) (*models.Estudiante, error) {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var st models.Estudiante
		if err := findActive(tx, &st, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.NombreCompleto != nil {
			updates["nombre_completo"] = *in.NombreCompleto
		}
		if in.Email != nil {
			email := strings.ToLower(*in.Email)
			if email != st.Email {
				if err := ensureUnique(tx, &models.Estudiante{}, "email", email, id, msgEstudianteExists); err != nil {
					return err
				}
				updates["email"] = email
			}
		}
		if in.Codigo != nil {
			updates["codigo"] = *in.Codigo
		}
		if in.NrcID != nil {
			if err := requireRef(tx, &models.Nrc{}, *in.NrcID, "nrc_id"); err != nil {
				return err
			}
			updates["nrc_id"] = *in.NrcID
		}
		if in.EquipoID != nil && (st.EquipoID == nil || *st.EquipoID != *in.EquipoID) {
			if err := requireTeamSlot(tx, *in.EquipoID); err != nil {
				return err
			}
			updates["equipo_id"] = *in.EquipoID
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Estudiante{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return writeError(err, msgEstudianteExists)
		}
		return audit.LogAction(tx, userID, audit.ActionUpdateStudent, fmt.Sprintf("estudiante:%d", id), updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEstudiante(ctx, id)
}

// DeleteEstudiante soft deletes an estudiante and removes it from its team.
func (s *CatalogService) DeleteEstudiante(ctx context.Context, id, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var st models.Estudiante
		if err := findActive(tx, &st, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Estudiante{}).Where("id = ?", id).Update("equipo_id", nil).Error; err != nil {
			return err
		}
		return softDelete(tx, &models.Estudiante{}, id, userID, audit.ActionDeleteStudent, "estudiante")
	})
}

// requireTeamSlot checks that the team exists and has room for one more
// member.
func requireTeamSlot(tx *gorm.DB, teamID uint) error {
	var team models.Equipo
	if err := requireRef(tx, &team, teamID, "equipo_id"); err != nil {
		return err
	}
	var game models.Videojuego
	if err := findActive(tx, &game, team.VideojuegoID); err != nil {
		return err
	}

	var members int64
	if err := tx.Model(&models.Estudiante{}).Where("equipo_id = ? AND deleted = ?", teamID, false).Count(&members).Error; err != nil {
		return err
	}
	if members >= int64(game.MaxJugadores) {
		return capacityError(game)
	}
	return nil
}
