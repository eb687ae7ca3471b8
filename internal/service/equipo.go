package service

import (
	"context"
	"fmt"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

const msgEquipoExists = "Ya existe un equipo con ese nombre"

// CreateEquipoInput holds the fields of a new equipo. IntegranteIDs are the
// estudiantes joining the team.
type CreateEquipoInput struct {
	Nombre        string
	VideojuegoID  uint
	NrcID         *uint
	IntegranteIDs []uint
}

// UpdateEquipoInput holds a partial equipo update. A non-nil IntegranteIDs
// replaces the whole member list.
type UpdateEquipoInput struct {
	Nombre        *string
	VideojuegoID  *uint
	NrcID         *uint
	IntegranteIDs *[]uint
}

func preloadEquipo(db *gorm.DB) *gorm.DB {
	return db.Preload("Videojuego").Preload("Integrantes", "deleted = ?", false)
}

// ListEquipos returns all active equipos with their game and members.
func (s *CatalogService) ListEquipos(ctx context.Context) ([]models.Equipo, error) {
	var teams []models.Equipo
	err := preloadEquipo(s.db.WithContext(ctx)).
		Where("deleted = ?", false).
		Order("nombre").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// GetEquipo returns an active equipo by id.
func (s *CatalogService) GetEquipo(ctx context.Context, id uint) (*models.Equipo, error) {
	var team models.Equipo
	if err := findActive(preloadEquipo(s.db.WithContext(ctx)), &team, id); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateEquipo creates a team and assigns its members. The member count may
// not exceed the game's max_jugadores and a student can only belong to one
// active team.
func (s *CatalogService) CreateEquipo(ctx context.Context, in CreateEquipoInput, userID uint) (*models.Equipo, error) {
	team := models.Equipo{
		Nombre:       in.Nombre,
		VideojuegoID: in.VideojuegoID,
		NrcID:        in.NrcID,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Equipo{}, "nombre", in.Nombre, 0, msgEquipoExists); err != nil {
			return err
		}

		var game models.Videojuego
		if err := requireRef(tx, &game, in.VideojuegoID, "videojuego_id"); err != nil {
			return err
		}
		if in.NrcID != nil {
			if err := requireRef(tx, &models.Nrc{}, *in.NrcID, "nrc_id"); err != nil {
				return err
			}
		}

		members, err := dedupe(in.IntegranteIDs)
		if err != nil {
			return err
		}
		if len(members) > game.MaxJugadores {
			return capacityError(game)
		}

		if err := tx.Omit("Videojuego", "Integrantes").Create(&team).Error; err != nil {
			return writeError(err, msgEquipoExists)
		}
		if err := assignMembers(tx, team.ID, members); err != nil {
			return err
		}

		return audit.LogAction(tx, userID, audit.ActionCreateTeam, fmt.Sprintf("equipo:%d", team.ID), map[string]interface{}{
			"nombre":        team.Nombre,
			"videojuego_id": team.VideojuegoID,
			"integrantes":   members,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetEquipo(ctx, team.ID)
}

// UpdateEquipo applies a partial update. Changing the game or the member
// list re-checks the capacity limit.
func (s *CatalogService) UpdateEquipo(ctx context.Context, id uint, in UpdateEquipoInput, userID uint) (*models.Equipo, error) {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var team models.Equipo
		if err := findActive(tx, &team, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Nombre != nil && *in.Nombre != team.Nombre {
			if err := ensureUnique(tx, &models.Equipo{}, "nombre", *in.Nombre, id, msgEquipoExists); err != nil {
				return err
			}
			updates["nombre"] = *in.Nombre
		}

		gameID := team.VideojuegoID
		if in.VideojuegoID != nil {
			gameID = *in.VideojuegoID
			updates["videojuego_id"] = gameID
		}
		var game models.Videojuego
		if err := requireRef(tx, &game, gameID, "videojuego_id"); err != nil {
			return err
		}

		if in.NrcID != nil {
			if err := requireRef(tx, &models.Nrc{}, *in.NrcID, "nrc_id"); err != nil {
				return err
			}
			updates["nrc_id"] = *in.NrcID
		}

		var members []uint
		if in.IntegranteIDs != nil {
			var err error
			if members, err = dedupe(*in.IntegranteIDs); err != nil {
				return err
			}
		} else if err := tx.Model(&models.Estudiante{}).
			Where("equipo_id = ? AND deleted = ?", id, false).
			Pluck("id", &members).Error; err != nil {
			return err
		}
		if len(members) > game.MaxJugadores {
			return capacityError(game)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Equipo{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return writeError(err, msgEquipoExists)
			}
		}
		if in.IntegranteIDs != nil {
			if err := releaseMembers(tx, id); err != nil {
				return err
			}
			if err := assignMembers(tx, id, members); err != nil {
				return err
			}
			updates["integrantes"] = members
		}
		if len(updates) == 0 {
			return nil
		}
		return audit.LogAction(tx, userID, audit.ActionUpdateTeam, fmt.Sprintf("equipo:%d", id), updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEquipo(ctx, id)
}

// DeleteEquipo soft deletes a team and releases its members.
func (s *CatalogService) DeleteEquipo(ctx context.Context, id, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var team models.Equipo
		if err := findActive(tx, &team, id); err != nil {
			return err
		}
		if err := releaseMembers(tx, id); err != nil {
			return err
		}
		return softDelete(tx, &models.Equipo{}, id, userID, audit.ActionDeleteTeam, "equipo")
	})
}

func capacityError(game models.Videojuego) error {
	return &ValidationError{
		Message: fmt.Sprintf("%s admite como máximo %d integrantes por equipo", game.Nombre, game.MaxJugadores),
	}
}

func dedupe(ids []uint) ([]uint, error) {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, &ValidationError{Message: fmt.Sprintf("El estudiante %d está repetido", id)}
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// assignMembers points every student at teamID. Students must be active and
// not already on another team.
func assignMembers(tx *gorm.DB, teamID uint, studentIDs []uint) error {
	for _, sid := range studentIDs {
		var st models.Estudiante
		if err := requireRef(tx, &st, sid, "estudiante"); err != nil {
			return err
		}
		if st.EquipoID != nil && *st.EquipoID != teamID {
			return &ConflictError{Message: fmt.Sprintf("El estudiante %d ya pertenece a un equipo", sid)}
		}
	}
	if len(studentIDs) == 0 {
		return nil
	}
	return tx.Model(&models.Estudiante{}).Where("id IN ?", studentIDs).Update("equipo_id", teamID).Error
}

func releaseMembers(tx *gorm.DB, teamID uint) error {
	return tx.Model(&models.Estudiante{}).Where("equipo_id = ?", teamID).Update("equipo_id", nil).Error
}
