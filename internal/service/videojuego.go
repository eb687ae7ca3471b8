package service

import (
	"context"
	"fmt"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

const msgVideojuegoExists = "Ya existe un videojuego con ese nombre"

// CreateVideojuegoInput holds the fields of a new videojuego.
type CreateVideojuegoInput struct {
	Nombre       string
	Descripcion  string
	MaxJugadores int
}

// UpdateVideojuegoInput holds a partial videojuego update.
type UpdateVideojuegoInput struct {
	Nombre       *string
	Descripcion  *string
	MaxJugadores *int
}

// ListVideojuegos returns all active videojuegos.
func (s *CatalogService) ListVideojuegos(ctx context.Context) ([]models.Videojuego, error) {
	var games []models.Videojuego
	if err := s.db.WithContext(ctx).Where("deleted = ?", false).Order("nombre").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// GetVideojuego returns an active videojuego by id.
func (s *CatalogService) GetVideojuego(ctx context.Context, id uint) (*models.Videojuego, error) {
	var g models.Videojuego
	if err := findActive(s.db.WithContext(ctx), &g, id); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateVideojuego creates a videojuego.
func (s *CatalogService) CreateVideojuego(ctx context.Context, in CreateVideojuegoInput, userID uint) (*models.Videojuego, error) {
	if in.MaxJugadores < 1 {
		return nil, &ValidationError{Message: "max_jugadores debe ser al menos 1"}
	}
	g := models.Videojuego{
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		MaxJugadores: in.MaxJugadores,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Videojuego{}, "nombre", in.Nombre, 0, msgVideojuegoExists); err != nil {
			return err
		}
		if err := tx.Create(&g).Error; err != nil {
			return writeError(err, msgVideojuegoExists)
		}
		return audit.LogAction(tx, userID, audit.ActionCreateGame, fmt.Sprintf("videojuego:%d", g.ID), map[string]interface{}{
			"nombre":        g.Nombre,
			"max_jugadores": g.MaxJugadores,
		})
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateVideojuego applies a partial update. Lowering max_jugadores below the
// size of an existing active team is rejected.
func (s *CatalogService) UpdateVideojuego(ctx context.Context, id uint, in UpdateVideojuegoInput, userID uint) (*models.Videojuego, error) {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var g models.Videojuego
		if err := findActive(tx, &g, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Nombre != nil && *in.Nombre != g.Nombre {
			if err := ensureUnique(tx, &models.Videojuego{}, "nombre", *in.Nombre, id, msgVideojuegoExists); err != nil {
				return err
			}
			updates["nombre"] = *in.Nombre
		}
		if in.Descripcion != nil {
			updates["descripcion"] = *in.Descripcion
		}
		if in.MaxJugadores != nil {
			if *in.MaxJugadores < 1 {
				return &ValidationError{Message: "max_jugadores debe ser al menos 1"}
			}
			largest, err := largestTeam(tx, id)
			if err != nil {
				return err
			}
			if largest > int64(*in.MaxJugadores) {
				return &ValidationError{Message: fmt.Sprintf("Hay equipos con %d integrantes", largest)}
			}
			updates["max_jugadores"] = *in.MaxJugadores
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Videojuego{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return writeError(err, msgVideojuegoExists)
		}
		return audit.LogAction(tx, userID, audit.ActionUpdateGame, fmt.Sprintf("videojuego:%d", id), updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetVideojuego(ctx, id)
}

// DeleteVideojuego soft deletes a videojuego that no active team plays.
func (s *CatalogService) DeleteVideojuego(ctx context.Context, id, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var g models.Videojuego
		if err := findActive(tx, &g, id); err != nil {
			return err
		}

		var teams int64
		if err := tx.Model(&models.Equipo{}).Where("videojuego_id = ? AND deleted = ?", id, false).Count(&teams).Error; err != nil {
			return err
		}
		if teams > 0 {
			return &ConflictError{Message: "El videojuego tiene equipos activos"}
		}

		return softDelete(tx, &models.Videojuego{}, id, userID, audit.ActionDeleteGame, "videojuego")
	})
}

// largestTeam returns the member count of the biggest active team playing
// the given videojuego.
func largestTeam(tx *gorm.DB, videojuegoID uint) (int64, error) {
	var counts []int64
	err := tx.Model(&models.Estudiante{}).
		Select("COUNT(*)").
		Joins("JOIN equipos ON equipos.id = estudiantes.equipo_id").
		Where("equipos.videojuego_id = ? AND equipos.deleted = ? AND estudiantes.deleted = ?", videojuegoID, false, false).
		Group("estudiantes.equipo_id").
		Pluck("COUNT(*)", &counts).Error
	if err != nil {
		return 0, err
	}
	var largest int64
	for _, n := range counts {
		if n > largest {
			largest = n
		}
	}
	return largest, nil
}
