package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ListEquipos godoc
// @Summary List equipos
// @Tags equipos
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Equipo
// @Router /equipos [get]
func (h *CatalogHandler) ListEquipos(c *gin.Context) {
	teams, err := h.svc.ListEquipos(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetEquipo godoc
// @Summary Get an equipo with its members
// @Tags equipos
// @Security BearerAuth
// @Produce json
// @Param id path int true "Equipo ID"
// @Success 200 {object} models.Equipo
// @Failure 404 {object} ErrorResponse
// @Router /equipos/{id} [get]
func (h *CatalogHandler) GetEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	team, err := h.svc.GetEquipo(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// CreateEquipo godoc
// @Summary Create an equipo
// @Description Members may not exceed the game's max_jugadores
// @Tags equipos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param equipo body CreateEquipoRequest true "Equipo"
// @Success 201 {object} models.Equipo
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /equipos [post]
func (h *CatalogHandler) CreateEquipo(c *gin.Context) {
	var req CreateEquipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	team, err := h.svc.CreateEquipo(c.Request.Context(), service.CreateEquipoInput{
		Nombre:        req.Nombre,
		VideojuegoID:  req.VideojuegoID,
		NrcID:         req.NrcID,
		IntegranteIDs: req.Integrantes,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// UpdateEquipo godoc
// @Summary Update an equipo
// @Description A present integrantes list replaces the current members
// @Tags equipos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Equipo ID"
// @Param equipo body UpdateEquipoRequest true "Fields to change"
// @Success 200 {object} models.Equipo
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /equipos/{id} [patch]
func (h *CatalogHandler) UpdateEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEquipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	team, err := h.svc.UpdateEquipo(c.Request.Context(), id, service.UpdateEquipoInput{
		Nombre:        req.Nombre,
		VideojuegoID:  req.VideojuegoID,
		NrcID:         req.NrcID,
		IntegranteIDs: req.Integrantes,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// DeleteEquipo godoc
// @Summary Delete an equipo
// @Tags equipos
// @Security BearerAuth
// @Param id path int true "Equipo ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /equipos/{id} [delete]
func (h *CatalogHandler) DeleteEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteEquipo(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateEquipoRequest is the body of POST /equipos
type CreateEquipoRequest struct {
	Nombre       string `json:"nombre" binding:"required,max=120"`
	VideojuegoID uint   `json:"videojuego_id" binding:"required"`
	NrcID        *uint  `json:"nrc_id" binding:"omitnil,gt=0"`
	Integrantes  []uint `json:"integrantes" binding:"dive,gt=0"`
}

// UpdateEquipoRequest is the body of PATCH /equipos/{id}
type UpdateEquipoRequest struct {
	Nombre       *string `json:"nombre" binding:"omitnil,min=1,max=120"`
	VideojuegoID *uint   `json:"videojuego_id" binding:"omitnil,gt=0"`
	NrcID        *uint   `json:"nrc_id" binding:"omitnil,gt=0"`
	Integrantes  *[]uint `json:"integrantes" binding:"omitnil,dive,gt=0"`
}
