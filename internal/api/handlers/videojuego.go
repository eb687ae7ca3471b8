package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ListVideojuegos godoc
// @Summary List videojuegos
// @Tags videojuegos
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Videojuego
// @Router /videojuegos [get]
func (h *CatalogHandler) ListVideojuegos(c *gin.Context) {
	games, err := h.svc.ListVideojuegos(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetVideojuego godoc
// @Summary Get a videojuego
// @Tags videojuegos
// @Security BearerAuth
// @Produce json
// @Param id path int true "Videojuego ID"
// @Success 200 {object} models.Videojuego
// @Failure 404 {object} ErrorResponse
// @Router /videojuegos/{id} [get]
func (h *CatalogHandler) GetVideojuego(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.svc.GetVideojuego(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// CreateVideojuego godoc
// @Summary Create a videojuego
// @Tags videojuegos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param videojuego body CreateVideojuegoRequest true "Videojuego"
// @Success 201 {object} models.Videojuego
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /videojuegos [post]
func (h *CatalogHandler) CreateVideojuego(c *gin.Context) {
	var req CreateVideojuegoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	g, err := h.svc.CreateVideojuego(c.Request.Context(), service.CreateVideojuegoInput{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		MaxJugadores: req.MaxJugadores,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// UpdateVideojuego godoc
// @Summary Update a videojuego
// @Tags videojuegos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Videojuego ID"
// @Param videojuego body UpdateVideojuegoRequest true "Fields to change"
// @Success 200 {object} models.Videojuego
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /videojuegos/{id} [patch]
func (h *CatalogHandler) UpdateVideojuego(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateVideojuegoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	g, err := h.svc.UpdateVideojuego(c.Request.Context(), id, service.UpdateVideojuegoInput{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		MaxJugadores: req.MaxJugadores,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteVideojuego godoc
// @Summary Delete a videojuego
// @Tags videojuegos
// @Security BearerAuth
// @Param id path int true "Videojuego ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /videojuegos/{id} [delete]
func (h *CatalogHandler) DeleteVideojuego(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVideojuego(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateVideojuegoRequest is the body of POST /videojuegos
type CreateVideojuegoRequest struct {
	Nombre       string `json:"nombre" binding:"required,max=120"`
	Descripcion  string `json:"descripcion"`
	MaxJugadores int    `json:"max_jugadores" binding:"required,gte=1"`
}

// UpdateVideojuegoRequest is the body of PATCH /videojuegos/{id}
type UpdateVideojuegoRequest struct {
	Nombre       *string `json:"nombre" binding:"omitnil,min=1,max=120"`
	Descripcion  *string `json:"descripcion"`
	MaxJugadores *int    `json:"max_jugadores" binding:"omitnil,gte=1"`
}
