package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ListMaterias godoc
// @Summary List materias
// @Tags materias
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Materia
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /materias [get]
func (h *CatalogHandler) ListMaterias(c *gin.Context) {
	materias, err := h.svc.ListMaterias(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, materias)
}

// GetMateria godoc
// @Summary Get a materia
// @Tags materias
// @Security BearerAuth
// @Produce json
// @Param id path int true "Materia ID"
// @Success 200 {object} models.Materia
// @Failure 404 {object} ErrorResponse
// @Router /materias/{id} [get]
func (h *CatalogHandler) GetMateria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMateria(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMateria godoc
// @Summary Create a materia
// @Tags materias
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param materia body CreateMateriaRequest true "Materia"
// @Success 201 {object} models.Materia
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /materias [post]
func (h *CatalogHandler) CreateMateria(c *gin.Context) {
	var req CreateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	m, err := h.svc.CreateMateria(c.Request.Context(), service.CreateMateriaInput{
		Codigo: req.Codigo,
		Nombre: req.Nombre,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMateria godoc
// @Summary Update a materia
// @Tags materias
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Materia ID"
// @Param materia body UpdateMateriaRequest true "Fields to change"
// @Success 200 {object} models.Materia
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /materias/{id} [patch]
func (h *CatalogHandler) UpdateMateria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	m, err := h.svc.UpdateMateria(c.Request.Context(), id, service.UpdateMateriaInput{
		Codigo: req.Codigo,
		Nombre: req.Nombre,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMateria godoc
// @Summary Delete a materia
// @Tags materias
// @Security BearerAuth
// @Param id path int true "Materia ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /materias/{id} [delete]
func (h *CatalogHandler) DeleteMateria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMateria(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMateriaRequest is the body of POST /materias
type CreateMateriaRequest struct {
	Codigo string `json:"codigo" binding:"required,max=32"`
	Nombre string `json:"nombre" binding:"required,max=200"`
}

// UpdateMateriaRequest is the body of PATCH /materias/{id}
type UpdateMateriaRequest struct {
	Codigo *string `json:"codigo" binding:"omitnil,min=1,max=32"`
	Nombre *string `json:"nombre" binding:"omitnil,min=1,max=200"`
}
