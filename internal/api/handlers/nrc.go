package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ListNrcs godoc
// @Summary List NRCs
// @Tags nrc
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Nrc
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /nrc [get]
func (h *CatalogHandler) ListNrcs(c *gin.Context) {
	nrcs, err := h.svc.ListNrcs(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nrcs)
}

// GetNrc godoc
// @Summary Get an NRC
// @Tags nrc
// @Security BearerAuth
// @Produce json
// @Param id path int true "NRC ID"
// @Success 200 {object} models.Nrc
// @Failure 404 {object} ErrorResponse
// @Router /nrc/{id} [get]
func (h *CatalogHandler) GetNrc(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.GetNrc(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// CreateNrc godoc
// @Summary Create an NRC
// @Tags nrc
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param nrc body CreateNrcRequest true "NRC"
// @Success 201 {object} models.Nrc
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /nrc [post]
func (h *CatalogHandler) CreateNrc(c *gin.Context) {
	var req CreateNrcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	n, err := h.svc.CreateNrc(c.Request.Context(), service.CreateNrcInput{
		Codigo:     req.Codigo,
		Periodo:    req.Periodo,
		MateriaID:  req.MateriaID,
		ProfesorID: req.ProfesorID,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// UpdateNrc godoc
// @Summary Update an NRC
// @Tags nrc
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "NRC ID"
// @Param nrc body UpdateNrcRequest true "Fields to change"
// @Success 200 {object} models.Nrc
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /nrc/{id} [patch]
func (h *CatalogHandler) UpdateNrc(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateNrcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	n, err := h.svc.UpdateNrc(c.Request.Context(), id, service.UpdateNrcInput{
		Codigo:     req.Codigo,
		Periodo:    req.Periodo,
		MateriaID:  req.MateriaID,
		ProfesorID: req.ProfesorID,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DeleteNrc godoc
// @Summary Delete an NRC
// @Tags nrc
// @Security BearerAuth
// @Param id path int true "NRC ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /nrc/{id} [delete]
func (h *CatalogHandler) DeleteNrc(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteNrc(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateNrcRequest is the body of POST /nrc
type CreateNrcRequest struct {
	Codigo     string `json:"codigo" binding:"required,max=32"`
	Periodo    string `json:"periodo" binding:"max=16"`
	MateriaID  uint   `json:"materia_id" binding:"required"`
	ProfesorID *uint  `json:"profesor_id" binding:"omitnil,gt=0"`
}

// UpdateNrcRequest is the body of PATCH /nrc/{id}
type UpdateNrcRequest struct {
	Codigo     *string `json:"codigo" binding:"omitnil,min=1,max=32"`
	Periodo    *string `json:"periodo" binding:"omitnil,max=16"`
	MateriaID  *uint   `json:"materia_id" binding:"omitnil,gt=0"`
	ProfesorID *uint   `json:"profesor_id" binding:"omitnil,gt=0"`
}
