package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ListEstudiantes godoc
// @Summary List estudiantes
// @Tags estudiantes
// @Security BearerAuth
// @Produce json
// @Param nrc_id query int false "Only students of this NRC"
// @Param equipo_id query int false "Only members of this equipo"
// @Success 200 {array} models.Estudiante
// @Failure 400 {object} ErrorResponse
// @Router /estudiantes [get]
func (h *CatalogHandler) ListEstudiantes(c *gin.Context) {
	var filter service.EstudianteFilter
	for param, dst := range map[string]*uint{"nrc_id": &filter.NrcID, "equipo_id": &filter.EquipoID} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, param+" no es válido")
			return
		}
		*dst = uint(v)
	}

	students, err := h.svc.ListEstudiantes(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetEstudiante godoc
// @Summary Get an estudiante
// @Tags estudiantes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Estudiante ID"
// @Success 200 {object} models.Estudiante
// @Failure 404 {object} ErrorResponse
// @Router /estudiantes/{id} [get]
func (h *CatalogHandler) GetEstudiante(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	st, err := h.svc.GetEstudiante(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreateEstudiante godoc
// @Summary Create an estudiante
// @Tags estudiantes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param estudiante body CreateEstudianteRequest true "Estudiante"
// @Success 201 {object} models.Estudiante
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /estudiantes [post]
func (h *CatalogHandler) CreateEstudiante(c *gin.Context) {
	var req CreateEstudianteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	st, err := h.svc.CreateEstudiante(c.Request.Context(), service.CreateEstudianteInput{
		NombreCompleto: req.NombreCompleto,
		Email:          req.Email,
		Codigo:         req.Codigo,
		NrcID:          req.NrcID,
		EquipoID:       req.EquipoID,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// UpdateEstudiante godoc
// @Summary Update an estudiante
// @Tags estudiantes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Estudiante ID"
// @Param estudiante body UpdateEstudianteRequest true "Fields to change"
// @Success 200 {object} models.Estudiante
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /estudiantes/{id} [patch]
func (h *CatalogHandler) UpdateEstudiante(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEstudianteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	st, err := h.svc.UpdateEstudiante(c.Request.Context(), id, service.UpdateEstudianteInput{
		NombreCompleto: req.NombreCompleto,
		Email:          req.Email,
		Codigo:         req.Codigo,
		NrcID:          req.NrcID,
		EquipoID:       req.EquipoID,
	}, middleware.CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DeleteEstudiante godoc
// @Summary Delete an estudiante
// @Tags estudiantes
// @Security BearerAuth
// @Param id path int true "Estudiante ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /estudiantes/{id} [delete]
func (h *CatalogHandler) DeleteEstudiante(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteEstudiante(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateEstudianteRequest is the body of POST /estudiantes
type CreateEstudianteRequest struct {
	NombreCompleto string `json:"nombre_completo" binding:"required,max=200"`
	Email          string `json:"email" binding:"required,email,institutional_email"`
	Codigo         string `json:"codigo" binding:"max=20"`
	NrcID          *uint  `json:"nrc_id" binding:"omitnil,gt=0"`
	EquipoID       *uint  `json:"equipo_id" binding:"omitnil,gt=0"`
}

// UpdateEstudianteRequest is the body of PATCH /estudiantes/{id}
type UpdateEstudianteRequest struct {
	NombreCompleto *string `json:"nombre_completo" binding:"omitnil,min=1,max=200"`
	Email          *string `json:"email" binding:"omitnil,email,institutional_email"`
	Codigo         *string `json:"codigo" binding:"omitnil,max=20"`
	NrcID          *uint   `json:"nrc_id" binding:"omitnil,gt=0"`
	EquipoID       *uint   `json:"equipo_id" binding:"omitnil,gt=0"`
}
