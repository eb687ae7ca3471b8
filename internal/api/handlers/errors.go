package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// ErrorResponse documents the error envelope in the API docs
type ErrorResponse = respond.ErrorResponse

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var cerr *service.ConflictError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Recurso no encontrado")
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &cerr):
		respond.Error(c, http.StatusConflict, cerr.Message)
	default:
		// ErrRoleNotSeeded lands here too; details stay in the log
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respond.Error(c, http.StatusBadRequest, "El id no es válido")
		return 0, false
	}
	return uint(id), true
}
