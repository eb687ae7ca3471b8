package handlers

import (
	"github.com/uninorte/feria-gamer/internal/service"
)

// CatalogHandler serves the materia, NRC, videojuego, equipo and
// estudiante endpoints
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}
