package models

import (
	"time"
)

// AuditLog represents a record of staff actions
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UsuarioID uint      `gorm:"index" json:"usuario_id"`
	Accion    string    `gorm:"not null" json:"accion"`   // e.g., "register_staff", "delete_team"
	Recurso   string    `gorm:"not null" json:"recurso"`  // e.g., "usuario:12", "equipo:4"
	Detalles  string    `gorm:"type:text" json:"detalles"` // Additional context in JSON
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
