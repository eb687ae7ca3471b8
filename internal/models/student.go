package models

import (
	"time"
)

// Estudiante is a student enrolled in an Nrc, optionally a team member.
type Estudiante struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	NombreCompleto string    `gorm:"not null" json:"nombre_completo"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Codigo         string    `gorm:"index" json:"codigo"`
	NrcID          *uint     `gorm:"index" json:"nrc_id,omitempty"`
	EquipoID       *uint     `gorm:"index" json:"equipo_id,omitempty"`
	Deleted        bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Estudiante
func (Estudiante) TableName() string { return "estudiantes" }
