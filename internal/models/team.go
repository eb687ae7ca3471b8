package models

import (
	"time"
)

// Equipo is a team of students registered for one game.
type Equipo struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	Nombre       string       `gorm:"uniqueIndex;not null" json:"nombre"`
	VideojuegoID uint         `gorm:"not null;index" json:"videojuego_id"`
	Videojuego   *Videojuego  `gorm:"foreignKey:VideojuegoID" json:"videojuego,omitempty"`
	NrcID        *uint        `gorm:"index" json:"nrc_id,omitempty"`
	Integrantes  []Estudiante `gorm:"foreignKey:EquipoID" json:"integrantes,omitempty"`
	Deleted      bool         `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName overrides the table name used by Equipo
func (Equipo) TableName() string { return "equipos" }
