package models

import (
	"time"
)

// Videojuego is a game teams compete in.
type Videojuego struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Nombre       string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Descripcion  string    `gorm:"type:text" json:"descripcion"`
	MaxJugadores int       `gorm:"not null;default:1" json:"max_jugadores"`
	Deleted      bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Videojuego
func (Videojuego) TableName() string { return "videojuegos" }
