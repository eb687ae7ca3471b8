package models

import (
	"time"
)

// Materia is a course offered by the university.
type Materia struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Codigo    string    `gorm:"uniqueIndex;not null" json:"codigo"`
	Nombre    string    `gorm:"not null" json:"nombre"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Materia
func (Materia) TableName() string { return "materias" }

// Nrc is a section of a Materia in a given academic period, optionally
// taught by a profesor.
type Nrc struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Codigo     string    `gorm:"uniqueIndex;not null" json:"codigo"`
	Periodo    string    `json:"periodo"`
	MateriaID  uint      `gorm:"not null;index" json:"materia_id"`
	Materia    *Materia  `gorm:"foreignKey:MateriaID" json:"materia,omitempty"`
	ProfesorID *uint     `gorm:"index" json:"profesor_id,omitempty"`
	Deleted    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Nrc
func (Nrc) TableName() string { return "nrcs" }
