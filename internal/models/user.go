package models

import (
	"time"
)

// User is a staff account (admin, jurado, profesor).
type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	NombreCompleto string    `gorm:"not null" json:"nombre_completo"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashContrasena string    `gorm:"column:hash_contrasena;not null" json:"-"`
	Deleted        bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name used by User
func (User) TableName() string { return "usuarios" }
