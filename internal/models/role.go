package models

import (
	"time"
)

// Role names seeded at migration time.
const (
	RoleAdmin    = "admin"
	RoleJurado   = "jurado"
	RoleProfesor = "profesor"
)

// StaffRoles are the roles that can be granted through staff registration.
var StaffRoles = []string{RoleJurado, RoleProfesor}

// Role is static reference data naming a permission label.
type Role struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Nombre      string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Deleted     bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Role
func (Role) TableName() string { return "roles" }

// RoleAssignment links a user to a role. Removing a role from a user sets
// Deleted instead of dropping the row.
type RoleAssignment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UsuarioID uint      `gorm:"not null;index" json:"usuario_id"`
	RolID     uint      `gorm:"not null;index" json:"rol_id"`
	Rol       Role      `gorm:"foreignKey:RolID" json:"rol"`
	Deleted   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name used by RoleAssignment
func (RoleAssignment) TableName() string { return "usuario_roles" }
