package models

import (
	"time"
)

// JuryRecord extends a User that registered with the jurado role.
type JuryRecord struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	UsuarioID         uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	Usuario           User      `gorm:"foreignKey:UsuarioID" json:"-"`
	TokenConfirmacion string    `gorm:"uniqueIndex;not null" json:"-"`
	UltimaConexion    time.Time `json:"ultima_conexion"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName overrides the table name used by JuryRecord
func (JuryRecord) TableName() string { return "jurados" }
