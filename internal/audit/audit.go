package audit

import (
	"encoding/json"
	"time"

	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

// LogAction records an audit log entry. Pass a transaction handle to make the
// entry part of the audited write.
func LogAction(db *gorm.DB, userID uint, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	log := models.AuditLog{
		UsuarioID: userID,
		Accion:    action,
		Recurso:   resource,
		Detalles:  string(detailsJSON),
		Timestamp: time.Now(),
	}

	return db.Create(&log).Error
}

// Audit actions constants
const (
	ActionRegisterStaff   = "register_staff"
	ActionCreateAdmin     = "create_admin"
	ActionCreateMateria   = "create_materia"
	ActionUpdateMateria   = "update_materia"
	ActionDeleteMateria   = "delete_materia"
	ActionCreateNrc       = "create_nrc"
	ActionUpdateNrc       = "update_nrc"
	ActionDeleteNrc       = "delete_nrc"
	ActionCreateGame      = "create_videojuego"
	ActionUpdateGame      = "update_videojuego"
	ActionDeleteGame      = "delete_videojuego"
	ActionCreateTeam      = "create_equipo"
	ActionUpdateTeam      = "update_equipo"
	ActionDeleteTeam      = "delete_equipo"
	ActionCreateStudent   = "create_estudiante"
	ActionUpdateStudent   = "update_estudiante"
	ActionDeleteStudent   = "delete_estudiante"
	ActionSendInvitations = "send_team_invitations"
)
