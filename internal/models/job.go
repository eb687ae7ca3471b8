package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailJobType represents the kind of message a job delivers
type MailJobType string

const (
	MailJobTeamInvitation MailJobType = "team_invitation"
)

// MailJobStatus represents the state of a job
type MailJobStatus string

const (
	MailJobPending   MailJobStatus = "pending"
	MailJobRunning   MailJobStatus = "running"
	MailJobCompleted MailJobStatus = "completed"
	MailJobFailed    MailJobStatus = "failed"
)

// MailJob is an outbound email delivered by the worker
type MailJob struct {
	ID           uuid.UUID     `gorm:"type:text;primary_key" json:"id"`
	Type         MailJobType   `gorm:"not null" json:"type"`
	Status       MailJobStatus `gorm:"not null;default:'pending'" json:"status"`
	Destinatario string        `gorm:"not null;index" json:"destinatario"`
	Asunto       string        `gorm:"not null" json:"asunto"`
	Cuerpo       string        `gorm:"type:text" json:"-"`
	Error        string        `gorm:"type:text" json:"error,omitempty"`
	Attempts     int           `gorm:"not null;default:0" json:"attempts"`
	CreatedAt    time.Time     `json:"created_at"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (j *MailJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
