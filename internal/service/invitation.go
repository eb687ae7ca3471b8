package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/queue"
	"github.com/uninorte/feria-gamer/internal/validation"
	"gorm.io/gorm"
)

// TeamInvitationInput pairs each recipient with the token it receives:
// Tokens[i] is mailed to Emails[i].
type TeamInvitationInput struct {
	Emails   []string
	Tokens   []string
	TeamName string
	SentBy   uint
}

// InvitationService turns team invitations into queued mail jobs.
type InvitationService struct {
	db    *gorm.DB
	queue queue.Queue
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(db *gorm.DB, q queue.Queue) *InvitationService {
	return &InvitationService{db: db, queue: q}
}

// SendTeamInvitations persists one mail job per recipient and enqueues them.
// Jobs are committed before enqueueing; a job that fails to enqueue stays
// pending and is picked up by the worker's recovery on the next start.
func (s *InvitationService) SendTeamInvitations(ctx context.Context, in TeamInvitationInput) ([]models.MailJob, error) {
	if len(in.Emails) == 0 {
		return nil, &ValidationError{Message: "El arreglo de correos electrónicos no puede estar vacío"}
	}
	if len(in.Tokens) != len(in.Emails) {
		return nil, &ValidationError{Message: "Debe haber un token por cada correo electrónico"}
	}
	for _, email := range in.Emails {
		if !validation.IsInstitutional(email) {
			return nil, &ValidationError{
				Message: fmt.Sprintf("%s no pertenece al dominio %s", email, validation.AllowedDomain()),
			}
		}
	}

	jobs := make([]models.MailJob, len(in.Emails))
	for i, email := range in.Emails {
		jobs[i] = models.MailJob{
			Type:         models.MailJobTeamInvitation,
			Status:       models.MailJobPending,
			Destinatario: strings.ToLower(email),
			Asunto:       fmt.Sprintf("Invitación al equipo %s - Feria Gamer", in.TeamName),
			Cuerpo:       invitationBody(in.TeamName, in.Tokens[i]),
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&jobs).Error; err != nil {
			return err
		}
		return audit.LogAction(tx, in.SentBy, audit.ActionSendInvitations, "equipo:"+in.TeamName, map[string]interface{}{
			"recipients": len(jobs),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create mail jobs: %w", err)
	}

	for _, job := range jobs {
		// The worker owns the enqueued copy
		queued := job
		if err := s.queue.Enqueue(ctx, &queued); err != nil {
			slog.Error("Failed to enqueue mail job, left pending for recovery", "job_id", job.ID, "error", err)
		}
	}

	slog.Info("Team invitations queued", "team", in.TeamName, "recipients", len(jobs), "sent_by", in.SentBy)
	return jobs, nil
}

// GetJob returns a mail job by id.
func (s *InvitationService) GetJob(ctx context.Context, id string) (*models.MailJob, error) {
	var job models.MailJob
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func invitationBody(teamName, token string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Has sido invitado a unirte al equipo %s en la Feria Gamer de la Universidad del Norte.\n\n", teamName)
	fmt.Fprintf(&b, "Tu código de invitación es: %s\n\n", token)
	b.WriteString("Si no esperabas este correo puedes ignorarlo.\n")
	return b.String()
}
