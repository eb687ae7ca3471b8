package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/service"
)

// InvitationHandler serves the team invitation mail endpoints
type InvitationHandler struct {
	svc *service.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(svc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// SendTeamInvitation godoc
// @Summary Send team invitations
// @Description Queue one invitation email per recipient. token[i] is sent to emails[i].
// @Tags email
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param invitation body TeamInvitationRequest true "Recipients and tokens"
// @Success 202 {object} TeamInvitationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /email/team-invitation [post]
func (h *InvitationHandler) SendTeamInvitation(c *gin.Context) {
	var req TeamInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	jobs, err := h.svc.SendTeamInvitations(c.Request.Context(), service.TeamInvitationInput{
		Emails:   req.Emails,
		Tokens:   req.Token,
		TeamName: req.TeamName,
		SentBy:   middleware.CallerID(c),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, TeamInvitationResponse{Jobs: jobs})
}

// GetJob godoc
// @Summary Get a mail job
// @Tags email
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.MailJob
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /email/jobs/{id} [get]
func (h *InvitationHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "El id no es válido")
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), id.String())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// TeamInvitationRequest is the body of POST /email/team-invitation
type TeamInvitationRequest struct {
	Emails   []string `json:"emails" binding:"required,min=1,dive,required,email,institutional_email"`
	Token    []string `json:"token" binding:"required,min=1,dive,required"`
	TeamName string   `json:"teamName" binding:"required"`
}

// TeamInvitationResponse lists the queued jobs
type TeamInvitationResponse struct {
	Jobs []models.MailJob `json:"jobs"`
}
