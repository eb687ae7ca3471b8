package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// AuthHandler serves login, staff registration and the caller's profile
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary User login
// @Description Authenticate a staff member and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register godoc
// @Summary Register a staff member
// @Description Create a jurado or profesor account. Admin only.
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param staff body RegisterStaffRequest true "Staff details"
// @Success 201 {object} service.RegisteredStaff
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	staff, err := h.svc.RegisterStaff(c.Request.Context(), service.RegisterStaffInput{
		NombreCompleto: req.NombreCompleto,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		RegisteredBy:   middleware.CallerID(c),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user with its current roles
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.PublicUser
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.ValidateUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterStaffRequest is the body of POST /auth/register
type RegisterStaffRequest struct {
	NombreCompleto string `json:"nombre_completo" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Role           string `json:"role" binding:"required,oneof=jurado profesor"`
}
