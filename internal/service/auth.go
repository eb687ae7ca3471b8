package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/store"
	"gorm.io/gorm"
)

// confirmationTokenLength is the size of a jury confirmation token
const confirmationTokenLength = 32

// AuthService contains the login and staff registration logic.
type AuthService struct {
	store     *store.CredentialStore
	hasher    *auth.Hasher
	tokens    *auth.TokenIssuer
	dummyHash string
	newToken  func() (string, error)
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(st *store.CredentialStore, hasher *auth.Hasher, tokens *auth.TokenIssuer) (*AuthService, error) {
	// Compared against when the email is unknown so both failure paths pay
	// for one bcrypt comparison.
	dummyHash, err := hasher.Hash("feria-gamer-unknown-user")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		store:     st,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
		newToken:  func() (string, error) { return gonanoid.New(confirmationTokenLength) },
		now:       time.Now,
	}, nil
}

// Login verifies credentials and issues a bearer token. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.Compare(password, s.dummyHash)
			slog.Warn("Login attempt with unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(password, user.HashContrasena) {
		slog.Warn("Login attempt with incorrect password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID, "roles", user.Roles)
	return &LoginResult{
		AccessToken: token,
		User:        publicUser(user),
	}, nil
}

// RegisterStaff creates a jurado or profesor account. The user row, its role
// assignment, the jury record (for jurado) and the audit entry are written in
// one transaction.
func (s *AuthService) RegisterStaff(ctx context.Context, in RegisterStaffInput) (*RegisteredStaff, error) {
	if !slices.Contains(models.StaffRoles, in.Role) {
		return nil, &ValidationError{Message: fmt.Sprintf("El rol debe ser uno de: %s", strings.Join(models.StaffRoles, ", "))}
	}

	exists, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Message: "El email ya está registrado"}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		NombreCompleto: in.NombreCompleto,
		Email:          store.NormalizeEmail(in.Email),
		HashContrasena: hash,
	}

	err = s.store.Transaction(ctx, func(tx *store.CredentialStore) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		role, err := tx.FindActiveRole(ctx, in.Role)
		if err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				return fmt.Errorf("%w: %v", ErrRoleNotSeeded, err)
			}
			return err
		}

		if err := tx.CreateRoleAssignment(ctx, user.ID, role.ID); err != nil {
			return err
		}

		if in.Role == models.RoleJurado {
			token, err := s.newToken()
			if err != nil {
				return fmt.Errorf("generate confirmation token: %w", err)
			}
			if err := tx.CreateJuryRecord(ctx, &models.JuryRecord{
				UsuarioID:         user.ID,
				TokenConfirmacion: token,
				UltimaConexion:    s.now(),
			}); err != nil {
				return err
			}
		}

		return audit.LogAction(tx.DB().WithContext(ctx), in.RegisteredBy, audit.ActionRegisterStaff,
			fmt.Sprintf("usuario:%d", user.ID), map[string]interface{}{
				"email": user.Email,
				"role":  in.Role,
			})
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotSeeded) {
			slog.Error("Staff registration failed: role reference row missing", "role", in.Role, "error", err)
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "El email ya está registrado"}
		}
		return nil, fmt.Errorf("register staff: %w", err)
	}

	slog.Info("Staff registered", "user_id", user.ID, "role", in.Role, "registered_by", in.RegisteredBy)
	return &RegisteredStaff{
		ID:             user.ID,
		Email:          user.Email,
		NombreCompleto: user.NombreCompleto,
		Role:           in.Role,
	}, nil
}

// ValidateUser returns the current state of an active user, including roles
// granted or revoked after a token was issued.
func (s *AuthService) ValidateUser(ctx context.Context, userID uint) (*PublicUser, error) {
	user, err := s.store.FindActiveUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	pu := publicUser(user)
	return &pu, nil
}

// CurrentRoles returns the active role names of userID. It satisfies the
// role resolver used by the route guards.
func (s *AuthService) CurrentRoles(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Roles, nil
}

func publicUser(u *store.UserWithRoles) PublicUser {
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		NombreCompleto: u.NombreCompleto,
		Roles:          u.Roles,
	}
}
