// Package store is the persistence boundary for staff credentials: users,
// their active roles, role assignments and jury records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no non-deleted user matches a lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when a role reference row is missing or deleted
	ErrRoleNotFound = errors.New("role not found")
)

// UserWithRoles is a user row plus the names of its active roles
type UserWithRoles struct {
	models.User
	Roles []string
}

// CredentialStore reads and writes staff credentials through gorm
type CredentialStore struct {
	db *gorm.DB
}

// New creates a CredentialStore
func New(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Transaction runs fn against a store bound to a single database
// transaction. The transaction commits only if fn returns nil.
func (s *CredentialStore) Transaction(ctx context.Context, fn func(tx *CredentialStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CredentialStore{db: tx})
	})
}

// DB exposes the underlying handle so callers can enlist other writes
// (audit entries) in the same transaction.
func (s *CredentialStore) DB() *gorm.DB {
	return s.db
}

// NormalizeEmail is the form in which user emails are stored and compared
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindActiveUserByEmail returns the non-deleted user with email and its
// active role names.
func (s *CredentialStore) FindActiveUserByEmail(ctx context.Context, email string) (*UserWithRoles, error) {
	return s.findActiveUser(ctx, "email = ? AND deleted = ?", NormalizeEmail(email), false)
}

// FindActiveUserByID returns the non-deleted user with id and its active
// role names.
func (s *CredentialStore) FindActiveUserByID(ctx context.Context, id uint) (*UserWithRoles, error) {
	return s.findActiveUser(ctx, "id = ? AND deleted = ?", id, false)
}

func (s *CredentialStore) findActiveUser(ctx context.Context, query string, args ...interface{}) (*UserWithRoles, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := s.ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserWithRoles{User: user, Roles: roles}, nil
}

// ActiveRoleNames returns the names of the user's non-deleted role
// assignments whose role is also non-deleted, sorted by name.
func (s *CredentialStore) ActiveRoleNames(ctx context.Context, userID uint) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Joins("JOIN roles ON roles.id = usuario_roles.rol_id").
		Where("usuario_roles.usuario_id = ? AND usuario_roles.deleted = ? AND roles.deleted = ?", userID, false, false).
		Order("roles.nombre").
		Distinct().
		Pluck("roles.nombre", &names).Error
	if err != nil {
		return nil, fmt.Errorf("load roles for user %d: %w", userID, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// EmailExists reports whether any user row, deleted or not, holds email.
func (s *CredentialStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// CountUsers returns the number of user rows, deleted or not
func (s *CredentialStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CreateUser inserts a user row with its email normalized and fills in its id
func (s *CredentialStore) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindActiveRole returns the non-deleted role reference row named name
func (s *CredentialStore) FindActiveRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).Where("nombre = ? AND deleted = ?", name, false).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("find role %s: %w", name, err)
	}
	return &role, nil
}

// CreateRoleAssignment links userID to roleID
func (s *CredentialStore) CreateRoleAssignment(ctx context.Context, userID, roleID uint) error {
	assignment := models.RoleAssignment{UsuarioID: userID, RolID: roleID}
	if err := s.db.WithContext(ctx).Omit("Rol").Create(&assignment).Error; err != nil {
		return fmt.Errorf("create role assignment: %w", err)
	}
	return nil
}

// CreateJuryRecord inserts the jury extension of a user
func (s *CredentialStore) CreateJuryRecord(ctx context.Context, record *models.JuryRecord) error {
	if err := s.db.WithContext(ctx).Omit("Usuario").Create(record).Error; err != nil {
		return fmt.Errorf("create jury record: %w", err)
	}
	return nil
}

// FindJuryRecord returns the jury extension of userID
func (s *CredentialStore) FindJuryRecord(ctx context.Context, userID uint) (*models.JuryRecord, error) {
	var record models.JuryRecord
	if err := s.db.WithContext(ctx).Where("usuario_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find jury record: %w", err)
	}
	return &record, nil
}
