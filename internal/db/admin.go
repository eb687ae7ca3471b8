package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/uninorte/feria-gamer/internal/audit"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/store"
	"gorm.io/gorm"
)

// ErrAdminExists is returned by CreateAdmin when the email is already taken
var ErrAdminExists = errors.New("a user with that email already exists")

// CreateDefaultAdmin creates an admin user if ADMIN_EMAIL and ADMIN_PASSWORD
// are set and no users exist in the database
func CreateDefaultAdmin(ctx context.Context, db *gorm.DB, hasher *auth.Hasher) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	// If no admin credentials provided, skip
	if email == "" || password == "" {
		slog.Info("No ADMIN_EMAIL or ADMIN_PASSWORD set, skipping default admin creation")
		return nil
	}
	if name == "" {
		name = "Administrador"
	}

	count, err := store.New(db).CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return nil
	}

	user, err := CreateAdmin(ctx, db, hasher, name, email, password)
	if err != nil {
		return err
	}

	slog.Info("Default admin user created", "user_id", user.ID, "email", email)
	return nil
}

// CreateAdmin creates a user holding the admin role in a single transaction
func CreateAdmin(ctx context.Context, db *gorm.DB, hasher *auth.Hasher, name, email, password string) (*models.User, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		NombreCompleto: name,
		Email:          email,
		HashContrasena: hash,
	}

	err = store.New(db).Transaction(ctx, func(tx *store.CredentialStore) error {
		exists, err := tx.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrAdminExists
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		role, err := tx.FindActiveRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if err := tx.CreateRoleAssignment(ctx, user.ID, role.ID); err != nil {
			return err
		}
		return audit.LogAction(tx.DB().WithContext(ctx), user.ID, audit.ActionCreateAdmin,
			fmt.Sprintf("usuario:%d", user.ID), map[string]interface{}{"email": user.Email})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return user, nil
}
