package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrate_SeedsRolesOnce(t *testing.T) {
	db := setupTestDB(t)

	// Second run must not duplicate reference data
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int64
	db.Model(&models.Role{}).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 seeded roles, got %d", count)
	}

	for _, name := range []string{models.RoleAdmin, models.RoleJurado, models.RoleProfesor} {
		var role models.Role
		if err := db.Where("nombre = ?", name).First(&role).Error; err != nil {
			t.Errorf("role %s not seeded: %v", name, err)
		}
	}
}

func TestCreateAdmin(t *testing.T) {
	db := setupTestDB(t)
	hasher := auth.NewHasher(bcrypt.MinCost)
	ctx := context.Background()

	user, err := CreateAdmin(ctx, db, hasher, "Admin", "admin@uninorte.edu.co", "pw123456")
	if err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	got, err := store.New(db).FindActiveUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0] != models.RoleAdmin {
		t.Errorf("expected admin role, got %v", got.Roles)
	}
	if !hasher.Compare("pw123456", got.HashContrasena) {
		t.Error("stored hash does not match password")
	}

	if _, err := CreateAdmin(ctx, db, hasher, "Admin", "admin@uninorte.edu.co", "other"); !errors.Is(err, ErrAdminExists) {
		t.Errorf("expected ErrAdminExists, got %v", err)
	}
}

func TestCreateDefaultAdmin_SkipsWithoutEnv(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	if err := CreateDefaultAdmin(context.Background(), db, auth.NewHasher(bcrypt.MinCost)); err != nil {
		t.Fatalf("CreateDefaultAdmin failed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no users, got %d", count)
	}
}

func TestCreateDefaultAdmin_OnlyWhenEmpty(t *testing.T) {
	db := setupTestDB(t)
	hasher := auth.NewHasher(bcrypt.MinCost)
	t.Setenv("ADMIN_EMAIL", "admin@uninorte.edu.co")
	t.Setenv("ADMIN_PASSWORD", "pw123456")
	t.Setenv("ADMIN_NAME", "")

	if err := CreateDefaultAdmin(context.Background(), db, hasher); err != nil {
		t.Fatalf("first CreateDefaultAdmin failed: %v", err)
	}
	// Users exist now, so the second call is a no-op rather than a conflict
	if err := CreateDefaultAdmin(context.Background(), db, hasher); err != nil {
		t.Fatalf("second CreateDefaultAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", "admin@uninorte.edu.co").First(&user).Error; err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if user.NombreCompleto != "Administrador" {
		t.Errorf("expected default name, got %q", user.NombreCompleto)
	}
}
