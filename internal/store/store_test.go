package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.RoleAssignment{}, &models.JuryRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	for _, name := range []string{models.RoleAdmin, models.RoleJurado, models.RoleProfesor} {
		if err := db.Create(&models.Role{Nombre: name}).Error; err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, deleted bool, roles ...string) models.User {
	t.Helper()
	user := models.User{NombreCompleto: "Test " + email, Email: email, HashContrasena: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if deleted {
		db.Model(&user).Update("deleted", true)
	}
	for _, name := range roles {
		var role models.Role
		if err := db.Where("nombre = ?", name).First(&role).Error; err != nil {
			t.Fatalf("find role %s: %v", name, err)
		}
		if err := db.Omit("Rol").Create(&models.RoleAssignment{UsuarioID: user.ID, RolID: role.ID}).Error; err != nil {
			t.Fatalf("assign role: %v", err)
		}
	}
	return user
}

func TestFindActiveUserByEmail_WithRoles(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user := createUser(t, db, "ana@uninorte.edu.co", false, models.RoleProfesor, models.RoleAdmin)

	got, err := s.FindActiveUserByEmail(context.Background(), "ana@uninorte.edu.co")
	if err != nil {
		t.Fatalf("FindActiveUserByEmail failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}
	if len(got.Roles) != 2 || got.Roles[0] != "admin" || got.Roles[1] != "profesor" {
		t.Errorf("expected sorted roles [admin profesor], got %v", got.Roles)
	}
}

func TestFindActiveUserByEmail_SkipsDeletedUser(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	createUser(t, db, "gone@uninorte.edu.co", true, models.RoleProfesor)

	_, err := s.FindActiveUserByEmail(context.Background(), "gone@uninorte.edu.co")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestActiveRoleNames_IgnoresDeletedAssignmentsAndRoles(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user := createUser(t, db, "ana@uninorte.edu.co", false, models.RoleProfesor, models.RoleJurado, models.RoleAdmin)

	// Revoke the jurado assignment and retire the admin role itself
	var jurado models.Role
	db.Where("nombre = ?", models.RoleJurado).First(&jurado)
	db.Model(&models.RoleAssignment{}).Where("usuario_id = ? AND rol_id = ?", user.ID, jurado.ID).Update("deleted", true)
	db.Model(&models.Role{}).Where("nombre = ?", models.RoleAdmin).Update("deleted", true)

	roles, err := s.ActiveRoleNames(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ActiveRoleNames failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != models.RoleProfesor {
		t.Errorf("expected only profesor, got %v", roles)
	}
}

func TestActiveRoleNames_NoRoles(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "ana@uninorte.edu.co", false)

	roles, err := New(db).ActiveRoleNames(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ActiveRoleNames failed: %v", err)
	}
	if roles == nil || len(roles) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", roles)
	}
}

func TestFindActiveUserByID(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user := createUser(t, db, "ana@uninorte.edu.co", false, models.RoleJurado)
	deleted := createUser(t, db, "old@uninorte.edu.co", true)

	got, err := s.FindActiveUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindActiveUserByID failed: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, got.Email)
	}

	if _, err := s.FindActiveUserByID(context.Background(), deleted.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for deleted user, got %v", err)
	}
}

func TestEmailExists_IncludesDeletedUsers(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	createUser(t, db, "gone@uninorte.edu.co", true)

	exists, err := s.EmailExists(context.Background(), "gone@uninorte.edu.co")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected deleted user's email to count as existing")
	}

	exists, err = s.EmailExists(context.Background(), "new@uninorte.edu.co")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if exists {
		t.Error("expected unknown email not to exist")
	}
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	user := &models.User{NombreCompleto: "Ana", Email: " Ana@Uninorte.edu.co", HashContrasena: "x"}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Email != "ana@uninorte.edu.co" {
		t.Errorf("expected lower-case email, got %q", user.Email)
	}

	exists, err := s.EmailExists(context.Background(), "ANA@uninorte.edu.co")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected lookup to ignore case")
	}
	if _, err := s.FindActiveUserByEmail(context.Background(), "ana@UNINORTE.edu.co"); err != nil {
		t.Errorf("FindActiveUserByEmail failed: %v", err)
	}
}

func TestFindActiveRole(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)

	role, err := s.FindActiveRole(context.Background(), models.RoleJurado)
	if err != nil {
		t.Fatalf("FindActiveRole failed: %v", err)
	}
	if role.Nombre != models.RoleJurado {
		t.Errorf("expected jurado, got %s", role.Nombre)
	}

	db.Model(&models.Role{}).Where("nombre = ?", models.RoleProfesor).Update("deleted", true)
	if _, err := s.FindActiveRole(context.Background(), models.RoleProfesor); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("expected ErrRoleNotFound for deleted role, got %v", err)
	}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	boom := errors.New("boom")

	err := s.Transaction(context.Background(), func(tx *CredentialStore) error {
		user := &models.User{NombreCompleto: "Ana", Email: "ana@uninorte.edu.co", HashContrasena: "x"}
		if err := tx.CreateUser(context.Background(), user); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	count, err := s.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to leave 0 users, got %d", count)
	}
}

func TestCreateJuryRecord(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	user := createUser(t, db, "ana@uninorte.edu.co", false, models.RoleJurado)

	if err := s.CreateJuryRecord(context.Background(), &models.JuryRecord{UsuarioID: user.ID, TokenConfirmacion: "tok"}); err != nil {
		t.Fatalf("CreateJuryRecord failed: %v", err)
	}

	rec, err := s.FindJuryRecord(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindJuryRecord failed: %v", err)
	}
	if rec.TokenConfirmacion != "tok" {
		t.Errorf("expected token tok, got %q", rec.TokenConfirmacion)
	}
}
