package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New creates a new database connection based on configuration
func New(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		// Configure SQLite with WAL mode and busy timeout for better concurrency
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite: Use single connection to avoid locking issues
		// WAL mode allows concurrent reads but only one writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		slog.Info("Configured SQLite with WAL mode and single connection")
	} else {
		maxIdleConns := cfg.MaxIdleConns
		if maxIdleConns <= 0 {
			maxIdleConns = 10
		}
		maxOpenConns := cfg.MaxOpenConns
		if maxOpenConns <= 0 {
			maxOpenConns = 100
		}
		connMaxLifetime := cfg.ConnMaxLifetime
		if connMaxLifetime <= 0 {
			connMaxLifetime = 60
		}

		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)

		slog.Info("Configured PostgreSQL connection pool",
			"max_idle_conns", maxIdleConns,
			"max_open_conns", maxOpenConns,
			"conn_max_lifetime_min", connMaxLifetime)
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// AllModels lists every table managed by Migrate
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.JuryRecord{},
		&models.Materia{},
		&models.Nrc{},
		&models.Videojuego{},
		&models.Equipo{},
		&models.Estudiante{},
		&models.AuditLog{},
		&models.MailJob{},
	}
}

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default roles if they don't exist
	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("failed to seed default roles: %w", err)
	}

	return nil
}

// SeedRoles creates the reference roles (admin, jurado, profesor). Staff
// registration depends on these rows existing.
func SeedRoles(db *gorm.DB) error {
	defaultRoles := []models.Role{
		{Nombre: models.RoleAdmin, Descripcion: "Administración completa, incluido el registro de personal"},
		{Nombre: models.RoleJurado, Descripcion: "Evalúa a los equipos durante la feria"},
		{Nombre: models.RoleProfesor, Descripcion: "Gestiona estudiantes y equipos de sus NRC"},
	}

	for _, role := range defaultRoles {
		var existing models.Role
		result := db.Where("nombre = ?", role.Nombre).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			slog.Info("Created default role", "role", role.Nombre)
		} else if result.Error != nil {
			return result.Error
		}
	}

	return nil
}
