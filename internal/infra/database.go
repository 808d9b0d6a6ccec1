package infra

import (
	"fmt"

	"barberia/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection. driver is "postgres" (production) or
// "sqlite" (local single-session mode and tests; dsn ":memory:" works).
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("driver de base de datos no soportado: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection: an in-memory database lives and dies with it
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return db, nil
}

// RunMigrations creates / updates every table and then applies the indexes
// AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Todos()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL valid on both PostgreSQL and SQLite:
// case-insensitive unique names and one active appointment per employee slot.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_servicios_nombre_ci ON servicios (LOWER(nombre))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_roles_nombre_ci ON roles (LOWER(nombre))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_ci ON usuarios (LOWER(email))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_citas_turno_activo
		    ON citas (empleado_id, fecha, hora)
		    WHERE estado IN ('pendiente', 'confirmada') AND empleado_id IS NOT NULL`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
