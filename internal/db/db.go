package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/ajo-backend/internal/config"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

// NewDB connects, migrates the schema and makes sure every known role has
// a row.
func NewDB(cfg *config.Config, roles access.RoleMap) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, roles); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds the roles.
func Migrate(db *gorm.DB, roles access.RoleMap) error {
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.UserAuditLog{},
		&models.Category{},
		&models.Menu{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return SeedRoles(db, roles)
}

// SeedRoles inserts the roles of the map with their fixed ids. Existing
// rows are left alone.
func SeedRoles(db *gorm.DB, roles access.RoleMap) error {
	for name, id := range roles.All() {
		role := models.Role{ID: id, Name: name}
		if err := db.Where(models.Role{ID: id}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
