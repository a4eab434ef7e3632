package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/backend/internal/config"
	applog "foodgram/backend/internal/logger"
	"foodgram/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// zapWriter routes gorm's logger output through the application logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...any) {
	applog.Logger.Sugar().Warnf(format, args...)
}

// GormConfig is shared by the server and test databases. TranslateError maps
// dialect constraint errors to gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(zapWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open connects to postgres and applies pool settings.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("database URL must not be empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("database handle is nil")
	}
	return db.AutoMigrate(models.All()...)
}

// Connect initializes the database connection and runs migrations.
func Connect(cfg *config.Config) {
	db, err := Open(cfg)
	if err != nil {
		applog.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	applog.Info("Database connection established.")

	if err := Migrate(db); err != nil {
		applog.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	applog.Info("Database migrated successfully.")

	DB = db
}
