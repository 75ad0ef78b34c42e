package database_client

import (
	"time"

	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/rotisserie/eris"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Dialector(cfg config.DbConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.Dsn), nil
	case "mysql":
		return mysql.Open(cfg.Dsn), nil
	default:
		return nil, eris.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}

func New(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Infrastructure.Db)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if !cfg.App.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, eris.Wrap(err, "database: open")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, eris.Wrap(err, "database: pool")
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
