// Package db implements the persistence layer for jobs, their per-day
// headcount ledger, edit requests, messages and the partner directory,
// backed by GORM.
package db

import (
	"context"
	"fmt"

	"github.com/stafflink/stafflink/internal/agency/db/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gdb.AutoMigrate(
		&models.Job{},
		&models.HostCount{},
		&models.EditRequest{},
		&models.Message{},
		&models.User{},
		&models.Option{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	r := &Repository{db: gdb, logger: logger.Named("repository")}

	// Loosely migrated deployments may still carry native date columns
	// with a zero-date default. Repair once up front; the write entry
	// points re-run the same idempotent check.
	r.RepairDateColumns(context.Background())

	return r, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
