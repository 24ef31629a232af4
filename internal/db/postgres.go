package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/types"
	"github.com/verba-app/verba-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "verba", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Thread{},
		&types.ThreadItem{},
		&types.VocabularyEntry{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "thread_items"
		DROP CONSTRAINT IF EXISTS "fk_thread_items_thread_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_thread_items_thread_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "thread_items"
		ADD CONSTRAINT "fk_thread_items_thread_id"
		FOREIGN KEY ("thread_id")
		REFERENCES "threads"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_thread_items_thread_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "vocabulary_entries"
		DROP CONSTRAINT IF EXISTS "fk_vocabulary_entries_thread_item_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_vocabulary_entries_thread_item_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "vocabulary_entries"
		ADD CONSTRAINT "fk_vocabulary_entries_thread_item_id"
		FOREIGN KEY ("thread_item_id")
		REFERENCES "thread_items"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_vocabulary_entries_thread_item_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
