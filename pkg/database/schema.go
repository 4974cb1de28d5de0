package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the medication service
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	tables := []string{
		createMedicationsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createMedicationsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

const createMedicationsTable = `
CREATE TABLE IF NOT EXISTS medications (
	id UUID PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	name VARCHAR(255) NOT NULL,
	instruction TEXT NOT NULL DEFAULT '',
	frequency VARCHAR(64) NOT NULL DEFAULT '',
	dosage INTEGER NOT NULL,
	remain INTEGER NOT NULL DEFAULT 0,
	note TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	weekly_schedule JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createMedicationsIndexes = `
CREATE INDEX IF NOT EXISTS idx_medications_user_id ON medications(user_id);
CREATE INDEX IF NOT EXISTS idx_medications_updated_at ON medications(updated_at);`
