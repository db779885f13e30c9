package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"strike-bot/utils/database/cases"
	"strike-bot/utils/database/pending"
	"strike-bot/utils/database/rules"
	"strike-bot/utils/database/strikes"
)

// Init opens the moderation database and ensures all tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := strikes.EnsureSchema(db); err != nil {
		return nil, err
	}
	if err := rules.EnsureSchema(db); err != nil {
		return nil, err
	}
	if err := cases.EnsureSchema(db); err != nil {
		return nil, err
	}
	if err := pending.EnsureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}
