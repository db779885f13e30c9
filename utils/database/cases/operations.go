package cases

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"strike-bot/model"
)

// Create inserts a new case record and returns its id.
func Create(db *sqlx.DB, kind model.CaseKind, guildID, userID, moderatorID, reason string, createdAt time.Time) (int64, error) {
	result, err := db.Exec(`INSERT INTO cases (kind, guild_id, user_id, moderator_id, reason, created_at, active)
		VALUES (?, ?, ?, ?, ?, ?, 1)`,
		kind, guildID, userID, moderatorID, reason, createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert case record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get case id: %w", err)
	}
	return id, nil
}

// GetInfo retrieves a single case record by id.
func GetInfo(db *sqlx.DB, caseID int64) (*model.CaseRecord, error) {
	var record model.CaseRecord
	err := db.Get(&record, "SELECT * FROM cases WHERE case_id = ?", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case record %d: %w", caseID, err)
	}
	return &record, nil
}

// SetInactive marks a case as revoked.
func SetInactive(db *sqlx.DB, caseID int64) error {
	result, err := db.Exec("UPDATE cases SET active = 0 WHERE case_id = ?", caseID)
	if err != nil {
		return fmt.Errorf("failed to deactivate case %d: %w", caseID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for case %d: %w", caseID, err)
	}
	if affected == 0 {
		return fmt.Errorf("no case found with id %d", caseID)
	}
	return nil
}

// GetByUser returns a user's cases in a guild, newest first.
func GetByUser(db *sqlx.DB, guildID, userID string) ([]model.CaseRecord, error) {
	var records []model.CaseRecord
	err := db.Select(&records, "SELECT * FROM cases WHERE guild_id = ? AND user_id = ? ORDER BY created_at DESC", guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cases for user %s in guild %s: %w", userID, guildID, err)
	}
	return records, nil
}
