package rules

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"strike-bot/model"
)

// Get returns the rule at an exact strike total, or nil if the guild has no
// rule there. Thresholds match exactly, never as ranges.
func Get(db *sqlx.DB, guildID string, threshold int) (*model.RuleEntry, error) {
	var rule model.RuleEntry
	err := db.Get(&rule, "SELECT guild_id, strike_count, actions, data FROM auto_punish_rules WHERE guild_id = ? AND strike_count = ?", guildID, threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule at threshold %d for guild %s: %w", threshold, guildID, err)
	}
	return &rule, nil
}

// Add inserts a rule and reports whether it was created; false means the
// guild already has a rule at that exact threshold.
func Add(db *sqlx.DB, rule model.RuleEntry) (bool, error) {
	_, err := db.NamedExec(`INSERT INTO auto_punish_rules (guild_id, strike_count, actions, data)
		VALUES (:guild_id, :strike_count, :actions, :data)`, rule)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert rule at threshold %d for guild %s: %w", rule.Threshold, rule.GuildID, err)
	}
	return true, nil
}

// Remove deletes the rule at a threshold and reports whether one existed.
func Remove(db *sqlx.DB, guildID string, threshold int) (bool, error) {
	result, err := db.Exec("DELETE FROM auto_punish_rules WHERE guild_id = ? AND strike_count = ?", guildID, threshold)
	if err != nil {
		return false, fmt.Errorf("failed to delete rule at threshold %d for guild %s: %w", threshold, guildID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for rule delete: %w", err)
	}
	return affected > 0, nil
}

// ListAll returns the guild's rules sorted ascending by threshold.
func ListAll(db *sqlx.DB, guildID string) ([]model.RuleEntry, error) {
	var list []model.RuleEntry
	err := db.Select(&list, "SELECT guild_id, strike_count, actions, data FROM auto_punish_rules WHERE guild_id = ? ORDER BY strike_count ASC", guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules for guild %s: %w", guildID, err)
	}
	return list, nil
}

// ClearGuild drops every rule in a guild.
func ClearGuild(db *sqlx.DB, guildID string) error {
	if _, err := db.Exec("DELETE FROM auto_punish_rules WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to clear rules for guild %s: %w", guildID, err)
	}
	return nil
}
