package escalation

import (
	"time"

	"github.com/jmoiron/sqlx"

	"strike-bot/model"
	"strike-bot/utils/database/cases"
)

// SQLRegistry implements CaseRegistry over the cases table.
type SQLRegistry struct {
	DB *sqlx.DB
}

func (r SQLRegistry) Create(kind model.CaseKind, guildID, userID, moderatorID, reason string, at time.Time) (int64, error) {
	return cases.Create(r.DB, kind, guildID, userID, moderatorID, reason, at)
}
