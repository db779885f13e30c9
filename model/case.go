package model

// CaseKind classifies a moderation case.
type CaseKind string

const (
	CaseStrike1 CaseKind = "strike_1"
	CaseStrike2 CaseKind = "strike_2"
	CaseStrike3 CaseKind = "strike_3"
	CaseKick    CaseKind = "kick"
	CaseMute    CaseKind = "mute"
	CaseBan     CaseKind = "ban"
)

// StrikeCaseKind maps a strike severity (1-3) to its case kind.
func StrikeCaseKind(severity int) CaseKind {
	switch severity {
	case 1:
		return CaseStrike1
	case 2:
		return CaseStrike2
	}
	return CaseStrike3
}

// Severity returns the strike amount a case kind contributes, or 0 for
// non-strike kinds.
func (k CaseKind) Severity() int {
	switch k {
	case CaseStrike1:
		return 1
	case CaseStrike2:
		return 2
	case CaseStrike3:
		return 3
	}
	return 0
}

// AutoModeratorID attributes cases created by automatic escalation.
const AutoModeratorID = "automod"

// CaseRecord is one moderation case. Active distinguishes cases that still
// count from cases revoked by a moderator.
type CaseRecord struct {
	CaseID      int64    `db:"case_id"`
	Kind        CaseKind `db:"kind"`
	GuildID     string   `db:"guild_id"`
	UserID      string   `db:"user_id"`
	ModeratorID string   `db:"moderator_id"`
	Reason      string   `db:"reason"`
	CreatedAt   int64    `db:"created_at"` // unix seconds
	Active      bool     `db:"active"`
}
