package model

// StrikeEntry is one case's contribution to a user's active strike total.
// Amount starts at the strike severity (1-3) and can only shrink through the
// removal flow; an entry that reaches zero is dropped rather than kept.
type StrikeEntry struct {
	CaseID int64 `db:"case_id"`
	Amount int   `db:"amount"`
}

// StrikeRow is the per-(guild,user) ledger: the active total, the itemized
// entries in the order the strikes were issued, and the decay deadline.
// A row only exists while Total > 0.
type StrikeRow struct {
	GuildID  string        `db:"guild_id"`
	UserID   string        `db:"user_id"`
	Total    int           `db:"count"`
	ExpireAt int64         `db:"expire_at"` // unix seconds
	Entries  []StrikeEntry `db:"-"`
}
