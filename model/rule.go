package model

// RuleEntry is one guild-configured autopunish rule: when a user's active
// strike total exactly equals Threshold, the encoded action set fires.
// Actions is the bit-field over ActionKind bits, Data the ';'-joined tagged
// parameter segments; both are decoded through the punishcodec package.
type RuleEntry struct {
	GuildID   string `db:"guild_id"`
	Threshold int    `db:"strike_count"`
	Actions   int64  `db:"actions"`
	Data      string `db:"data"`
}

// Rule thresholds accepted by the command surface.
const (
	MinRuleThreshold = 1
	MaxRuleThreshold = 40
)
