// Package escalation decides, right after a strike is added, whether the
// user's new total matches an autopunish rule and executes the rule's actions.
package escalation

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"strike-bot/model"
	"strike-bot/punishcodec"
	"strike-bot/utils/database/pending"
	"strike-bot/utils/database/rules"
)

// Platform abstracts the guild moderation calls so the orchestrator can be
// tested without a gateway session.
type Platform interface {
	// CanActOn reports whether the bot outranks the target in the guild's
	// role hierarchy.
	CanActOn(guildID, userID string) (bool, error)
	MemberRoles(guildID, userID string) ([]string, error)
	Kick(guildID, userID, reason string) error
	Timeout(guildID, userID string, until time.Time, reason string) error
	Ban(guildID, userID, reason string) error
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
}

// CaseRegistry is the narrow case-creation contract the orchestrator needs
// when an action is itself a new moderation event.
type CaseRegistry interface {
	Create(kind model.CaseKind, guildID, userID, moderatorID, reason string, at time.Time) (int64, error)
}

// NoVisibleEffect is returned when a rule matched but nothing observable
// happened (every action failed or the set decoded empty).
const NoVisibleEffect = "no visible effect"

type Orchestrator struct {
	DB       *sqlx.DB
	Platform Platform
	Registry CaseRegistry
}

// Run looks up the rule at the exact new total and executes it. It returns
// the action summary, or "" when no rule matched or the target is not
// actionable. Exact-match semantics mean a threshold fires once, on the add
// that lands on it; removal never re-evaluates.
func (o *Orchestrator) Run(cfg *model.ServerConfig, guildID, userID string, total int) (string, error) {
	rule, err := rules.Get(o.DB, guildID, total)
	if err != nil {
		return "", err
	}
	if rule == nil {
		return "", nil
	}

	actions := punishcodec.Decode(rule.Actions, rule.Data)
	if len(actions) == 0 {
		return "", nil
	}

	ok, err := o.eligible(cfg, guildID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		// No partial application: if we cannot act, nothing runs.
		log.Printf("Skipping escalation for user %s in guild %s: target not actionable", userID, guildID)
		return "", nil
	}

	reason := fmt.Sprintf("Automatic escalation at %d strikes", total)
	var fragments []string
	for _, action := range actions {
		fragment, err := o.execute(action, guildID, userID, reason)
		if err != nil {
			// One action failing never blocks its siblings; the summary
			// simply omits it.
			log.Printf("Escalation action %s failed for user %s in guild %s: %v", action.Kind, userID, guildID, err)
			continue
		}
		fragments = append(fragments, fragment)
	}

	if len(fragments) == 0 {
		return NoVisibleEffect, nil
	}
	summary := fragments[0]
	for _, f := range fragments[1:] {
		summary += ", " + f
	}
	return summary, nil
}

func (o *Orchestrator) eligible(cfg *model.ServerConfig, guildID, userID string) (bool, error) {
	canAct, err := o.Platform.CanActOn(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check hierarchy for user %s: %w", userID, err)
	}
	if !canAct {
		return false, nil
	}

	if cfg == nil || len(cfg.ImmuneRoleIDs) == 0 {
		return true, nil
	}
	memberRoles, err := o.Platform.MemberRoles(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get roles for user %s: %w", userID, err)
	}
	for _, r := range memberRoles {
		for _, immune := range cfg.ImmuneRoleIDs {
			if r == immune {
				return false, nil
			}
		}
	}
	return true, nil
}

// execute performs one action and returns its summary fragment. Kick, mute
// and ban are new moderation events, so a success also creates an
// automod-attributed case.
func (o *Orchestrator) execute(action model.Action, guildID, userID, reason string) (string, error) {
	now := time.Now()
	switch action.Kind {
	case model.ActionKick:
		if err := o.Platform.Kick(guildID, userID, reason); err != nil {
			return "", err
		}
		o.createCase(model.CaseKick, guildID, userID, reason, now)
		return "kicked", nil

	case model.ActionMute:
		if err := o.Platform.Timeout(guildID, userID, now.Add(action.Duration), reason); err != nil {
			return "", err
		}
		o.createCase(model.CaseMute, guildID, userID, reason, now)
		return fmt.Sprintf("muted for %s", action.Duration), nil

	case model.ActionBan:
		if err := o.Platform.Ban(guildID, userID, reason); err != nil {
			return "", err
		}
		o.createCase(model.CaseBan, guildID, userID, reason, now)
		if action.Duration == 0 {
			return "banned permanently", nil
		}
		if err := pending.Schedule(o.DB, guildID, userID, pending.KindBan, "", now.Add(action.Duration)); err != nil {
			log.Printf("Failed to schedule unban for user %s in guild %s: %v", userID, guildID, err)
		}
		return fmt.Sprintf("banned for %s", action.Duration), nil

	case model.ActionRemoveRole:
		if err := o.Platform.RemoveRole(guildID, userID, action.RoleID); err != nil {
			return "", err
		}
		return fmt.Sprintf("removed role <@&%s>", action.RoleID), nil

	case model.ActionAddRole:
		if err := o.Platform.AddRole(guildID, userID, action.RoleID); err != nil {
			return "", err
		}
		return fmt.Sprintf("added role <@&%s>", action.RoleID), nil

	case model.ActionTempRole:
		if err := o.Platform.AddRole(guildID, userID, action.RoleID); err != nil {
			return "", err
		}
		if err := pending.Schedule(o.DB, guildID, userID, pending.KindRole, action.RoleID, now.Add(action.Duration)); err != nil {
			log.Printf("Failed to schedule temp role removal for user %s in guild %s: %v", userID, guildID, err)
		}
		return fmt.Sprintf("added role <@&%s> for %s", action.RoleID, action.Duration), nil
	}
	return "", fmt.Errorf("unknown action kind %d", action.Kind)
}

func (o *Orchestrator) createCase(kind model.CaseKind, guildID, userID, reason string, at time.Time) {
	if o.Registry == nil {
		return
	}
	caseID, err := o.Registry.Create(kind, guildID, userID, model.AutoModeratorID, reason, at)
	if err != nil {
		log.Printf("Failed to create %s case for escalated user %s in guild %s: %v", kind, userID, guildID, err)
		return
	}
	log.Printf("Created case %d (%s) for escalated user %s in guild %s", caseID, kind, userID, guildID)
}
