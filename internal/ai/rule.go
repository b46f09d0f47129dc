// Package ai picks an action for computer-controlled actors by walking an
// ordered list of guarded rules. The first rule whose guard holds wins.
package ai

import (
	"errors"
	"fmt"

	"github.com/samdwyer/turncore/internal/gamedata"
)

// Guard is the condition of a rule.
type Guard int

const (
	GuardAlways Guard = iota
	GuardHPBelow
	GuardAllyHPBelow
	GuardCanKillTarget
	GuardTargetStunned
	GuardTargetIsolated
	GuardTargetLowDefense
	GuardThreatHigh
)

var guardNames = map[string]Guard{
	"hp_below":           GuardHPBelow,
	"ally_hp_below":      GuardAllyHPBelow,
	"can_kill_target":    GuardCanKillTarget,
	"target_stunned":     GuardTargetStunned,
	"target_isolated":    GuardTargetIsolated,
	"target_low_defense": GuardTargetLowDefense,
	"threat_high":        GuardThreatHigh,
}

// String returns the guard's profile-file name.
func (g Guard) String() string {
	if g == GuardAlways {
		return "always"
	}
	for name, v := range guardNames {
		if v == g {
			return name
		}
	}
	return "unknown"
}

// Action is what a rule asks the actor to do.
type Action int

const (
	ActionNone Action = iota
	ActionAttack
	ActionAbility
	ActionDefend
	ActionWait
)

// String returns the action label.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionAttack:
		return "Attack"
	case ActionAbility:
		return "Ability"
	case ActionDefend:
		return "Defend"
	case ActionWait:
		return "Wait"
	default:
		return "unknown"
	}
}

// Rule is a compiled profile rule.
type Rule struct {
	Guard   Guard
	Percent uint8
	Action  Action
	Ability *gamedata.Ability // set when Action is ActionAbility
}

// Profile is a compiled, ordered rule list.
type Profile struct {
	Name  string
	Rules []Rule
}

// AbilityNames resolves ability labels.
type AbilityNames interface {
	FindByName(name string) *gamedata.Ability
}

var ErrUnknownGuard = errors.New("unknown guard")

// ErrUnknownAbility is returned when a rule names an ability missing from the catalog.
var ErrUnknownAbility = errors.New("unknown ability")

// Compile turns a profile definition into rules, resolving ability names once.
func Compile(name string, def gamedata.ProfileDef, abilities AbilityNames) (*Profile, error) {
	p := &Profile{Name: name, Rules: make([]Rule, 0, len(def.Logic))}
	for i, r := range def.Logic {
		rule := Rule{Guard: GuardAlways, Percent: r.Percent}
		label := r.Always
		if r.If != "" {
			g, ok := guardNames[r.If]
			if !ok {
				return nil, fmt.Errorf("profile %s rule %d: %w %q", name, i, ErrUnknownGuard, r.If)
			}
			rule.Guard = g
			label = r.Then
		}

		switch label {
		case "Attack":
			rule.Action = ActionAttack
		case "Defend":
			rule.Action = ActionDefend
		case "Wait":
			rule.Action = ActionWait
		default:
			ability := abilities.FindByName(label)
			if ability == nil {
				return nil, fmt.Errorf("profile %s rule %d: %w %q", name, i, ErrUnknownAbility, label)
			}
			rule.Action = ActionAbility
			rule.Ability = ability
		}
		p.Rules = append(p.Rules, rule)
	}
	return p, nil
}

// CompileAll compiles every profile definition.
func CompileAll(defs map[string]gamedata.ProfileDef, abilities AbilityNames) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(defs))
	for name, def := range defs {
		p, err := Compile(name, def, abilities)
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}
