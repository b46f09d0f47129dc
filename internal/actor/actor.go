// Package actor holds the per-actor combat state: currencies, combat stats,
// growth attributes, modifiers and buffs, and the store that owns them.
//
// Actors are plain data. Behavior lives in the scheduler, the combat
// pipeline, the growth rules and expiry, all of which mutate actors through
// a Store.
package actor

import "strings"

// ID identifies an actor within a Store.
type ID uint32

// XPPerLevel is the experience bucket size; every 65 536 XP is one level.
const XPPerLevel = 1 << 16

// Side is the team an actor fights for.
type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideAlly:
		return "ally"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Passive is the class passive an actor carries into the damage pipeline.
type Passive int

const (
	PassiveNone Passive = iota
	// PassiveDefensive trims incoming damage by a flat amount and adds hit chance.
	PassiveDefensive
	// PassiveEvasive backstabs from behind and rolls an independent dodge.
	PassiveEvasive
	// PassiveShield drains an extra health pool before real health.
	PassiveShield
)

// String returns the passive name.
func (p Passive) String() string {
	switch p {
	case PassiveNone:
		return "none"
	case PassiveDefensive:
		return "defensive"
	case PassiveEvasive:
		return "evasive"
	case PassiveShield:
		return "shield"
	default:
		return "unknown"
	}
}

// ParsePassive maps a data-file name to a Passive. Unknown names map to PassiveNone.
func ParsePassive(name string) Passive {
	switch strings.ToLower(name) {
	case "defensive":
		return PassiveDefensive
	case "evasive":
		return PassiveEvasive
	case "shield":
		return PassiveShield
	default:
		return PassiveNone
	}
}

// Actor is any character participating in combat.
//
// Optional blocks are pointers: a nil block reads as zero everywhere.
type Actor struct {
	ID      ID
	Name    string
	Class   string // class tag, e.g. "paladin"
	Side    Side
	Passive Passive

	Health  *Resource
	Magic   *Resource
	Stamina *Resource
	ExtraHP *ExtraHP

	Stats       *CombatStats
	Growth      GrowthAttributes
	Curve       *GrowthCurve
	Points      PointPool
	Experience  uint32
	Accumulated uint32 // accumulated agility, consumed by the turn scheduler

	Modifiers []StatModifier
	Buffs     []BuffID
	Equipment []Equipment

	Abilities []uint16
	Cooldowns map[uint16]uint32 // ability id -> tick at which it is ready again
	AIProfile string

	Position Vec2
	Facing   Vec2

	StunnedUntil uint32
	Dead         bool
	Death        DeathBehavior
}

// Level derives the actor's level from its experience.
func (a *Actor) Level() uint32 {
	return a.Experience >> 16
}

// Alive reports whether the actor can still act.
func (a *Actor) Alive() bool {
	if a.Dead {
		return false
	}
	return a.Health == nil || a.Health.Current > 0
}

// Stunned reports whether the actor is stunned at tick now.
func (a *Actor) Stunned(now uint32) bool {
	return a.StunnedUntil > now
}

// HealthPercent returns current health as a percentage of max, 0 when there is no health block.
func (a *Actor) HealthPercent() int {
	if a.Health == nil || a.Health.Max <= 0 {
		return 0
	}
	return int(int64(a.Health.Current) * 100 / int64(a.Health.Max))
}

// Knows reports whether the ability id is in the actor's ability list.
func (a *Actor) Knows(abilityID uint16) bool {
	for _, id := range a.Abilities {
		if id == abilityID {
			return true
		}
	}
	return false
}

// Ready reports whether the ability is off cooldown at tick now.
func (a *Actor) Ready(abilityID uint16, now uint32) bool {
	readyAt, ok := a.Cooldowns[abilityID]
	return !ok || readyAt <= now
}

// StartCooldown marks the ability unavailable until now+cooldown.
func (a *Actor) StartCooldown(abilityID uint16, now, cooldown uint32) {
	if cooldown == 0 {
		return
	}
	if a.Cooldowns == nil {
		a.Cooldowns = make(map[uint16]uint32)
	}
	a.Cooldowns[abilityID] = satAddU32(now, cooldown)
}

// Regenerate adds each currency's regen to its current value.
func (a *Actor) Regenerate() {
	for _, r := range []*Resource{a.Health, a.Magic, a.Stamina} {
		if r != nil {
			r.Regenerate()
		}
	}
}

// Resource returns the currency block for the given resource stat, or nil.
func (a *Actor) Resource(stat Stat) *Resource {
	switch stat {
	case StatHealth, StatHealthRegen:
		return a.Health
	case StatMagic, StatMagicRegen:
		return a.Magic
	case StatStamina, StatStaminaRegen:
		return a.Stamina
	default:
		return nil
	}
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	c := *a
	if a.Health != nil {
		h := *a.Health
		c.Health = &h
	}
	if a.Magic != nil {
		m := *a.Magic
		c.Magic = &m
	}
	if a.Stamina != nil {
		s := *a.Stamina
		c.Stamina = &s
	}
	if a.ExtraHP != nil {
		e := *a.ExtraHP
		c.ExtraHP = &e
	}
	if a.Stats != nil {
		st := *a.Stats
		c.Stats = &st
	}
	if a.Curve != nil {
		cv := *a.Curve
		c.Curve = &cv
	}
	c.Modifiers = make([]StatModifier, len(a.Modifiers))
	for i, m := range a.Modifiers {
		c.Modifiers[i] = m.clone()
	}
	c.Buffs = append([]BuffID(nil), a.Buffs...)
	c.Equipment = make([]Equipment, len(a.Equipment))
	for i, e := range a.Equipment {
		e.Hooks = append([]Hook(nil), e.Hooks...)
		c.Equipment[i] = e
	}
	c.Abilities = append([]uint16(nil), a.Abilities...)
	if a.Cooldowns != nil {
		c.Cooldowns = make(map[uint16]uint32, len(a.Cooldowns))
		for k, v := range a.Cooldowns {
			c.Cooldowns[k] = v
		}
	}
	return &c
}
