// Package event defines the events a battle surfaces to outside collaborators
// and a synchronous bus that dispatches them.
package event

import "github.com/samdwyer/turncore/internal/actor"

// Kind identifies an event type.
type Kind int

const (
	KindRoundStart Kind = iota
	KindRoundEnd
	KindTurnStart
	KindTurnEnd
	KindAfterHit
	KindMiss
	KindDodge
	KindHeal
	KindBuffApplied
	KindDeath
	KindXPAward
	KindLootDrop
	KindLevelUp
	KindBattleEnd
)

var kindNames = [...]string{
	KindRoundStart:  "round_start",
	KindRoundEnd:    "round_end",
	KindTurnStart:   "turn_start",
	KindTurnEnd:     "turn_end",
	KindAfterHit:    "after_hit",
	KindMiss:        "miss",
	KindDodge:       "dodge",
	KindHeal:        "heal",
	KindBuffApplied: "buff_applied",
	KindDeath:       "death",
	KindXPAward:     "xp_award",
	KindLootDrop:    "loot_drop",
	KindLevelUp:     "level_up",
	KindBattleEnd:   "battle_end",
}

// String returns the event kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is anything published on a Bus.
type Event interface {
	Kind() Kind
}

// RoundStart fires when a fresh turn order has been drawn.
type RoundStart struct {
	Round uint32
	Order []actor.ID
}

// RoundEnd fires when the round queue is exhausted.
type RoundEnd struct {
	Round uint32
}

// TurnStart fires when an actor takes the turn.
type TurnStart struct {
	Actor actor.ID
	Tick  uint32
}

// TurnEnd fires once the actor's intent has been resolved.
type TurnEnd struct {
	Actor actor.ID
	Tick  uint32
}

// AfterHit reports damage committed to a target. Applied may be less than
// Requested when the target had less health left.
type AfterHit struct {
	Attacker  actor.ID
	Target    actor.ID
	Requested int32
	Applied   int32
	Absorbed  int32 // taken by an extra health pool
	Tags      []uint32
}

// Miss reports a failed hit roll.
type Miss struct {
	Attacker actor.ID
	Target   actor.ID
}

// Dodge reports a hit negated by the target.
type Dodge struct {
	Attacker actor.ID
	Target   actor.ID
}

// Heal reports health restored to a target.
type Heal struct {
	Healer actor.ID
	Target actor.ID
	Amount int32
}

// BuffApplied reports a modifier added by an ability.
type BuffApplied struct {
	Applier    actor.ID
	Target     actor.ID
	Ability    uint16
	Stat       actor.Stat
	Multiplier float64
	ExpiresAt  uint32
}

// Death reports an actor reaching zero health.
type Death struct {
	Actor  actor.ID
	Killer *actor.ID
}

// XPAward reports experience granted to an actor.
type XPAward struct {
	Actor  actor.ID
	From   actor.ID
	Amount uint32
}

// LootDrop reports loot left by a dead enemy.
type LootDrop struct {
	From  actor.ID
	Items []string
}

// LevelUp reports a level change.
type LevelUp struct {
	Actor    actor.ID
	OldLevel uint32
	NewLevel uint32
}

// BattleEnd reports the battle outcome.
type BattleEnd struct {
	Outcome string
	Ticks   uint32
}

func (RoundStart) Kind() Kind  { return KindRoundStart }
func (RoundEnd) Kind() Kind    { return KindRoundEnd }
func (TurnStart) Kind() Kind   { return KindTurnStart }
func (TurnEnd) Kind() Kind     { return KindTurnEnd }
func (AfterHit) Kind() Kind    { return KindAfterHit }
func (Miss) Kind() Kind        { return KindMiss }
func (Dodge) Kind() Kind       { return KindDodge }
func (Heal) Kind() Kind        { return KindHeal }
func (BuffApplied) Kind() Kind { return KindBuffApplied }
func (Death) Kind() Kind       { return KindDeath }
func (XPAward) Kind() Kind     { return KindXPAward }
func (LootDrop) Kind() Kind    { return KindLootDrop }
func (LevelUp) Kind() Kind     { return KindLevelUp }
func (BattleEnd) Kind() Kind   { return KindBattleEnd }
