// Package combat resolves attacks and abilities through a fixed six-stage
// pipeline:
//
//  1. Intent: seed an AttackContext from the attacker and roll hit/miss.
//  2. Before-Attack: equipment hooks and class passives adjust the context.
//  3. Before-Hit: last flat-damage additions, then the context freezes into
//     a QueuedDamage.
//  4. Resolution: the whole queue drains once; sentinels are handled, a
//     secondary hit roll is made, scaling and mitigation are applied and
//     the target's passive reacts.
//  5. Apply: health is reduced (saturating) and deaths are detected.
//  6. After-Hit: observers are notified through the event bus.
package combat

import (
	"math"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/gamedata"
)

// Sentinel QueuedDamage amounts. Every other negative amount is a defect.
const (
	Miss           int32 = -1
	Dodge          int32 = -2
	GuaranteedKill int32 = -3
)

const (
	// DefaultHit is the hit value of an attacker without combat stats.
	DefaultHit = 50

	intentEpsilon  = 0.0001
	resolveEpsilon = 0.01
)

// Plain attacks, with no ability behind them, scale and mitigate with these.
var (
	PlainScaling = []gamedata.Scaling{{Stat: actor.StatLethality, Multiplier: 0.1}}
	PlainDefense = []gamedata.Scaling{{Stat: actor.StatArmor, Multiplier: 0.5}}
)

// AttackContext is the mutable state of one attack between the intent roll
// and the moment it freezes into a QueuedDamage.
type AttackContext struct {
	Attacker actor.ID
	Target   actor.ID
	Ability  uint16 // 0 for a plain attack
	Now      uint32

	// Base is the pre-defense amount the attack started from: modified
	// lethality for a plain attack, the rolled base for ability damage.
	Base      int32
	Lethality float64
	Hit       float64
	Flat      int32

	HitChance        float64
	AccuracyOverride *float64

	DamageType   gamedata.DamageType
	ScaledWith   []gamedata.Scaling
	DefendedWith []gamedata.Scaling
	Tags         []uint32

	seedLethality float64
}

// QueuedDamage is a pending hit waiting for resolution. Amount is either a
// non-negative pre-defense amount or one of the sentinels.
type QueuedDamage struct {
	Attacker         actor.ID
	Target           actor.ID
	Amount           int32
	DamageType       gamedata.DamageType
	ScaledWith       []gamedata.Scaling
	DefendedWith     []gamedata.Scaling
	AccuracyOverride *float64
	Tags             []uint32
}

// Defect is a queue entry that carried a negative amount outside the sentinel set.
type Defect struct {
	Entry  QueuedDamage
	Reason string
}

// freeze folds the listener deltas into the queued amount.
func (c *AttackContext) freeze() QueuedDamage {
	amount := int64(c.Base) + int64(math.Round(c.Lethality-c.seedLethality)) + int64(c.Flat)
	return QueuedDamage{
		Attacker:         c.Attacker,
		Target:           c.Target,
		Amount:           int32(clamp(amount, 0, math.MaxInt32)),
		DamageType:       c.DamageType,
		ScaledWith:       c.ScaledWith,
		DefendedWith:     c.DefendedWith,
		AccuracyOverride: c.AccuracyOverride,
		Tags:             c.Tags,
	}
}

// HitChance is the intent-stage chance for hit against agility.
func HitChance(hit, agility float64) float64 {
	return hit / (hit + max(agility, 0) + intentEpsilon)
}

// SecondaryChance is the resolution-stage chance for hit against agility.
func SecondaryChance(hit, agility float64) float64 {
	return hit / (hit + max(agility, 0) + resolveEpsilon)
}

func clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}
