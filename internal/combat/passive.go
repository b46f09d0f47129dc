package combat

import (
	"math"

	"github.com/samdwyer/turncore/internal/actor"
)

const (
	paladinHitBonus   = 1.10
	backstabLethality = 20
	backstabRange     = 2.0
	backstabAlignment = 0.8
	dodgeDivisor      = 100.0
)

// paladinAccuracy raises a defensive attacker's hit for the secondary roll.
func paladinAccuracy(ctx *AttackContext, attacker, _ *actor.Actor) {
	if attacker.Passive != actor.PassiveDefensive {
		return
	}
	boosted := math.Floor(ctx.Hit * paladinHitBonus)
	ctx.Hit = boosted
	ctx.AccuracyOverride = &boosted
}

// rogueBackstab adds lethality when an evasive attacker stands close behind
// the target, looking the way the target faces.
func rogueBackstab(ctx *AttackContext, attacker, target *actor.Actor) {
	if attacker.Passive != actor.PassiveEvasive {
		return
	}
	dir := target.Position.Sub(attacker.Position)
	if dir.Len() >= backstabRange {
		return
	}
	// dir is not normalized, so the rogue must stand more than 0.8 units behind.
	if dir.Dot(target.Facing.Normalize()) > backstabAlignment {
		ctx.Lethality += backstabLethality
	}
}

func equipmentFlatDamage(ctx *AttackContext, attacker, _ *actor.Actor) {
	for _, e := range attacker.Equipment {
		for _, h := range e.Hooks {
			if h.Kind == actor.HookBeforeAttackMultiplier {
				continue
			}
			ctx.Flat = actor.SatAdd(ctx.Flat, h.Flat)
		}
	}
}

// triggerEquipment fires the attacker's multiplier hooks. Each hook keeps a
// single live modifier per item and stat; a repeat trigger refreshes its expiry.
func triggerEquipment(a *actor.Actor, now uint32) {
	for _, e := range a.Equipment {
		for _, h := range e.Hooks {
			if h.Kind != actor.HookBeforeAttackMultiplier {
				continue
			}
			expiresAt := actor.SatAddU32(now, h.Duration)
			refreshed := false
			for i := range a.Modifiers {
				m := &a.Modifiers[i]
				if m.Stat == h.Stat && m.Source != nil && *m.Source == *actor.FromEquipment(e.ID) && m.ExpiresAt != nil {
					*m.ExpiresAt = expiresAt
					refreshed = true
				}
			}
			if !refreshed {
				a.AddModifier(actor.Timed(h.Stat, h.Multiplier, expiresAt, actor.FromEquipment(e.ID)))
			}
		}
	}
}

// incoming lets the target's passive react to a resolved hit. A dodge zeroes
// the amount and reports false; the hit is still committed.
func (p *Pipeline) incoming(h *committed, target *actor.Actor) bool {
	switch target.Passive {
	case actor.PassiveEvasive:
		chance := float64(target.Value(actor.StatAgility)) / dodgeDivisor
		if p.roller.Float64() < chance {
			h.amount = 0
			return false
		}
	case actor.PassiveDefensive:
		if h.amount > 1 {
			h.amount--
		}
	case actor.PassiveShield:
		if target.ExtraHP != nil {
			rest := target.ExtraHP.Absorb(h.amount)
			h.absorbed = h.amount - rest
			h.amount = rest
		}
	}
	return true
}
