package combat

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/rng"
)

// DefendMultiplier is the armor multiplier a Defend intent grants until the defender's next turn.
const DefendMultiplier = 1.5

var (
	ErrUnknownCaster = errors.New("unknown caster")
	ErrOnCooldown    = errors.New("ability on cooldown")
	ErrCannotAfford  = errors.New("cannot afford ability")
)

// CanAfford reports whether paying the ability's costs keeps every currency at or above zero.
// A cost against a missing currency cannot be paid.
func CanAfford(a *actor.Actor, ability *gamedata.Ability) bool {
	for _, c := range costs(a, ability) {
		if c.amount >= 0 {
			continue
		}
		if c.res == nil || int64(c.res.Current)+int64(c.amount) < 0 {
			return false
		}
	}
	return true
}

type cost struct {
	res    *actor.Resource
	amount int32
}

func costs(a *actor.Actor, ability *gamedata.Ability) []cost {
	return []cost{
		{a.Health, ability.HealthCost},
		{a.Magic, ability.MagicCost},
		{a.Stamina, ability.StaminaCost},
	}
}

// UseAbility pays the ability's costs, starts its cooldown and applies its
// effects to targets in order. Damage effects enter the attack pipeline and
// are resolved by the next Resolve.
func (p *Pipeline) UseAbility(caster actor.ID, ability *gamedata.Ability, targets []actor.ID, now uint32) error {
	c := p.store.Get(caster)
	if c == nil {
		return fmt.Errorf("use %s: %w %d", ability.Name, ErrUnknownCaster, caster)
	}
	if !c.Ready(ability.ID, now) {
		return fmt.Errorf("use %s: %w until tick %d", ability.Name, ErrOnCooldown, c.Cooldowns[ability.ID])
	}
	if !CanAfford(c, ability) {
		return fmt.Errorf("use %s: %w", ability.Name, ErrCannotAfford)
	}
	for _, k := range costs(c, ability) {
		if k.res != nil {
			k.res.Add(k.amount)
		}
	}
	c.StartCooldown(ability.ID, now, uint32(ability.Cooldown))

	slog.Debug("ability used", "caster", caster, "ability", ability.Name, "targets", len(targets))
	p.applyEffects(c, ability, targets, now, map[uint16]bool{ability.ID: true})
	return nil
}

func (p *Pipeline) applyEffects(caster *actor.Actor, ability *gamedata.Ability, targets []actor.ID, now uint32, visited map[uint16]bool) {
	for _, eff := range ability.Effects {
		switch eff.Kind {
		case gamedata.EffectDamage:
			for _, id := range targets {
				base := int32(rng.Range(p.roller, int(eff.Floor), int(eff.Ceiling)))
				p.intent(strike{
					attacker:   caster.ID,
					target:     id,
					ability:    ability.ID,
					base:       &base,
					damageType: eff.DamageType,
					scaled:     eff.ScaledWith,
					defended:   eff.DefendedWith,
					now:        now,
				})
			}
		case gamedata.EffectHeal:
			for _, id := range targets {
				p.heal(caster.ID, id, eff)
			}
		case gamedata.EffectBuff:
			p.buff(caster.ID, ability, eff, targets, now)
			for _, chainedID := range eff.Chained {
				p.chain(caster, chainedID, targets, now, visited)
			}
		default:
			slog.Warn("unknown ability effect", "ability", ability.Name, "kind", eff.Kind)
		}
	}
}

func (p *Pipeline) heal(healer, target actor.ID, eff gamedata.Effect) {
	t := p.store.Get(target)
	if t == nil || t.Health == nil || !t.Alive() {
		return
	}
	amount := max(int32(rng.Range(p.roller, int(eff.Floor), int(eff.Ceiling))), 0)
	applied := t.Health.Add(amount)
	p.bus.Publish(event.Heal{Healer: healer, Target: target, Amount: applied})
}

func (p *Pipeline) buff(caster actor.ID, ability *gamedata.Ability, eff gamedata.Effect, targets []actor.ID, now uint32) {
	if eff.Multiplier <= 0 {
		slog.Warn("buff not registered: non-positive multiplier", "ability", ability.Name, "stat", eff.Stat)
		return
	}
	expiresAt := actor.SatAddU32(now, uint32(ability.Duration))
	for _, id := range targets {
		t := p.store.Get(id)
		if t == nil {
			slog.Warn("buff not registered: unknown target", "ability", ability.Name, "target", id)
			continue
		}
		t.AddModifier(actor.Timed(eff.Stat, eff.Multiplier, expiresAt, actor.FromAbility(ability.ID)))
		p.bus.Publish(event.BuffApplied{
			Applier:    caster,
			Target:     id,
			Ability:    ability.ID,
			Stat:       eff.Stat,
			Multiplier: eff.Multiplier,
			ExpiresAt:  expiresAt,
		})
	}
}

// chain resolves a chained ability against the same targets. Chained
// abilities cost nothing and start no cooldown; each id resolves once per use.
func (p *Pipeline) chain(caster *actor.Actor, id uint16, targets []actor.ID, now uint32, visited map[uint16]bool) {
	if visited[id] {
		slog.Warn("chained ability already resolved", "ability", id)
		return
	}
	if p.abilities == nil {
		slog.Warn("chained ability not resolved: no catalog", "ability", id)
		return
	}
	ability := p.abilities.Find(id)
	if ability == nil {
		slog.Warn("chained ability not found", "ability", id)
		return
	}
	visited[id] = true
	p.applyEffects(caster, ability, targets, now, visited)
}

// Defend raises the actor's armor until its next turn starts.
func (p *Pipeline) Defend(id actor.ID) {
	a := p.store.Get(id)
	if a == nil {
		return
	}
	a.AddModifier(actor.Permanent(actor.StatArmor, DefendMultiplier, actor.FromActor(id)))
}
