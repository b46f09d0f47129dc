package gamedata

import (
	"log/slog"

	"github.com/samdwyer/turncore/internal/actor"
)

// NewActor builds an ally actor from a class template.
// Unknown equipment ids are logged and skipped.
func (c *ClassDef) NewActor(items *ItemRegistry) *actor.Actor {
	a := c.StatBlock.build(items)
	a.Name = c.Name
	a.Class = c.Class
	a.Side = actor.SideAlly
	a.Passive = actor.ParsePassive(c.Passive)
	a.Death = actor.AllyDeath{}
	return a
}

// NewActor builds an enemy actor from an enemy template.
func (e *EnemyDef) NewActor(items *ItemRegistry) *actor.Actor {
	a := e.StatBlock.build(items)
	a.Name = e.Name
	a.Class = e.Class
	a.Side = actor.SideEnemy
	a.Death = actor.EnemyDeath{
		XPReward:  e.XPReward,
		LootTable: append([]string(nil), e.Loot...),
	}
	return a
}

func (b *StatBlock) build(items *ItemRegistry) *actor.Actor {
	stats := b.Stats
	a := &actor.Actor{
		Health:     actor.NewResource(b.Health.Max, b.Health.Regen),
		Magic:      actor.NewResource(b.Magic.Max, b.Magic.Regen),
		Stamina:    actor.NewResource(b.Stamina.Max, b.Stamina.Regen),
		Stats:      &stats,
		Growth:     b.Growth,
		Experience: b.Experience,
		Abilities:  append([]uint16(nil), b.Abilities...),
		AIProfile:  b.AIProfile,
	}
	if b.ExtraHP > 0 {
		a.ExtraHP = &actor.ExtraHP{Current: b.ExtraHP, Max: b.ExtraHP}
	}
	curve := actor.DefaultCurve()
	if b.Curve != nil {
		curve = *b.Curve
	}
	a.Curve = &curve

	for _, id := range b.Equipment {
		var item *actor.Equipment
		if items != nil {
			item = items.GetByID(id)
		}
		if item == nil {
			slog.Warn("unknown equipment id in template", "item", id)
			continue
		}
		e := *item
		e.Hooks = append([]actor.Hook(nil), item.Hooks...)
		a.Equipment = append(a.Equipment, e)
	}
	return a
}
