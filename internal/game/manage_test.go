package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/growth"
)

func TestAuraBoostsSideUntilItEnds(t *testing.T) {
	ctx := context.Background()
	b, _ := newBattle(t, Config{Seed: 3, MaxTicks: 200})
	hero := b.Spawn(unit("hero", actor.SideAlly, 500, 10, 80, 5, 10))
	raider := b.Spawn(unit("raider", actor.SideEnemy, 500, 10, 80, 5, 10))

	allies := actor.SideAlly
	id, err := b.AddAura(actor.Buff{Stat: actor.StatArmor, Multiplier: 2, EndsAt: 4, Side: &allies})
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Effective(hero, actor.StatArmor))
	assert.Equal(t, 5.0, b.Effective(raider, actor.StatArmor), "other side untouched")

	for i := 0; i < 100 && b.store.Buff(id) != nil; i++ {
		require.NoError(t, b.Step(ctx))
	}
	require.Nil(t, b.store.Buff(id), "aura never expired")
	assert.GreaterOrEqual(t, b.Now(), uint32(4))
	assert.Equal(t, 5.0, b.Effective(hero, actor.StatArmor))
}

func TestAuraSurvivesSnapshot(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 3})
	hero := b.Spawn(unit("hero", actor.SideAlly, 500, 10, 80, 5, 10))
	_, err := b.AddAura(actor.Buff{Stat: actor.StatHit, Multiplier: 1.5, EndsAt: 9, Target: &hero})
	require.NoError(t, err)

	fresh, _ := newBattle(t, Config{Seed: 1})
	require.NoError(t, fresh.Restore(b.Snapshot()))
	assert.Equal(t, 120.0, fresh.Effective(hero, actor.StatHit))
}

func TestAddAuraErrors(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 3})
	b.Spawn(unit("hero", actor.SideAlly, 500, 10, 80, 5, 10))

	_, err := b.AddAura(actor.Buff{Stat: actor.StatArmor, Multiplier: 2, EndsAt: 0})
	assert.ErrorIs(t, err, ErrAuraExpired)

	ghost := actor.ID(42)
	_, err = b.AddAura(actor.Buff{Stat: actor.StatArmor, Multiplier: 2, EndsAt: 5, Target: &ghost})
	assert.ErrorIs(t, err, ErrUnknownActor)

	b.outcome = OutcomeVictory
	_, err = b.AddAura(actor.Buff{Stat: actor.StatArmor, Multiplier: 2, EndsAt: 5})
	assert.ErrorIs(t, err, ErrBattleOver)
}

func TestAllocateAndRespec(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 3})
	a := unit("hero", actor.SideAlly, 500, 10, 80, 5, 10)
	a.Points = actor.PointPool{Available: 3}
	hero := b.Spawn(a)

	require.NoError(t, b.Allocate(hero, growth.Agility, 2))
	v, _ := b.Actor(hero)
	assert.Equal(t, actor.PointPool{Available: 1, Spent: 2}, v.Points)
	assert.Equal(t, uint8(2), b.store.Get(hero).Growth.Agility)

	assert.ErrorIs(t, b.Allocate(hero, growth.Vitality, 5), growth.ErrNotEnoughPoints)

	reset, err := b.Respec(hero, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), reset)
	v, _ = b.Actor(hero)
	assert.Equal(t, actor.PointPool{Available: 3}, v.Points)
	assert.Equal(t, actor.GrowthAttributes{}, b.store.Get(hero).Growth)

	assert.ErrorIs(t, b.Allocate(99, growth.Agility, 1), ErrUnknownActor)
	_, err = b.Respec(99, false)
	assert.ErrorIs(t, err, ErrUnknownActor)
}
