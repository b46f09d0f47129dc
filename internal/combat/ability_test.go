package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/gamedata"
)

func healAbility(floor, ceiling int32) *gamedata.Ability {
	return &gamedata.Ability{
		ID:         gamedata.PackID(1, 2),
		Name:       "Mend",
		Effects:    []gamedata.Effect{{Kind: gamedata.EffectHeal, Floor: floor, Ceiling: ceiling}},
		TargetSide: gamedata.TargetAlly,
	}
}

func TestHeal(t *testing.T) {
	tests := []struct {
		name      string
		floor     int32
		ceiling   int32
		roll      int
		current   int32
		wantHP    int32
		wantEvent int32
	}{
		{"uniform in range", 20, 35, 7, 50, 77, 27},
		{"saturates at max", 20, 35, 7, 95, 100, 5},
		{"floor equal to ceiling heals floor", 10, 10, 99, 50, 60, 10},
		{"floor above ceiling heals floor", 12, 4, 99, 50, 62, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(&script{ints: []int{tt.roll}}, nil)
			caster := h.spawn(fighter("healer", 0, 0, 0, 0, 100))
			a := fighter("ally", 0, 0, 0, 0, 100)
			a.Health.Current = tt.current
			ally := h.spawn(a)

			require.NoError(t, h.p.UseAbility(caster, healAbility(tt.floor, tt.ceiling), []actor.ID{ally}, 1))
			assert.Equal(t, tt.wantHP, h.store.Get(ally).Health.Current)
			heals := h.rec.OfKind(event.KindHeal)
			require.Len(t, heals, 1)
			assert.Equal(t, tt.wantEvent, heals[0].(event.Heal).Amount)
		})
	}
}

func TestHealSkipsTheDead(t *testing.T) {
	h := newHarness(&script{}, nil)
	caster := h.spawn(fighter("healer", 0, 0, 0, 0, 100))
	corpse := fighter("corpse", 0, 0, 0, 0, 100)
	corpse.Health.Current = 0
	corpse.Dead = true
	id := h.spawn(corpse)

	require.NoError(t, h.p.UseAbility(caster, healAbility(20, 35), []actor.ID{id}, 1))
	assert.Zero(t, h.store.Get(id).Health.Current)
	assert.Zero(t, h.rec.Count(event.KindHeal))
}

func TestAbilityDamageEntersPipeline(t *testing.T) {
	slash := &gamedata.Ability{
		ID:   gamedata.PackID(1, 1),
		Name: "Slash",
		Effects: []gamedata.Effect{{
			Kind:         gamedata.EffectDamage,
			Floor:        6,
			Ceiling:      12,
			DamageType:   gamedata.DamagePhysical,
			ScaledWith:   []gamedata.Scaling{{Stat: actor.StatLethality, Multiplier: 0.5}},
			DefendedWith: []gamedata.Scaling{{Stat: actor.StatArmor, Multiplier: 0.5}},
		}},
		TargetSide: gamedata.TargetEnemy,
	}

	h := newHarness(&script{ints: []int{3}}, nil)
	att := h.spawn(fighter("attacker", 20, 80, 0, 5, 100))
	tgt := h.spawn(fighter("target", 0, 0, 10, 5, 100))

	require.NoError(t, h.p.UseAbility(att, slash, []actor.ID{tgt}, 1))
	pending := h.p.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int32(9), pending[0].Amount, "rolled base")
	assert.Equal(t, []uint32{uint32(slash.ID)}, pending[0].Tags)

	h.p.Resolve()
	// 9 + 20*0.5 - 10*0.5
	assert.Equal(t, int32(86), h.store.Get(tgt).Health.Current)
}

func TestAreaDamageQueuesOnePerTarget(t *testing.T) {
	cleave := &gamedata.Ability{
		ID:      gamedata.PackID(2, 1),
		Name:    "Cleave",
		Effects: []gamedata.Effect{{Kind: gamedata.EffectDamage, Floor: 5, Ceiling: 5}},
	}
	h := newHarness(&script{}, nil)
	att := h.spawn(fighter("attacker", 0, 80, 0, 0, 100))
	targets := []actor.ID{
		h.spawn(fighter("a", 0, 0, 0, 0, 50)),
		h.spawn(fighter("b", 0, 0, 0, 0, 50)),
		h.spawn(fighter("c", 0, 0, 0, 0, 50)),
	}

	require.NoError(t, h.p.UseAbility(att, cleave, targets, 1))
	assert.Len(t, h.p.Pending(), 3)
	h.p.Resolve()
	for _, id := range targets {
		assert.Equal(t, int32(45), h.store.Get(id).Health.Current)
	}
}

func TestBuffAddsTimedModifier(t *testing.T) {
	guardUp := &gamedata.Ability{
		ID:         gamedata.PackID(1, 3),
		Name:       "Guard Up",
		Effects:    []gamedata.Effect{{Kind: gamedata.EffectBuff, Stat: actor.StatArmor, Multiplier: 1.5}},
		Duration:   3,
		TargetSide: gamedata.TargetSelf,
	}
	h := newHarness(&script{}, nil)
	id := h.spawn(fighter("petrus", 18, 80, 20, 7, 180))

	require.NoError(t, h.p.UseAbility(id, guardUp, []actor.ID{id}, 10))
	mods := h.store.Get(id).Modifiers
	require.Len(t, mods, 1)
	assert.Equal(t, actor.StatArmor, mods[0].Stat)
	assert.Equal(t, 1.5, mods[0].Multiplier)
	require.NotNil(t, mods[0].ExpiresAt)
	assert.Equal(t, uint32(13), *mods[0].ExpiresAt)
	assert.Equal(t, actor.FromAbility(guardUp.ID), mods[0].Source)
	assert.Equal(t, 30.0, h.store.Effective(id, actor.StatArmor))

	applied := h.rec.OfKind(event.KindBuffApplied)
	require.Len(t, applied, 1)
	assert.Equal(t, uint32(13), applied[0].(event.BuffApplied).ExpiresAt)
}

func TestBuffWithoutMultiplierIsNotRegistered(t *testing.T) {
	broken := &gamedata.Ability{
		ID:      gamedata.PackID(1, 9),
		Name:    "Broken",
		Effects: []gamedata.Effect{{Kind: gamedata.EffectBuff, Stat: actor.StatHit}},
	}
	h := newHarness(&script{}, nil)
	id := h.spawn(fighter("x", 0, 0, 0, 0, 10))
	require.NoError(t, h.p.UseAbility(id, broken, []actor.ID{id}, 1))
	assert.Empty(t, h.store.Get(id).Modifiers)
}

func TestChainedBuffs(t *testing.T) {
	rally := gamedata.Ability{
		ID:   gamedata.PackID(2, 2),
		Name: "Rally",
		Effects: []gamedata.Effect{{
			Kind:       gamedata.EffectBuff,
			Stat:       actor.StatHit,
			Multiplier: 1.2,
			Chained:    []uint16{gamedata.PackID(1, 3), gamedata.PackID(9, 9)},
		}},
		Duration: 3,
	}
	guardUp := gamedata.Ability{
		ID:   gamedata.PackID(1, 3),
		Name: "Guard Up",
		Effects: []gamedata.Effect{{
			Kind:       gamedata.EffectBuff,
			Stat:       actor.StatArmor,
			Multiplier: 1.5,
			Chained:    []uint16{gamedata.PackID(2, 2)}, // cycles back
		}},
		Duration: 2,
	}
	catalog := gamedata.NewCatalog([]gamedata.Ability{rally, guardUp})

	h := newHarness(&script{}, catalog)
	caster := h.spawn(fighter("petrus", 18, 80, 20, 7, 180))
	ally := h.spawn(fighter("rina", 14, 90, 10, 14, 90))
	targets := []actor.ID{caster, ally}

	require.NoError(t, h.p.UseAbility(caster, &rally, targets, 4))
	for _, id := range targets {
		mods := h.store.Get(id).Modifiers
		require.Len(t, mods, 2, "each ability resolves once")
		assert.Equal(t, actor.StatHit, mods[0].Stat)
		assert.Equal(t, uint32(7), *mods[0].ExpiresAt)
		assert.Equal(t, actor.StatArmor, mods[1].Stat)
		assert.Equal(t, uint32(6), *mods[1].ExpiresAt)
		assert.Equal(t, actor.FromAbility(guardUp.ID), mods[1].Source)
	}
	assert.Equal(t, 4, h.rec.Count(event.KindBuffApplied))
}

func TestChainWithoutCatalog(t *testing.T) {
	rally := &gamedata.Ability{
		ID:       gamedata.PackID(2, 2),
		Name:     "Rally",
		Effects:  []gamedata.Effect{{Kind: gamedata.EffectBuff, Stat: actor.StatHit, Multiplier: 1.2, Chained: []uint16{0x0103}}},
		Duration: 3,
	}
	h := newHarness(&script{}, nil)
	id := h.spawn(fighter("x", 0, 0, 0, 0, 10))
	require.NoError(t, h.p.UseAbility(id, rally, []actor.ID{id}, 1))
	assert.Len(t, h.store.Get(id).Modifiers, 1)
}

func TestAbilityCosts(t *testing.T) {
	fireBolt := &gamedata.Ability{
		ID:        gamedata.PackID(1, 4),
		Name:      "Fire Bolt",
		MagicCost: -10,
		Effects:   []gamedata.Effect{{Kind: gamedata.EffectDamage, Floor: 10, Ceiling: 18}},
	}

	tests := []struct {
		name      string
		magic     *actor.Resource
		wantErr   error
		wantMagic int32
	}{
		{"affordable", &actor.Resource{Current: 25, Max: 60}, nil, 15},
		{"exactly affordable", &actor.Resource{Current: 10, Max: 60}, nil, 0},
		{"too expensive", &actor.Resource{Current: 9, Max: 60}, ErrCannotAfford, 9},
		{"no magic block", nil, ErrCannotAfford, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(&script{}, nil)
			c := fighter("toshiko", 8, 75, 6, 10, 70)
			c.Magic = tt.magic
			caster := h.spawn(c)
			tgt := h.spawn(fighter("target", 0, 0, 0, 0, 100))

			err := h.p.UseAbility(caster, fireBolt, []actor.ID{tgt}, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, h.p.Pending())
			} else {
				require.NoError(t, err)
				assert.Len(t, h.p.Pending(), 1)
			}
			if tt.magic != nil {
				assert.Equal(t, tt.wantMagic, h.store.Get(caster).Magic.Current)
			}
		})
	}
}

func TestPositiveCostRefills(t *testing.T) {
	drain := &gamedata.Ability{ID: 0x0105, Name: "Drain", HealthCost: 15, MagicCost: -5}
	h := newHarness(&script{}, nil)
	c := fighter("x", 0, 0, 0, 0, 100)
	c.Health.Current = 90
	c.Magic = actor.NewResource(20, 0)
	id := h.spawn(c)

	require.NoError(t, h.p.UseAbility(id, drain, nil, 1))
	assert.Equal(t, int32(100), h.store.Get(id).Health.Current)
	assert.Equal(t, int32(15), h.store.Get(id).Magic.Current)
}

func TestAbilityCooldown(t *testing.T) {
	mend := healAbility(5, 5)
	mend.Cooldown = 2
	h := newHarness(&script{}, nil)
	id := h.spawn(fighter("healer", 0, 0, 0, 0, 100))

	require.NoError(t, h.p.UseAbility(id, mend, []actor.ID{id}, 10))
	assert.ErrorIs(t, h.p.UseAbility(id, mend, []actor.ID{id}, 11), ErrOnCooldown)
	assert.NoError(t, h.p.UseAbility(id, mend, []actor.ID{id}, 12))
}

func TestUseAbilityUnknownCaster(t *testing.T) {
	h := newHarness(&script{}, nil)
	assert.ErrorIs(t, h.p.UseAbility(42, healAbility(1, 2), nil, 1), ErrUnknownCaster)
}

func TestDefend(t *testing.T) {
	h := newHarness(&script{}, nil)
	id := h.spawn(fighter("hero", 14, 80, 10, 10, 120))
	h.p.Defend(id)

	mods := h.store.Get(id).Modifiers
	require.Len(t, mods, 1)
	assert.Nil(t, mods[0].ExpiresAt)
	assert.True(t, mods[0].FromActorID(id))
	assert.Equal(t, 15.0, h.store.Effective(id, actor.StatArmor))

	h.p.Defend(999) // unknown actors are ignored
}
