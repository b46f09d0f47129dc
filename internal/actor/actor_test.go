package actor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceSaturates(t *testing.T) {
	tests := []struct {
		name    string
		start   Resource
		delta   int32
		want    int32
		applied int32
	}{
		{"heal within max", Resource{Current: 5, Max: 10}, 3, 8, 3},
		{"heal past max", Resource{Current: 8, Max: 10}, 5, 10, 2},
		{"damage within", Resource{Current: 8, Max: 10}, -3, 5, -3},
		{"damage past zero", Resource{Current: 2, Max: 10}, -7, 0, -2},
		{"overflow", Resource{Current: math.MaxInt32, Max: math.MaxInt32}, math.MaxInt32, math.MaxInt32, 0},
		{"underflow", Resource{Current: 0, Max: 10}, math.MinInt32, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.start
			got := r.Add(tt.delta)
			assert.Equal(t, tt.want, r.Current)
			assert.Equal(t, tt.applied, got)
		})
	}
}

func TestResourceSubReturnsApplied(t *testing.T) {
	r := Resource{Current: 4, Max: 10}
	assert.Equal(t, int32(4), r.Sub(9))
	assert.Equal(t, int32(0), r.Current)
	assert.Equal(t, int32(0), r.Sub(-5), "negative amounts are ignored")
}

func TestRegenerateStopsAtMax(t *testing.T) {
	a := &Actor{
		Health:  &Resource{Current: 95, Max: 100, Regen: 10},
		Magic:   &Resource{Current: 0, Max: 50, Regen: 3},
		Stamina: nil,
	}
	a.Regenerate()
	assert.Equal(t, int32(100), a.Health.Current)
	assert.Equal(t, int32(3), a.Magic.Current)
}

func TestGrowRaisesMaxAndCurrent(t *testing.T) {
	r := NewResource(100, 2)
	r.Current = 40
	r.Grow(31, 4)
	assert.Equal(t, int32(131), r.Max)
	assert.Equal(t, int32(71), r.Current)
	assert.Equal(t, int32(6), r.Regen)
}

func TestExtraHPAbsorb(t *testing.T) {
	e := ExtraHP{Current: 40, Max: 40}
	assert.Equal(t, int32(0), e.Absorb(25))
	assert.Equal(t, int32(15), e.Current)
	assert.Equal(t, int32(10), e.Absorb(25), "splits across both pools")
	assert.Equal(t, int32(0), e.Current)
	assert.Equal(t, int32(7), e.Absorb(7))
}

func TestLevelFromExperience(t *testing.T) {
	a := &Actor{}
	assert.Equal(t, uint32(0), a.Level())
	a.Experience = XPPerLevel - 1
	assert.Equal(t, uint32(0), a.Level())
	a.Experience = XPPerLevel
	assert.Equal(t, uint32(1), a.Level())
	a.Experience = 5*XPPerLevel + 123
	assert.Equal(t, uint32(5), a.Level())
}

func TestValueIncludesEquipment(t *testing.T) {
	a := &Actor{
		Stats: &CombatStats{Lethality: 18, Hit: 80, Agility: 7},
		Equipment: []Equipment{
			{ID: 5001, Name: "Silversteel Blade", Bonus: CombatStats{Lethality: 10, Hit: 5, Agility: 2}},
		},
		Health: &Resource{Current: 70, Max: 180, Regen: 2},
	}
	assert.Equal(t, int32(28), a.Value(StatLethality))
	assert.Equal(t, int32(85), a.Value(StatHit))
	assert.Equal(t, int32(9), a.Value(StatAgility))
	assert.Equal(t, int32(70), a.Value(StatHealth))
	assert.Equal(t, int32(2), a.Value(StatHealthRegen))
	assert.Equal(t, int32(0), a.Value(StatMagic), "missing block reads zero")

	bare := &Actor{}
	assert.Equal(t, int32(0), bare.Value(StatArmor))
}

func TestStatTextRoundTrip(t *testing.T) {
	for s := StatHealth; s <= StatMovement; s++ {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got Stat
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}
	var bad Stat
	assert.Error(t, bad.UnmarshalText([]byte("charisma")))
}

func TestModifierExpiry(t *testing.T) {
	m := Timed(StatArmor, 1.5, 10, nil)
	assert.False(t, m.Expired(9))
	assert.True(t, m.Expired(10))
	assert.False(t, Permanent(StatArmor, 2, nil).Expired(math.MaxUint32))
}

func TestRemoveModifiers(t *testing.T) {
	a := &Actor{}
	a.AddModifier(Timed(StatHit, 1.1, 3, FromActor(1)))
	a.AddModifier(Permanent(StatLethality, 2, nil))
	a.AddModifier(Timed(StatArmor, 1.5, 9, FromActor(2)))

	removed := a.RemoveModifiers(func(m StatModifier) bool { return m.FromActorID(1) })
	assert.Equal(t, 1, removed)
	require.Len(t, a.Modifiers, 2)
	assert.Equal(t, StatLethality, a.Modifiers[0].Stat)
	assert.InDelta(t, 2.0, a.Multiplier(StatLethality), 1e-9)
	assert.InDelta(t, 1.0, a.Multiplier(StatHit), 1e-9)
}

func TestCooldowns(t *testing.T) {
	a := &Actor{}
	assert.True(t, a.Ready(0x0101, 0))
	a.StartCooldown(0x0101, 5, 3)
	assert.False(t, a.Ready(0x0101, 7))
	assert.True(t, a.Ready(0x0101, 8))
	a.StartCooldown(0x0102, 5, 0)
	assert.True(t, a.Ready(0x0102, 5))
}

func TestCloneIsDeep(t *testing.T) {
	a := &Actor{
		Health:    NewResource(10, 1),
		Stats:     &CombatStats{Lethality: 5},
		Cooldowns: map[uint16]uint32{1: 2},
	}
	a.AddModifier(Timed(StatHit, 1.1, 4, FromAbility(0x0101)))

	c := a.Clone()
	c.Health.Current = 1
	c.Stats.Lethality = 99
	*c.Modifiers[0].ExpiresAt = 100
	c.Cooldowns[1] = 50

	assert.Equal(t, int32(10), a.Health.Current)
	assert.Equal(t, int32(5), a.Stats.Lethality)
	assert.Equal(t, uint32(4), *a.Modifiers[0].ExpiresAt)
	assert.Equal(t, uint32(2), a.Cooldowns[1])
}

func TestPassiveParsing(t *testing.T) {
	assert.Equal(t, PassiveDefensive, ParsePassive("Defensive"))
	assert.Equal(t, PassiveEvasive, ParsePassive("evasive"))
	assert.Equal(t, PassiveShield, ParsePassive("shield"))
	assert.Equal(t, PassiveNone, ParsePassive("bard"))
}
