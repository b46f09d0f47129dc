package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/growth"
)

func newBattle(t *testing.T, cfg Config) (*Battle, *event.Recorder) {
	t.Helper()
	profiles, err := gamedata.LoadProfiles()
	require.NoError(t, err)
	b, err := New(cfg, gamedata.MustLoadCatalog(), profiles)
	require.NoError(t, err)
	rec := &event.Recorder{}
	b.Subscribe(rec.Record)
	return b, rec
}

// unit builds an actor with no AI profile, so it waits unless told otherwise.
func unit(name string, side actor.Side, hp, lethality, hit, armor, agility int32) *actor.Actor {
	return &actor.Actor{
		Name:       name,
		Side:       side,
		Health:     actor.NewResource(hp, 0),
		Stats:      &actor.CombatStats{Lethality: lethality, Hit: hit, Armor: armor, Agility: agility},
		Experience: actor.XPPerLevel,
	}
}

// stepToPlayer steps until a player-controlled actor holds the turn.
func stepToPlayer(t *testing.T, b *Battle) actor.ID {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		if id, waiting := b.Current(); waiting {
			return id
		}
		require.NoError(t, b.Step(ctx))
	}
	t.Fatal("no player turn came up")
	return 0
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{OutcomeOngoing, "ongoing"},
		{OutcomeVictory, "victory"},
		{OutcomeDefeat, "defeat"},
		{OutcomeStalemate, "stalemate"},
		{Outcome(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.outcome.String())
	}
}

func TestOutcomeText(t *testing.T) {
	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("defeat")))
	assert.Equal(t, OutcomeDefeat, o)
	assert.Error(t, o.UnmarshalText([]byte("draw")))
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Config{Seed: 1}, nil, nil)
	assert.Error(t, err)
}

func TestNewRejectsBadProfiles(t *testing.T) {
	profiles := map[string]gamedata.ProfileDef{
		"broken": {Logic: []gamedata.RuleDef{{If: "moon_is_full", Then: "Attack"}}},
	}
	_, err := New(Config{Seed: 1}, gamedata.MustLoadCatalog(), profiles)
	assert.Error(t, err)
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()
	b, _ := newBattle(t, Config{Seed: 7})
	hero := b.SpawnPlayer(unit("hero", actor.SideAlly, 500, 10, 80, 5, 10))
	raider := b.Spawn(unit("raider", actor.SideEnemy, 500, 10, 80, 5, 10))

	require.ErrorIs(t, b.Submit(ctx, hero, Wait()), ErrNotYourTurn, "nobody holds the turn yet")
	require.Equal(t, hero, stepToPlayer(t, b))

	assert.ErrorIs(t, b.Step(ctx), ErrAwaitingIntent)
	assert.ErrorIs(t, b.Submit(ctx, 999, Wait()), ErrUnknownActor)
	assert.ErrorIs(t, b.Submit(ctx, raider, Wait()), ErrNotYourTurn)
	require.NoError(t, b.Submit(ctx, hero, Defend()))
	assert.ErrorIs(t, b.Submit(ctx, hero, Wait()), ErrAlreadyActed, "one submission per turn")
}

func TestTurnEventsBracketEachTurn(t *testing.T) {
	b, rec := newBattle(t, Config{Seed: 11, MaxTicks: 12})
	b.Spawn(unit("a", actor.SideAlly, 100, 1, 1, 0, 9))
	b.Spawn(unit("b", actor.SideEnemy, 100, 1, 1, 0, 5))

	outcome, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStalemate, outcome)
	assert.Equal(t, uint32(12), b.Now())

	assert.Equal(t, 12, rec.Count(event.KindTurnStart))
	assert.Equal(t, 12, rec.Count(event.KindTurnEnd))
	require.NotEmpty(t, rec.Events)
	assert.Equal(t, event.KindRoundStart, rec.Events[0].Kind())
	assert.Equal(t, event.KindBattleEnd, rec.Events[len(rec.Events)-1].Kind())

	// every turn start is followed by its own turn end before the next turn starts
	var open *event.TurnStart
	for _, e := range rec.Events {
		switch ev := e.(type) {
		case event.TurnStart:
			require.Nil(t, open)
			open = &ev
		case event.TurnEnd:
			require.NotNil(t, open)
			assert.Equal(t, open.Actor, ev.Actor)
			assert.Equal(t, open.Tick, ev.Tick)
			open = nil
		}
	}
	assert.GreaterOrEqual(t, rec.Count(event.KindRoundStart), rec.Count(event.KindRoundEnd))
}

func TestRegenAtTurnStart(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 3})
	hero := unit("hero", actor.SideAlly, 100, 10, 80, 5, 10)
	hero.Health = &actor.Resource{Current: 50, Max: 100, Regen: 5}
	hero.Stamina = &actor.Resource{Current: 98, Max: 100, Regen: 5}
	id := b.SpawnPlayer(hero)
	b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 1))

	stepToPlayer(t, b)
	v, ok := b.Actor(id)
	require.True(t, ok)
	assert.Equal(t, int32(55), v.Health.Current)
	assert.Equal(t, int32(100), v.Stamina.Current, "regen saturates at max")
}

func TestDefendLastsUntilNextTurn(t *testing.T) {
	ctx := context.Background()
	b, _ := newBattle(t, Config{Seed: 5})
	hero := b.SpawnPlayer(unit("hero", actor.SideAlly, 100, 10, 80, 10, 10))
	b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 10))

	stepToPlayer(t, b)
	require.NoError(t, b.Submit(ctx, hero, Defend()))
	v, _ := b.Actor(hero)
	require.Len(t, v.Modifiers, 1)
	assert.Equal(t, actor.StatArmor, v.Modifiers[0].Stat)
	assert.InDelta(t, 15.0, b.Effective(hero, actor.StatArmor), 1e-9)

	stepToPlayer(t, b)
	v, _ = b.Actor(hero)
	assert.Empty(t, v.Modifiers)
	assert.InDelta(t, 10.0, b.Effective(hero, actor.StatArmor), 1e-9)
}

func TestStunnedActorLosesTurn(t *testing.T) {
	b, rec := newBattle(t, Config{Seed: 9, MaxTicks: 6})
	hero := unit("hero", actor.SideAlly, 100, 10, 80, 10, 10)
	hero.StunnedUntil = 1000
	id := b.SpawnPlayer(hero)
	b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 10))

	outcome, err := b.Run(context.Background())
	require.NoError(t, err, "a stunned player never blocks the loop")
	assert.Equal(t, OutcomeStalemate, outcome)

	var turns int
	for _, e := range rec.OfKind(event.KindTurnStart) {
		if e.(event.TurnStart).Actor == id {
			turns++
		}
	}
	assert.Positive(t, turns)
}

func TestKillAwardsXPAndLoot(t *testing.T) {
	ctx := context.Background()
	b, rec := newBattle(t, Config{Seed: 21})
	hero := unit("hero", actor.SideAlly, 10000, 500, 1_000_000, 0, 10)
	hero.Experience = 2*actor.XPPerLevel - 1
	heroID := b.SpawnPlayer(hero)

	raider := unit("raider", actor.SideEnemy, 40, 1, 1, 0, 0)
	raider.Experience = 2 * actor.XPPerLevel
	raider.Death = actor.EnemyDeath{XPReward: 2 * actor.XPPerLevel, LootTable: []string{"copper_coin"}}
	raiderID := b.Spawn(raider)

	stepToPlayer(t, b)
	require.NoError(t, b.Submit(ctx, heroID, Attack(raiderID)))

	deaths := rec.OfKind(event.KindDeath)
	require.Len(t, deaths, 1)
	death := deaths[0].(event.Death)
	assert.Equal(t, raiderID, death.Actor)
	require.NotNil(t, death.Killer)
	assert.Equal(t, heroID, *death.Killer)

	want := growth.XPAward(2*actor.XPPerLevel, 2*actor.XPPerLevel-1)
	awards := rec.OfKind(event.KindXPAward)
	require.Len(t, awards, 1)
	assert.Equal(t, event.XPAward{Actor: heroID, From: raiderID, Amount: want}, awards[0])

	ups := rec.OfKind(event.KindLevelUp)
	require.Len(t, ups, 1)
	assert.Equal(t, event.LevelUp{Actor: heroID, OldLevel: 1, NewLevel: 2}, ups[0])
	v, _ := b.Actor(heroID)
	assert.Equal(t, uint32(growth.PointsPerLevel), v.Points.Available)

	loot := rec.OfKind(event.KindLootDrop)
	require.Len(t, loot, 1)
	assert.Equal(t, []string{"copper_coin"}, loot[0].(event.LootDrop).Items)

	assert.Equal(t, OutcomeVictory, b.Outcome())
	end := rec.OfKind(event.KindBattleEnd)
	require.Len(t, end, 1)
	assert.Equal(t, "victory", end[0].(event.BattleEnd).Outcome)
	assert.ErrorIs(t, b.Step(ctx), ErrBattleOver)
	assert.ErrorIs(t, b.Submit(ctx, heroID, Wait()), ErrBattleOver)

	rv, _ := b.Actor(raiderID)
	assert.False(t, rv.Alive)
	assert.NotContains(t, b.scheduler.Participants(), raiderID)
}

func TestAllyDeathEndsInDefeat(t *testing.T) {
	b, rec := newBattle(t, Config{Seed: 13, MaxTicks: 200})
	b.Spawn(unit("victim", actor.SideAlly, 30, 0, 0, 0, 5))
	brute := unit("brute", actor.SideEnemy, 500, 100, 1_000_000, 0, 10)
	brute.AIProfile = "skirmisher"
	b.Spawn(brute)

	outcome, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDefeat, outcome)
	assert.Zero(t, rec.Count(event.KindXPAward), "ally deaths award nothing")
	assert.Zero(t, rec.Count(event.KindLootDrop))
	assert.Equal(t, 1, rec.Count(event.KindDeath))
}

func TestAbilityAreaTargets(t *testing.T) {
	ctx := context.Background()
	b, rec := newBattle(t, Config{Seed: 17})
	cleave := gamedata.PackID(2, 1)

	hero := unit("hero", actor.SideAlly, 1000, 20, 1_000_000, 0, 10)
	hero.Stamina = actor.NewResource(100, 0)
	hero.Abilities = []uint16{cleave}
	heroID := b.SpawnPlayer(hero)

	near := unit("near", actor.SideEnemy, 1000, 0, 0, 0, 0)
	near.Position = actor.Vec2{X: 2}
	nearID := b.Spawn(near)
	diagonal := unit("diagonal", actor.SideEnemy, 1000, 0, 0, 0, 0)
	diagonal.Position = actor.Vec2{X: 1, Y: 2}
	diagonalID := b.Spawn(diagonal)
	far := unit("far", actor.SideEnemy, 1000, 0, 0, 0, 0)
	far.Position = actor.Vec2{X: 10, Y: 10}
	b.Spawn(far)

	stepToPlayer(t, b)
	require.NoError(t, b.Submit(ctx, heroID, UseAbility(cleave, nearID)))

	var hit []actor.ID
	for _, e := range rec.OfKind(event.KindAfterHit) {
		hit = append(hit, e.(event.AfterHit).Target)
	}
	assert.ElementsMatch(t, []actor.ID{nearID, diagonalID}, hit)

	v, _ := b.Actor(heroID)
	assert.Equal(t, int32(80), v.Stamina.Current)
}

func TestInvalidIntentsPassTheTurn(t *testing.T) {
	tests := []struct {
		name   string
		intent func(self, enemy actor.ID) Intent
	}{
		{"unknown ability", func(_, enemy actor.ID) Intent { return UseAbility(0xFFFF, enemy) }},
		{"ability not known", func(_, enemy actor.ID) Intent { return UseAbility(gamedata.PackID(3, 1), enemy) }},
		{"attack self", func(self, _ actor.ID) Intent { return Attack(self) }},
		{"attack nobody", func(_, _ actor.ID) Intent { return Attack(4242) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b, rec := newBattle(t, Config{Seed: 23})
			heroID := b.SpawnPlayer(unit("hero", actor.SideAlly, 100, 20, 80, 0, 10))
			enemyID := b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 1))

			stepToPlayer(t, b)
			require.NoError(t, b.Submit(ctx, heroID, tt.intent(heroID, enemyID)))
			assert.Zero(t, rec.Count(event.KindAfterHit))
			assert.Zero(t, rec.Count(event.KindMiss))
			_, waiting := b.Current()
			assert.False(t, waiting)
		})
	}
}

func TestUnaffordableAbilityPassesTheTurn(t *testing.T) {
	ctx := context.Background()
	b, rec := newBattle(t, Config{Seed: 29})
	slash := gamedata.PackID(1, 1)
	hero := unit("hero", actor.SideAlly, 100, 20, 1_000_000, 0, 10)
	hero.Stamina = actor.NewResource(5, 0)
	hero.Abilities = []uint16{slash}
	heroID := b.SpawnPlayer(hero)
	enemyID := b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 1))

	stepToPlayer(t, b)
	require.NoError(t, b.Submit(ctx, heroID, UseAbility(slash, enemyID)))
	assert.Zero(t, rec.Count(event.KindAfterHit))
	v, _ := b.Actor(heroID)
	assert.Equal(t, int32(5), v.Stamina.Current)
}

func TestAIBattleFinishes(t *testing.T) {
	classes, err := gamedata.LoadClassRegistry()
	require.NoError(t, err)
	enemies, err := gamedata.LoadEnemyRegistry()
	require.NoError(t, err)
	items, err := gamedata.LoadItemRegistry()
	require.NoError(t, err)

	b, rec := newBattle(t, Config{Seed: 42, MaxTicks: 2000})
	b.Deploy(
		classes.GetMultiple([]string{"petrus", "rina", "toshiko"}),
		[]*gamedata.EnemyDef{enemies.GetByID("raider"), enemies.GetByID("brute"), enemies.GetByID("skulker")},
		items,
	)

	outcome, err := b.Run(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, OutcomeOngoing, outcome)
	assert.Equal(t, 1, rec.Count(event.KindBattleEnd))
	assert.Empty(t, b.Pipeline().Defects())

	switch outcome {
	case OutcomeVictory:
		assert.Empty(t, b.store.Living(actor.SideEnemy))
	case OutcomeDefeat:
		assert.Empty(t, b.store.Living(actor.SideAlly))
	}
	for _, v := range b.Actors() {
		assert.GreaterOrEqual(t, v.Health.Current, int32(0))
		assert.LessOrEqual(t, v.Health.Current, v.Health.Max)
	}
}

func TestRunStopsForPlayers(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 31})
	b.SpawnPlayer(unit("hero", actor.SideAlly, 100, 20, 80, 0, 10))
	b.Spawn(unit("dummy", actor.SideEnemy, 100, 0, 0, 0, 1))

	outcome, err := b.Run(context.Background())
	assert.True(t, errors.Is(err, ErrAwaitingIntent))
	assert.Equal(t, OutcomeOngoing, outcome)
}

func TestRunHonoursContext(t *testing.T) {
	b, _ := newBattle(t, Config{Seed: 37})
	b.Spawn(unit("a", actor.SideAlly, 100, 0, 0, 0, 5))
	b.Spawn(unit("b", actor.SideEnemy, 100, 0, 0, 0, 5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
