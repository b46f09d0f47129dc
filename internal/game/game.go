package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/ai"
	"github.com/samdwyer/turncore/internal/combat"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/expiry"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/rng"
	"github.com/samdwyer/turncore/internal/telemetry"
	"github.com/samdwyer/turncore/internal/turn"
)

// maxIdleRounds is how many rounds in a row may pass without a single turn
// before the battle is called a stalemate.
const maxIdleRounds = 1000

// dice lets a restore swap the RNG under the scheduler and pipeline.
type dice struct {
	r *rng.RNG
}

func (d *dice) Float64() float64 { return d.r.Float64() }
func (d *dice) Intn(n int) int   { return d.r.Intn(n) }

// Battle holds the entire state of one fight.
// It is not safe for concurrent use; run independent battles on separate goroutines.
type Battle struct {
	cfg       Config
	store     *actor.Store
	dice      *dice
	bus       *event.Bus
	catalog   *gamedata.Catalog
	ai        *ai.Evaluator
	scheduler *turn.Scheduler
	pipeline  *combat.Pipeline
	expirer   *expiry.Expirer
	tracer    trace.Tracer

	players    map[actor.ID]bool
	current    actor.ID // actor holding the turn, 0 before the first turn
	acted      bool
	roundOpen  bool
	idleRounds int
	started    bool
	outcome    Outcome
}

// New creates an empty battle. Abilities resolve through catalog and AI
// actors decide with the given profiles.
func New(cfg Config, catalog *gamedata.Catalog, profiles map[string]gamedata.ProfileDef) (*Battle, error) {
	if catalog == nil {
		return nil, errors.New("battle needs an ability catalog")
	}
	evaluator, err := ai.NewEvaluator(profiles, catalog)
	if err != nil {
		return nil, fmt.Errorf("compile ai profiles: %w", err)
	}
	if cfg.Seed == 0 {
		if cfg.Seed, err = rng.NewSeed(); err != nil {
			return nil, err
		}
	}

	store := actor.NewStore()
	d := &dice{r: rng.New(cfg.Seed)}
	bus := event.NewBus()
	return &Battle{
		cfg:       cfg,
		store:     store,
		dice:      d,
		bus:       bus,
		catalog:   catalog,
		ai:        evaluator,
		scheduler: turn.New(store, d),
		pipeline:  combat.New(store, d, bus, catalog),
		expirer:   &expiry.Expirer{},
		tracer:    telemetry.Tracer("battle"),
		players:   make(map[actor.ID]bool),
	}, nil
}

// Spawn adds an AI-controlled actor and registers it with the scheduler.
func (b *Battle) Spawn(a *actor.Actor) actor.ID {
	id := b.store.Spawn(a)
	b.scheduler.Add(id)
	slog.Debug("actor spawned", "actor", id, "name", a.Name, "side", a.Side, "level", a.Level())
	return id
}

// SpawnPlayer adds an actor whose turns wait for Submit.
func (b *Battle) SpawnPlayer(a *actor.Actor) actor.ID {
	id := b.Spawn(a)
	b.players[id] = true
	return id
}

// Deploy spawns allies from class templates and enemies from enemy
// templates, lined up facing each other two units apart.
func (b *Battle) Deploy(classes []*gamedata.ClassDef, enemies []*gamedata.EnemyDef, items *gamedata.ItemRegistry) {
	for i, c := range classes {
		a := c.NewActor(items)
		a.Position = actor.Vec2{X: 0, Y: float64(2 * i)}
		a.Facing = actor.Vec2{X: 1}
		b.Spawn(a)
	}
	for i, e := range enemies {
		a := e.NewActor(items)
		a.Position = actor.Vec2{X: 2, Y: float64(2 * i)}
		a.Facing = actor.Vec2{X: -1}
		b.Spawn(a)
	}
}

// Subscribe registers h for every event the battle publishes.
func (b *Battle) Subscribe(h event.Handler) {
	b.bus.Subscribe(h)
}

// Pipeline exposes the damage pipeline so callers can add listeners.
func (b *Battle) Pipeline() *combat.Pipeline {
	return b.pipeline
}

// Run steps the battle until it ends. It stops early when ctx is done or
// when a player-controlled actor holds the turn (ErrAwaitingIntent).
func (b *Battle) Run(ctx context.Context) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return b.outcome, err
		}
		err := b.Step(ctx)
		switch {
		case errors.Is(err, ErrBattleOver):
			return b.outcome, nil
		case err != nil:
			return b.outcome, err
		}
	}
}

// Seed returns the seed the battle's RNG was created with.
func (b *Battle) Seed() int64 { return b.dice.r.Seed() }

// Outcome returns how the battle stands.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Now returns the world timestamp: the number of turns taken.
func (b *Battle) Now() uint32 { return b.scheduler.Tick() }

// Round returns how many rounds have ended.
func (b *Battle) Round() uint32 { return b.scheduler.Round() }

// Current returns the actor holding the turn and whether it still has to act.
func (b *Battle) Current() (actor.ID, bool) {
	return b.current, b.current != 0 && !b.acted
}
