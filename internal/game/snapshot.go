package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/expiry"
	"github.com/samdwyer/turncore/internal/rng"
	"github.com/samdwyer/turncore/internal/turn"
)

// SnapshotVersion is the schema version written into every snapshot.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when restoring a snapshot from another schema version.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot is the persistent state of a battle between turns.
type Snapshot struct {
	Version    int           `json:"version"`
	Seed       int64         `json:"seed"`
	Position   int64         `json:"rng_position"`
	MaxTicks   uint32        `json:"max_ticks,omitempty"`
	Scheduler  turn.State    `json:"scheduler"`
	Swept      *uint32       `json:"swept,omitempty"` // last timestamp the expiry sweep ran for
	Actors     []ActorRecord `json:"actors"`
	Buffs      []actor.Buff  `json:"buffs,omitempty"`
	Players    []actor.ID    `json:"players,omitempty"`
	Current    actor.ID      `json:"current,omitempty"`
	Acted      bool          `json:"acted,omitempty"`
	RoundOpen  bool          `json:"round_open,omitempty"`
	IdleRounds int           `json:"idle_rounds,omitempty"`
	Started    bool          `json:"started,omitempty"`
	Outcome    Outcome       `json:"outcome"`
}

// DeathRecord is the serialised death behavior.
type DeathRecord struct {
	Kind      string   `json:"kind"` // "enemy" or "ally"
	XPReward  uint32   `json:"xp_reward,omitempty"`
	LootTable []string `json:"loot_table,omitempty"`
}

// ActorRecord is one actor's full stat block.
type ActorRecord struct {
	ID          actor.ID               `json:"id"`
	Name        string                 `json:"name"`
	Class       string                 `json:"class,omitempty"`
	Side        actor.Side             `json:"side"`
	Passive     actor.Passive          `json:"passive,omitempty"`
	Health      *actor.Resource        `json:"health,omitempty"`
	Magic       *actor.Resource        `json:"magic,omitempty"`
	Stamina     *actor.Resource        `json:"stamina,omitempty"`
	ExtraHP     *actor.ExtraHP         `json:"extra_hp,omitempty"`
	Stats       *actor.CombatStats     `json:"stats,omitempty"`
	Growth      actor.GrowthAttributes `json:"growth"`
	Curve       *actor.GrowthCurve     `json:"curve,omitempty"`
	Points      actor.PointPool        `json:"points"`
	Experience  uint32                 `json:"experience"`
	Accumulated uint32                 `json:"accumulated"`
	Modifiers   []actor.StatModifier   `json:"modifiers,omitempty"`
	Buffs       []actor.BuffID         `json:"buffs,omitempty"`
	Equipment   []actor.Equipment      `json:"equipment,omitempty"`
	Abilities   []uint16               `json:"abilities,omitempty"`
	Cooldowns   map[uint16]uint32      `json:"cooldowns,omitempty"`
	AIProfile   string                 `json:"ai_profile,omitempty"`
	Position    actor.Vec2             `json:"position"`
	Facing      actor.Vec2             `json:"facing"`
	Stunned     uint32                 `json:"stunned_until,omitempty"`
	Dead        bool                   `json:"dead,omitempty"`
	Death       DeathRecord            `json:"death"`
}

// Snapshot captures the battle. Take it between turns: damage still queued
// in the pipeline is not part of it.
func (b *Battle) Snapshot() Snapshot {
	s := Snapshot{
		Version:    SnapshotVersion,
		Seed:       b.dice.r.Seed(),
		Position:   b.dice.r.Position(),
		MaxTicks:   b.cfg.MaxTicks,
		Scheduler:  b.scheduler.State(),
		Current:    b.current,
		Acted:      b.acted,
		RoundOpen:  b.roundOpen,
		IdleRounds: b.idleRounds,
		Started:    b.started,
		Outcome:    b.outcome,
	}
	if last, ok := b.expirer.Last(); ok {
		s.Swept = &last
	}
	for _, a := range b.store.All() {
		s.Actors = append(s.Actors, recordOf(a))
		if b.players[a.ID] {
			s.Players = append(s.Players, a.ID)
		}
	}
	for _, buf := range b.store.Buffs() {
		s.Buffs = append(s.Buffs, *buf)
	}
	return s
}

// Restore replaces the battle's state with s. Listeners, the catalog and
// AI profiles are kept.
func (b *Battle) Restore(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}
	actors := make([]*actor.Actor, 0, len(s.Actors))
	for _, r := range s.Actors {
		actors = append(actors, r.actor())
	}
	b.store.Restore(actors, s.Buffs)
	b.scheduler.Restore(s.Scheduler)
	b.dice.r = rng.Restore(s.Seed, s.Position)
	b.expirer = &expiry.Expirer{}
	if s.Swept != nil {
		b.expirer.Reset(*s.Swept)
	}

	b.cfg.Seed = s.Seed
	b.cfg.MaxTicks = s.MaxTicks
	b.players = make(map[actor.ID]bool, len(s.Players))
	for _, id := range s.Players {
		b.players[id] = true
	}
	b.current = s.Current
	b.acted = s.Acted
	b.roundOpen = s.RoundOpen
	b.idleRounds = s.IdleRounds
	b.started = s.Started
	b.outcome = s.Outcome
	return nil
}

// Marshal encodes the snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// ParseSnapshot decodes a JSON snapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func recordOf(a *actor.Actor) ActorRecord {
	c := a.Clone()
	r := ActorRecord{
		ID:          c.ID,
		Name:        c.Name,
		Class:       c.Class,
		Side:        c.Side,
		Passive:     c.Passive,
		Health:      c.Health,
		Magic:       c.Magic,
		Stamina:     c.Stamina,
		ExtraHP:     c.ExtraHP,
		Stats:       c.Stats,
		Growth:      c.Growth,
		Curve:       c.Curve,
		Points:      c.Points,
		Experience:  c.Experience,
		Accumulated: c.Accumulated,
		AIProfile:   c.AIProfile,
		Position:    c.Position,
		Facing:      c.Facing,
		Stunned:     c.StunnedUntil,
		Dead:        c.Dead,
		Death:       DeathRecord{Kind: "ally"},
	}
	if len(c.Modifiers) > 0 {
		r.Modifiers = c.Modifiers
	}
	if len(c.Buffs) > 0 {
		r.Buffs = c.Buffs
	}
	if len(c.Equipment) > 0 {
		r.Equipment = c.Equipment
	}
	if len(c.Abilities) > 0 {
		r.Abilities = c.Abilities
	}
	if len(c.Cooldowns) > 0 {
		r.Cooldowns = c.Cooldowns
	}
	if d, ok := c.Death.(actor.EnemyDeath); ok {
		r.Death = DeathRecord{Kind: "enemy", XPReward: d.XPReward}
		if len(d.LootTable) > 0 {
			r.Death.LootTable = append([]string(nil), d.LootTable...)
		}
	}
	return r
}

func (r ActorRecord) actor() *actor.Actor {
	a := &actor.Actor{
		ID:           r.ID,
		Name:         r.Name,
		Class:        r.Class,
		Side:         r.Side,
		Passive:      r.Passive,
		Health:       r.Health,
		Magic:        r.Magic,
		Stamina:      r.Stamina,
		ExtraHP:      r.ExtraHP,
		Stats:        r.Stats,
		Growth:       r.Growth,
		Curve:        r.Curve,
		Points:       r.Points,
		Experience:   r.Experience,
		Accumulated:  r.Accumulated,
		Modifiers:    r.Modifiers,
		Buffs:        r.Buffs,
		Equipment:    r.Equipment,
		Abilities:    r.Abilities,
		Cooldowns:    maps.Clone(r.Cooldowns),
		AIProfile:    r.AIProfile,
		Position:     r.Position,
		Facing:       r.Facing,
		StunnedUntil: r.Stunned,
		Dead:         r.Dead,
		Death:        actor.AllyDeath{},
	}
	if r.Death.Kind == "enemy" {
		a.Death = actor.EnemyDeath{XPReward: r.Death.XPReward, LootTable: r.Death.LootTable}
	}
	return a.Clone()
}
