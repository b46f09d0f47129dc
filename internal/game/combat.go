package game

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/ai"
	"github.com/samdwyer/turncore/internal/combat"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/expiry"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/growth"
	"github.com/samdwyer/turncore/internal/targeting"
	"github.com/samdwyer/turncore/internal/turn"
)

// Step advances the battle by one scheduler step: either a round boundary
// or one actor's turn. AI turns resolve immediately; a player-controlled
// actor keeps the turn until Submit is called, and Step returns
// ErrAwaitingIntent in the meantime.
func (b *Battle) Step(ctx context.Context) error {
	if b.outcome != OutcomeOngoing {
		return ErrBattleOver
	}
	if _, waiting := b.Current(); waiting {
		return ErrAwaitingIntent
	}
	if !b.started {
		b.start(ctx)
	}
	if b.checkBattleEnd() {
		b.endBattle(ctx)
		return ErrBattleOver
	}

	step := b.scheduler.Advance()
	switch step.Kind {
	case turn.StepRoundEnd:
		if !b.roundOpen {
			b.idleRounds++
			return nil
		}
		b.roundOpen = false
		b.bus.Publish(event.RoundEnd{Round: step.Round})
		slog.Debug("round ended", "round", step.Round, "tick", step.Tick)
	case turn.StepTurnStart:
		b.idleRounds = 0
		if !b.roundOpen {
			b.roundOpen = true
			order := append([]actor.ID{step.Actor}, b.scheduler.Queue()...)
			b.bus.Publish(event.RoundStart{Round: step.Round + 1, Order: order})
		}
		b.beginTurn(ctx, step)
	}
	return nil
}

// beginTurn runs the turn-start bookkeeping, then resolves AI turns.
func (b *Battle) beginTurn(ctx context.Context, step turn.Step) {
	a := b.store.Get(step.Actor)
	if a == nil || !a.Alive() {
		slog.Warn("turn handed to an actor that cannot act", "actor", step.Actor)
		b.scheduler.Remove(step.Actor)
		return
	}
	now := step.Tick
	b.expirer.Run(b.store, now)
	expiry.ForTurnStart(b.store, a.ID)
	a.Regenerate()

	b.current, b.acted = a.ID, false
	b.bus.Publish(event.TurnStart{Actor: a.ID, Tick: now})

	switch {
	case a.Stunned(now):
		slog.Debug("stunned actor loses its turn", "actor", a.ID, "until", a.StunnedUntil)
		b.resolveTurn(ctx, a, Wait())
	case b.players[a.ID]:
		// wait for Submit
	default:
		b.resolveTurn(ctx, a, b.decide(a, now))
	}
}

// decide maps the actor's AI decision to an intent. An ability the actor
// cannot use right now falls back to a plain attack on the weakest opponent.
func (b *Battle) decide(a *actor.Actor, now uint32) Intent {
	d := b.ai.Decide(a, b.store, now)
	switch d.Action {
	case ai.ActionAttack:
		if d.Target == 0 {
			return Wait()
		}
		return Attack(d.Target)
	case ai.ActionAbility:
		if !a.Knows(d.Ability.ID) || !a.Ready(d.Ability.ID, now) || !combat.CanAfford(a, d.Ability) {
			slog.Debug("ai ability unavailable, attacking instead", "actor", a.ID, "ability", d.Ability.Name)
			if target := ai.Target(b.opponents(a)); target != nil {
				return Attack(target.ID)
			}
			return Wait()
		}
		return UseAbility(d.Ability.ID, d.Target)
	case ai.ActionDefend:
		return Defend()
	default:
		return Wait()
	}
}

// resolveTurn carries out the intent, settles damage and deaths, and ends the turn.
func (b *Battle) resolveTurn(ctx context.Context, a *actor.Actor, in Intent) {
	now := b.scheduler.Tick()
	ctx, span := b.tracer.Start(ctx, "battle.turn")
	span.SetAttributes(
		attribute.Int("actor", int(a.ID)),
		attribute.String("name", a.Name),
		attribute.String("intent", in.Kind.String()),
		attribute.Int("tick", int(now)),
		attribute.Int("round", int(b.scheduler.Round()+1)),
	)
	defer span.End()

	b.acted = true
	b.act(ctx, a, in, now)
	b.bus.Publish(event.TurnEnd{Actor: a.ID, Tick: now})

	if b.checkBattleEnd() {
		b.endBattle(ctx)
	}
}

// act runs the intent through the damage pipeline.
func (b *Battle) act(ctx context.Context, a *actor.Actor, in Intent, now uint32) {
	_, span := b.tracer.Start(ctx, "combat.pipeline")
	defer span.End()

	switch in.Kind {
	case IntentAttack:
		target := b.store.Get(in.Target)
		if target == nil || !target.Alive() || target.ID == a.ID {
			slog.Warn("attack target unavailable, turn passes", "actor", a.ID, "target", in.Target)
			break
		}
		hit := b.pipeline.Attack(a.ID, target.ID, now)
		span.SetAttributes(attribute.Int("target", int(target.ID)), attribute.Bool("hit", hit))
	case IntentAbility:
		ability := b.catalog.Find(in.Ability)
		if ability == nil {
			slog.Warn("ability not found, turn passes", "actor", a.ID, "ability", in.Ability)
			break
		}
		if !a.Knows(ability.ID) {
			slog.Warn("actor does not know ability, turn passes", "actor", a.ID, "ability", ability.Name)
			break
		}
		targets := b.targetsFor(a, ability, in)
		if len(targets) == 0 {
			slog.Warn("no targets in range, turn passes", "actor", a.ID, "ability", ability.Name)
			break
		}
		span.SetAttributes(attribute.String("ability", ability.Name), attribute.Int("targets", len(targets)))
		if err := b.pipeline.UseAbility(a.ID, ability, targets, now); err != nil {
			slog.Warn("ability rejected, turn passes", "actor", a.ID, "ability", ability.Name, "error", err)
		}
	case IntentDefend:
		b.pipeline.Defend(a.ID)
	case IntentWait:
	}

	deaths := b.pipeline.Resolve()
	deaths = append(deaths, b.fallen(deaths)...)
	span.SetAttributes(attribute.Int("deaths", len(deaths)))
	b.handleDeaths(deaths)
}

// targetsFor resolves which actors an ability lands on. Select shapes take
// the chosen target directly; area shapes ask the geometry helper. The
// chosen target is kept first when the ability's target count truncates.
func (b *Battle) targetsFor(caster *actor.Actor, ability *gamedata.Ability, in Intent) []actor.ID {
	if ability.TargetSide == gamedata.TargetSelf {
		return []actor.ID{caster.ID}
	}
	side := caster.Side
	if ability.TargetSide == gamedata.TargetEnemy {
		side = opposing(caster.Side)
	}
	pool := b.store.Living(side)

	chosen := b.store.Get(in.Target)
	if chosen != nil && (!chosen.Alive() || chosen.Side != side) {
		chosen = nil
	}
	cursor := caster.Position
	switch {
	case in.Cursor != nil:
		cursor = *in.Cursor
	case chosen != nil:
		cursor = chosen.Position
	}

	var ids []actor.ID
	if ability.Shape.Kind == gamedata.ShapeSelect && chosen != nil {
		ids = []actor.ID{chosen.ID}
	} else {
		candidates := make([]targeting.Candidate, 0, len(pool))
		for _, p := range pool {
			candidates = append(candidates, targeting.Candidate{ID: p.ID, Position: p.Position})
		}
		ids = targeting.Affected(ability.Shape, caster.Position, cursor, candidates)
	}

	if chosen != nil {
		for i, id := range ids {
			if id == chosen.ID {
				copy(ids[1:i+1], ids[:i])
				ids[0] = chosen.ID
				break
			}
		}
	}
	if n := int(ability.Targets); n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// fallen reports actors at zero health that the pipeline did not announce,
// such as a caster paying its last health for an ability.
func (b *Battle) fallen(announced []event.Death) []event.Death {
	seen := make(map[actor.ID]bool, len(announced))
	for _, d := range announced {
		seen[d.Actor] = true
	}
	var out []event.Death
	for _, a := range b.store.All() {
		if a.Dead || seen[a.ID] || a.Health == nil || a.Health.Current > 0 {
			continue
		}
		d := event.Death{Actor: a.ID}
		b.bus.Publish(d)
		out = append(out, d)
	}
	return out
}

// handleDeaths takes the dead out of the fight and runs their death behavior.
func (b *Battle) handleDeaths(deaths []event.Death) {
	for _, d := range deaths {
		dead := b.store.Get(d.Actor)
		if dead == nil || dead.Dead {
			continue
		}
		dead.Dead = true
		b.scheduler.Remove(dead.ID)
		slog.Info("actor died", "actor", dead.ID, "name", dead.Name, "side", dead.Side, "tick", b.scheduler.Tick())

		switch db := dead.Death.(type) {
		case actor.EnemyDeath:
			if d.Killer != nil {
				b.awardXP(dead, db, *d.Killer)
			}
			if len(db.LootTable) > 0 {
				b.bus.Publish(event.LootDrop{From: dead.ID, Items: append([]string(nil), db.LootTable...)})
			}
		case actor.AllyDeath:
		}
	}
}

// awardXP grants the killer experience for an enemy and applies any levels gained.
func (b *Battle) awardXP(dead *actor.Actor, db actor.EnemyDeath, killerID actor.ID) {
	killer := b.store.Get(killerID)
	if killer == nil || !killer.Alive() || killer.ID == dead.ID {
		return
	}
	amount := growth.XPAward(db.XPReward, killer.Experience)
	if amount == 0 {
		return
	}
	oldLevel, newLevel := growth.Gain(killer, amount)
	b.bus.Publish(event.XPAward{Actor: killer.ID, From: dead.ID, Amount: amount})
	if newLevel <= oldLevel {
		return
	}
	growth.ApplyLevels(killer, newLevel-oldLevel)
	b.scheduler.RecomputeParams()
	b.bus.Publish(event.LevelUp{Actor: killer.ID, OldLevel: oldLevel, NewLevel: newLevel})
	slog.Info("level up", "actor", killer.ID, "name", killer.Name, "from", oldLevel, "to", newLevel)
}

// checkBattleEnd checks if the battle should end and records the outcome.
func (b *Battle) checkBattleEnd() bool {
	switch {
	case len(b.store.Living(actor.SideAlly)) == 0:
		b.outcome = OutcomeDefeat
	case len(b.store.Living(actor.SideEnemy)) == 0:
		b.outcome = OutcomeVictory
	case b.cfg.MaxTicks > 0 && b.scheduler.Tick() >= b.cfg.MaxTicks:
		b.outcome = OutcomeStalemate
	case b.idleRounds > maxIdleRounds:
		b.outcome = OutcomeStalemate
	default:
		return false
	}
	return true
}

// start records the opening roster.
func (b *Battle) start(ctx context.Context) {
	b.started = true
	_, span := b.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.Int("allies", len(b.store.Living(actor.SideAlly))),
		attribute.Int("enemies", len(b.store.Living(actor.SideEnemy))),
		attribute.Int64("seed", b.Seed()),
	)
	span.End()
	slog.Info("battle started", "seed", b.Seed(), "actors", b.store.Len())
}

// endBattle announces the outcome.
func (b *Battle) endBattle(ctx context.Context) {
	_, span := b.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("outcome", b.outcome.String()),
		attribute.Int("ticks", int(b.scheduler.Tick())),
		attribute.Int("rounds", int(b.scheduler.Round())),
		attribute.Int("allies_alive", len(b.store.Living(actor.SideAlly))),
		attribute.Int("enemies_alive", len(b.store.Living(actor.SideEnemy))),
	)
	span.End()

	b.current, b.acted = 0, false
	b.bus.Publish(event.BattleEnd{Outcome: b.outcome.String(), Ticks: b.scheduler.Tick()})
	slog.Info("battle ended", "outcome", b.outcome, "ticks", b.scheduler.Tick(), "rounds", b.scheduler.Round())
}

func (b *Battle) opponents(a *actor.Actor) []*actor.Actor {
	return b.store.Living(opposing(a.Side))
}

func opposing(side actor.Side) actor.Side {
	if side == actor.SideEnemy {
		return actor.SideAlly
	}
	return actor.SideEnemy
}
