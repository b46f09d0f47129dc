package combat

import (
	"log/slog"
	"math"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/event"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/rng"
)

// Listener adjusts an attack context in the Before-Attack or Before-Hit stage.
// attacker and target are never nil.
type Listener func(ctx *AttackContext, attacker, target *actor.Actor)

// AbilitySource looks abilities up by packed id.
type AbilitySource interface {
	Find(id uint16) *gamedata.Ability
}

// Pipeline runs attacks and abilities against a store.
// Like the store it is driven from a single goroutine.
type Pipeline struct {
	store     *actor.Store
	roller    rng.Roller
	bus       *event.Bus
	abilities AbilitySource

	beforeAttack []Listener
	beforeHit    []Listener

	queue   []QueuedDamage
	defects []Defect
}

// New creates a pipeline with the class passives and equipment hooks installed.
// bus and abilities may be nil.
func New(store *actor.Store, roller rng.Roller, bus *event.Bus, abilities AbilitySource) *Pipeline {
	p := &Pipeline{
		store:     store,
		roller:    roller,
		bus:       bus,
		abilities: abilities,
	}
	p.beforeAttack = []Listener{paladinAccuracy, rogueBackstab}
	p.beforeHit = []Listener{equipmentFlatDamage}
	return p
}

// BeforeAttack registers an extra Before-Attack listener. Listeners run in registration order.
func (p *Pipeline) BeforeAttack(l Listener) {
	p.beforeAttack = append(p.beforeAttack, l)
}

// BeforeHit registers an extra Before-Hit listener.
func (p *Pipeline) BeforeHit(l Listener) {
	p.beforeHit = append(p.beforeHit, l)
}

// strike is an attack intent: a plain attack when base is nil, ability damage otherwise.
type strike struct {
	attacker   actor.ID
	target     actor.ID
	ability    uint16
	base       *int32
	damageType gamedata.DamageType
	scaled     []gamedata.Scaling
	defended   []gamedata.Scaling
	now        uint32
}

// Attack runs a plain attack through stages 1 to 3 and queues the result.
// It reports whether the intent roll hit.
func (p *Pipeline) Attack(attacker, target actor.ID, now uint32) bool {
	return p.intent(strike{
		attacker:   attacker,
		target:     target,
		damageType: gamedata.DamagePhysical,
		scaled:     PlainScaling,
		defended:   PlainDefense,
		now:        now,
	})
}

// Enqueue adds an entry straight to the resolution queue.
func (p *Pipeline) Enqueue(entry QueuedDamage) {
	p.queue = append(p.queue, entry)
}

// Pending returns a copy of the queue awaiting resolution.
func (p *Pipeline) Pending() []QueuedDamage {
	return append([]QueuedDamage(nil), p.queue...)
}

// Defects returns every invalid queue entry seen so far.
func (p *Pipeline) Defects() []Defect {
	return append([]Defect(nil), p.defects...)
}

func (p *Pipeline) intent(s strike) bool {
	a, t := p.store.Get(s.attacker), p.store.Get(s.target)
	if a == nil || t == nil {
		slog.Warn("attack with unknown actor", "attacker", s.attacker, "target", s.target)
		return false
	}

	triggerEquipment(a, s.now)

	lethality := float64(a.Value(actor.StatLethality)) * p.store.Multiplier(a.ID, actor.StatLethality)
	hit := float64(DefaultHit)
	if a.Stats != nil {
		hit = float64(a.Value(actor.StatHit))
	}

	ctx := &AttackContext{
		Attacker:      a.ID,
		Target:        t.ID,
		Ability:       s.ability,
		Now:           s.now,
		Lethality:     lethality,
		Hit:           hit,
		HitChance:     HitChance(hit, float64(t.Value(actor.StatAgility))),
		DamageType:    s.damageType,
		ScaledWith:    s.scaled,
		DefendedWith:  s.defended,
		Tags:          []uint32{uint32(s.ability)},
		seedLethality: lethality,
	}
	if s.base != nil {
		ctx.Base = *s.base
	} else {
		ctx.Base = int32(clamp(int64(math.Round(lethality)), 0, math.MaxInt32))
	}

	if p.roller.Float64() >= ctx.HitChance {
		p.Enqueue(QueuedDamage{Attacker: a.ID, Target: t.ID, Amount: Miss, DamageType: s.damageType, Tags: ctx.Tags})
		p.bus.Publish(event.Miss{Attacker: a.ID, Target: t.ID})
		slog.Debug("attack missed", "attacker", a.ID, "target", t.ID, "chance", ctx.HitChance)
		return false
	}

	for _, l := range p.beforeAttack {
		l(ctx, a, t)
	}
	for _, l := range p.beforeHit {
		l(ctx, a, t)
	}
	p.Enqueue(ctx.freeze())
	return true
}

// committed is a resolved hit waiting to be applied.
type committed struct {
	attacker actor.ID
	target   actor.ID
	amount   int32
	absorbed int32
	tags     []uint32
}

// Resolve drains the queue (stage 4), applies every surviving hit (stage 5)
// and notifies observers (stage 6). It returns the deaths it caused.
func (p *Pipeline) Resolve() []event.Death {
	queue := p.queue
	p.queue = nil

	hits := make([]committed, 0, len(queue))
	for _, entry := range queue {
		switch {
		case entry.Amount == Miss, entry.Amount == Dodge:
			continue
		case entry.Amount == GuaranteedKill:
			hits = append(hits, committed{
				attacker: entry.Attacker,
				target:   entry.Target,
				amount:   math.MaxInt32,
				tags:     entry.Tags,
			})
		case entry.Amount < 0:
			p.defects = append(p.defects, Defect{Entry: entry, Reason: "negative amount outside the sentinel set"})
			slog.Error("invalid damage sentinel", "attacker", entry.Attacker, "target", entry.Target, "amount", entry.Amount)
		default:
			if h, ok := p.resolve(entry); ok {
				hits = append(hits, h)
			}
		}
	}

	var deaths []event.Death
	for _, h := range hits {
		if d, ok := p.apply(h); ok {
			deaths = append(deaths, d)
		}
	}
	return deaths
}

func (p *Pipeline) resolve(entry QueuedDamage) (committed, bool) {
	t := p.store.Get(entry.Target)
	if t == nil {
		slog.Warn("damage for unknown target", "target", entry.Target)
		return committed{}, false
	}
	a := p.store.Get(entry.Attacker)

	hit := float64(DefaultHit)
	switch {
	case entry.AccuracyOverride != nil:
		hit = *entry.AccuracyOverride
	case a != nil && a.Stats != nil:
		hit = float64(a.Value(actor.StatHit))
	}
	if p.roller.Float64() >= SecondaryChance(hit, float64(t.Value(actor.StatAgility))) {
		p.bus.Publish(event.Miss{Attacker: entry.Attacker, Target: t.ID})
		return committed{}, false
	}

	amount := int64(entry.Amount)
	if a != nil {
		for _, s := range entry.ScaledWith {
			amount += int64(float64(a.Value(s.Stat)) * s.Multiplier)
		}
	}
	for _, d := range entry.DefendedWith {
		amount -= int64(p.store.Effective(t.ID, d.Stat) * d.Multiplier)
	}

	h := committed{
		attacker: entry.Attacker,
		target:   t.ID,
		amount:   int32(clamp(amount, 0, math.MaxInt32)),
		tags:     entry.Tags,
	}
	if !p.incoming(&h, t) {
		p.bus.Publish(event.Dodge{Attacker: entry.Attacker, Target: t.ID})
	}
	return h, true
}

func (p *Pipeline) apply(h committed) (event.Death, bool) {
	t := p.store.Get(h.target)
	if t == nil || t.Health == nil {
		return event.Death{}, false
	}
	before := t.Health.Current
	applied := t.Health.Sub(h.amount)

	p.bus.Publish(event.AfterHit{
		Attacker:  h.attacker,
		Target:    h.target,
		Requested: h.amount,
		Applied:   applied,
		Absorbed:  h.absorbed,
		Tags:      h.tags,
	})
	slog.Debug("damage applied", "attacker", h.attacker, "target", h.target, "requested", h.amount, "applied", applied)

	if before > 0 && t.Health.Current == 0 {
		killer := h.attacker
		d := event.Death{Actor: t.ID, Killer: &killer}
		p.bus.Publish(d)
		return d, true
	}
	return event.Death{}, false
}
