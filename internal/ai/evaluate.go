package ai

import (
	"log/slog"
	"math"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/gamedata"
	"github.com/samdwyer/turncore/internal/targeting"
)

const (
	// ThreatHigh is the threat score above which threat_high holds.
	ThreatHigh = 70
	// LowDefense is the armor at or below which target_low_defense holds.
	LowDefense = 10
	// IsolationRadius is how far the nearest ally of a target must be for target_isolated.
	IsolationRadius = 3.0
)

// World is the read-only state guards query. *actor.Store satisfies it.
type World interface {
	Living(side actor.Side) []*actor.Actor
	Effective(id actor.ID, stat actor.Stat) float64
}

// Decision is the outcome of evaluating a profile.
type Decision struct {
	Action  Action
	Ability *gamedata.Ability
	Target  actor.ID
	Rule    int // index of the matching rule, -1 when nothing matched
}

// Evaluator holds compiled profiles by name.
type Evaluator struct {
	profiles map[string]*Profile
}

// NewEvaluator compiles every profile definition.
func NewEvaluator(defs map[string]gamedata.ProfileDef, abilities AbilityNames) (*Evaluator, error) {
	profiles, err := CompileAll(defs, abilities)
	if err != nil {
		return nil, err
	}
	return &Evaluator{profiles: profiles}, nil
}

// Profile returns the compiled profile with the given name, or nil.
func (e *Evaluator) Profile(name string) *Profile {
	return e.profiles[name]
}

// Decide evaluates self's profile. An actor without a known profile takes no action.
func (e *Evaluator) Decide(self *actor.Actor, w World, now uint32) Decision {
	p := e.profiles[self.AIProfile]
	if p == nil {
		slog.Warn("no AI profile", "actor", self.ID, "profile", self.AIProfile)
		return Decision{Action: ActionNone, Rule: -1}
	}
	return Evaluate(p, self, w, now)
}

// Evaluate scans the rules in order and returns the first whose guard holds.
func Evaluate(p *Profile, self *actor.Actor, w World, now uint32) Decision {
	q := newQuery(self, w, now)
	for i, r := range p.Rules {
		ally, ok := q.holds(r)
		if !ok {
			continue
		}
		d := Decision{Action: r.Action, Ability: r.Ability, Rule: i, Target: self.ID}
		switch {
		case r.Action == ActionAttack:
			d.Target = q.targetID()
		case r.Action == ActionAbility && r.Ability.TargetSide == gamedata.TargetEnemy:
			d.Target = q.targetID()
		case r.Action == ActionAbility && r.Ability.TargetSide == gamedata.TargetAlly:
			if ally == nil {
				ally = q.weakestAlly()
			}
			if ally != nil {
				d.Target = ally.ID
			}
		}
		slog.Debug("ai rule matched", "actor", self.ID, "profile", p.Name, "rule", i, "guard", r.Guard, "action", d.Action)
		return d
	}
	return Decision{Action: ActionNone, Rule: -1}
}

// query caches the lookups shared by every guard of one evaluation.
type query struct {
	self    *actor.Actor
	w       World
	now     uint32
	allies  []*actor.Actor // living, including self
	enemies []*actor.Actor
	target  *actor.Actor
}

func newQuery(self *actor.Actor, w World, now uint32) *query {
	opposing := actor.SideEnemy
	if self.Side == actor.SideEnemy {
		opposing = actor.SideAlly
	}
	q := &query{
		self:    self,
		w:       w,
		now:     now,
		allies:  w.Living(self.Side),
		enemies: w.Living(opposing),
	}
	q.target = Target(q.enemies)
	return q
}

// Target picks the living enemy with the least current health, first in order on ties.
func Target(enemies []*actor.Actor) *actor.Actor {
	var best *actor.Actor
	for _, e := range enemies {
		if best == nil || health(e) < health(best) {
			best = e
		}
	}
	return best
}

func health(a *actor.Actor) int32 {
	if a.Health == nil {
		return 0
	}
	return a.Health.Current
}

func (q *query) targetID() actor.ID {
	if q.target == nil {
		return 0
	}
	return q.target.ID
}

// holds reports whether r's guard is satisfied. For ally_hp_below it also
// returns the ally that satisfied it.
func (q *query) holds(r Rule) (*actor.Actor, bool) {
	switch r.Guard {
	case GuardAlways:
		return nil, true
	case GuardHPBelow:
		return nil, q.self.HealthPercent() <= int(r.Percent)
	case GuardAllyHPBelow:
		for _, a := range q.allies {
			if a.ID != q.self.ID && a.HealthPercent() <= int(r.Percent) {
				return a, true
			}
		}
		return nil, false
	case GuardCanKillTarget:
		return nil, q.target != nil && CanKill(q.w, q.self, q.target)
	case GuardTargetStunned:
		return nil, q.target != nil && q.target.Stunned(q.now)
	case GuardTargetIsolated:
		return nil, q.target != nil && q.isolated(q.target)
	case GuardTargetLowDefense:
		return nil, q.target != nil && q.w.Effective(q.target.ID, actor.StatArmor) <= LowDefense
	case GuardThreatHigh:
		return nil, Threat(q.w, q.self, q.enemies) > ThreatHigh
	default:
		return nil, false
	}
}

func (q *query) isolated(target *actor.Actor) bool {
	var friends []targeting.Candidate
	for _, a := range q.enemies {
		friends = append(friends, targeting.Candidate{ID: a.ID, Position: a.Position})
	}
	return targeting.Isolated(targeting.Candidate{ID: target.ID, Position: target.Position}, friends, IsolationRadius)
}

func (q *query) weakestAlly() *actor.Actor {
	var best *actor.Actor
	for _, a := range q.allies {
		if best == nil || a.HealthPercent() < best.HealthPercent() {
			best = a
		}
	}
	return best
}

// CanKill predicts whether one plain hit from attacker finishes target:
// effective lethality minus effective armor reaches its current health.
func CanKill(w World, attacker, target *actor.Actor) bool {
	if target.Health == nil {
		return false
	}
	damage := w.Effective(attacker.ID, actor.StatLethality) - w.Effective(target.ID, actor.StatArmor)
	return damage >= float64(target.Health.Current)
}

// Threat scores the danger self is in, 0 to 100: the combined effective
// lethality of living opponents as a percentage of self's current health.
func Threat(w World, self *actor.Actor, opponents []*actor.Actor) int {
	var total float64
	for _, o := range opponents {
		total += math.Max(w.Effective(o.ID, actor.StatLethality), 0)
	}
	hp := health(self)
	if hp <= 0 {
		return 100
	}
	return int(math.Min(total*100/float64(hp), 100))
}
