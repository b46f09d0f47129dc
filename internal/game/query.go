package game

import "github.com/samdwyer/turncore/internal/actor"

// ActorView is a read-only copy of the values UI and debug tooling display.
type ActorView struct {
	ID          actor.ID
	Name        string
	Side        actor.Side
	Alive       bool
	Level       uint32
	Experience  uint32
	Accumulated uint32
	Health      actor.Resource
	Magic       actor.Resource
	Stamina     actor.Resource
	Modifiers   []actor.StatModifier
	Points      actor.PointPool
}

// Actor returns a view of one actor.
func (b *Battle) Actor(id actor.ID) (ActorView, bool) {
	a := b.store.Get(id)
	if a == nil {
		return ActorView{}, false
	}
	return view(a), true
}

// Actors returns a view of every actor in spawn order.
func (b *Battle) Actors() []ActorView {
	all := b.store.All()
	out := make([]ActorView, 0, len(all))
	for _, a := range all {
		out = append(out, view(a))
	}
	return out
}

// Effective returns an actor's stat with every modifier and aura applied.
func (b *Battle) Effective(id actor.ID, stat actor.Stat) float64 {
	return b.store.Effective(id, stat)
}

func view(a *actor.Actor) ActorView {
	c := a.Clone()
	v := ActorView{
		ID:          c.ID,
		Name:        c.Name,
		Side:        c.Side,
		Alive:       c.Alive(),
		Level:       c.Level(),
		Experience:  c.Experience,
		Accumulated: c.Accumulated,
		Points:      c.Points,
	}
	if c.Health != nil {
		v.Health = *c.Health
	}
	if c.Magic != nil {
		v.Magic = *c.Magic
	}
	if c.Stamina != nil {
		v.Stamina = *c.Stamina
	}
	if len(c.Modifiers) > 0 {
		v.Modifiers = c.Modifiers
	}
	return v
}
