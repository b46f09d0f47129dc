package actor

import "sort"

// Store owns every actor and standalone buff in a battle.
// It is not safe for concurrent use; a battle mutates it from one goroutine.
type Store struct {
	actors   map[ID]*Actor
	order    []ID
	nextID   ID
	buffs    map[BuffID]*Buff
	nextBuff BuffID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		actors: make(map[ID]*Actor),
		buffs:  make(map[BuffID]*Buff),
	}
}

// Spawn adds an actor and returns its id. A zero ID is assigned the next free id.
func (s *Store) Spawn(a *Actor) ID {
	if a.ID == 0 {
		s.nextID++
		for s.actors[s.nextID] != nil {
			s.nextID++
		}
		a.ID = s.nextID
	} else if a.ID > s.nextID {
		s.nextID = a.ID
	}
	if a.Death == nil {
		a.Death = DefaultDeath(a.Side)
	}
	if _, exists := s.actors[a.ID]; !exists {
		s.order = append(s.order, a.ID)
	}
	s.actors[a.ID] = a
	return a.ID
}

// Get returns the actor with the given id, or nil.
func (s *Store) Get(id ID) *Actor {
	return s.actors[id]
}

// Despawn removes an actor and any buffs targeting it.
func (s *Store) Despawn(id ID) bool {
	if _, ok := s.actors[id]; !ok {
		return false
	}
	delete(s.actors, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for bid, b := range s.buffs {
		if b.Target != nil && *b.Target == id {
			delete(s.buffs, bid)
		}
	}
	return true
}

// All returns every actor in spawn order.
func (s *Store) All() []*Actor {
	out := make([]*Actor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.actors[id])
	}
	return out
}

// IDs returns every actor id in spawn order.
func (s *Store) IDs() []ID {
	return append([]ID(nil), s.order...)
}

// Len returns the number of actors.
func (s *Store) Len() int {
	return len(s.order)
}

// Living returns the living actors on a side, in spawn order.
func (s *Store) Living(side Side) []*Actor {
	var out []*Actor
	for _, id := range s.order {
		if a := s.actors[id]; a.Side == side && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// AddBuff registers a standalone buff, assigns it an id and links it to its target.
func (s *Store) AddBuff(b Buff) BuffID {
	s.nextBuff++
	b.ID = s.nextBuff
	s.buffs[b.ID] = &b
	if b.Target != nil {
		if a := s.actors[*b.Target]; a != nil {
			a.Buffs = append(a.Buffs, b.ID)
		}
	}
	return b.ID
}

// Buff returns the buff with the given id, or nil.
func (s *Store) Buff(id BuffID) *Buff {
	return s.buffs[id]
}

// Buffs returns every buff ordered by id.
func (s *Store) Buffs() []*Buff {
	out := make([]*Buff, 0, len(s.buffs))
	for _, b := range s.buffs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemoveBuff despawns a buff and unlinks it from its target.
func (s *Store) RemoveBuff(id BuffID) bool {
	b, ok := s.buffs[id]
	if !ok {
		return false
	}
	delete(s.buffs, id)
	if b.Target != nil {
		if a := s.actors[*b.Target]; a != nil {
			for i, ref := range a.Buffs {
				if ref == id {
					a.Buffs = append(a.Buffs[:i], a.Buffs[i+1:]...)
					break
				}
			}
		}
	}
	return true
}

// Multiplier is the product of the actor's own modifiers and every buff
// that applies to it for the given stat. Buffs multiply in id order.
func (s *Store) Multiplier(id ID, stat Stat) float64 {
	a := s.actors[id]
	if a == nil {
		return 1
	}
	m := a.Multiplier(stat)
	for _, b := range s.Buffs() {
		if b.Stat == stat && b.Applies(a) {
			m *= b.Multiplier
		}
	}
	return m
}

// Effective returns the actor's stat value with every modifier and aura applied.
func (s *Store) Effective(id ID, stat Stat) float64 {
	a := s.actors[id]
	if a == nil {
		return 0
	}
	return float64(a.Value(stat)) * s.Multiplier(id, stat)
}

// Restore replaces the store contents wholesale.
func (s *Store) Restore(actors []*Actor, buffs []Buff) {
	s.actors = make(map[ID]*Actor, len(actors))
	s.order = s.order[:0]
	s.nextID = 0
	for _, a := range actors {
		s.Spawn(a)
	}
	s.buffs = make(map[BuffID]*Buff, len(buffs))
	s.nextBuff = 0
	for i := range buffs {
		b := buffs[i]
		s.buffs[b.ID] = &b
		if b.ID > s.nextBuff {
			s.nextBuff = b.ID
		}
	}
}
