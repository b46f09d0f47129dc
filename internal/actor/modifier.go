package actor

// SourceKind says what produced a modifier or buff.
type SourceKind int

const (
	SourceActor SourceKind = iota
	SourceAbility
	SourceEquipment
)

// String returns the source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceActor:
		return "actor"
	case SourceAbility:
		return "ability"
	case SourceEquipment:
		return "equipment"
	default:
		return "unknown"
	}
}

// Source references whatever produced a modifier.
type Source struct {
	Kind SourceKind `json:"kind"`
	ID   uint32     `json:"id"`
}

// FromActor is the source for effects scoped to an actor's next turn.
func FromActor(id ID) *Source {
	return &Source{Kind: SourceActor, ID: uint32(id)}
}

// FromAbility is the source for ability-produced effects.
func FromAbility(abilityID uint16) *Source {
	return &Source{Kind: SourceAbility, ID: uint32(abilityID)}
}

// FromEquipment is the source for equipment hooks.
func FromEquipment(itemID uint32) *Source {
	return &Source{Kind: SourceEquipment, ID: itemID}
}

// StatModifier is a multiplicative change to one stat.
// A nil ExpiresAt means permanent until explicitly removed.
type StatModifier struct {
	Stat       Stat    `json:"stat"`
	Multiplier float64 `json:"multiplier"`
	ExpiresAt  *uint32 `json:"expires_at,omitempty"`
	Source     *Source `json:"source,omitempty"`
}

// Expired reports whether the modifier has reached its expiry at tick now.
func (m StatModifier) Expired(now uint32) bool {
	return m.ExpiresAt != nil && *m.ExpiresAt <= now
}

// FromActorID reports whether the modifier's declared source is the given actor.
func (m StatModifier) FromActorID(id ID) bool {
	return m.Source != nil && m.Source.Kind == SourceActor && m.Source.ID == uint32(id)
}

func (m StatModifier) clone() StatModifier {
	if m.ExpiresAt != nil {
		t := *m.ExpiresAt
		m.ExpiresAt = &t
	}
	if m.Source != nil {
		s := *m.Source
		m.Source = &s
	}
	return m
}

// Timed builds a modifier expiring at the given absolute tick.
func Timed(stat Stat, multiplier float64, expiresAt uint32, src *Source) StatModifier {
	return StatModifier{Stat: stat, Multiplier: multiplier, ExpiresAt: &expiresAt, Source: src}
}

// Permanent builds a modifier with no expiry.
func Permanent(stat Stat, multiplier float64, src *Source) StatModifier {
	return StatModifier{Stat: stat, Multiplier: multiplier, Source: src}
}

// AddModifier appends a modifier to the actor.
func (a *Actor) AddModifier(m StatModifier) {
	a.Modifiers = append(a.Modifiers, m)
}

// RemoveModifiers drops every modifier for which drop returns true
// and returns how many were removed.
func (a *Actor) RemoveModifiers(drop func(StatModifier) bool) int {
	kept := a.Modifiers[:0]
	removed := 0
	for _, m := range a.Modifiers {
		if drop(m) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	a.Modifiers = kept
	return removed
}

// BuffID identifies a standalone buff in a Store.
type BuffID uint32

// Buff is a standalone timed multiplier not tied to one actor's modifier list.
// A nil Target makes it battlefield-wide.
type Buff struct {
	ID         BuffID  `json:"id"`
	Stat       Stat    `json:"stat"`
	Multiplier float64 `json:"multiplier"`
	EndsAt     uint32  `json:"ends_at"`
	Target     *ID     `json:"target,omitempty"`
	Side       *Side   `json:"side,omitempty"` // restricts a battlefield-wide buff to one side
	Source     *Source `json:"source,omitempty"`
}

// Expired reports whether the buff has ended at tick now.
func (b *Buff) Expired(now uint32) bool {
	return b.EndsAt <= now
}

// Applies reports whether the buff affects the given actor.
func (b *Buff) Applies(a *Actor) bool {
	if b.Target != nil {
		return *b.Target == a.ID
	}
	if b.Side != nil {
		return *b.Side == a.Side
	}
	return true
}

// FromActorID reports whether the buff's declared source is the given actor.
func (b *Buff) FromActorID(id ID) bool {
	return b.Source != nil && b.Source.Kind == SourceActor && b.Source.ID == uint32(id)
}
