package actor

import "math"

// Resource is one of the three currencies (health, magic, stamina).
// Current stays within [0, Max]; Regen is never negative.
type Resource struct {
	Current int32 `json:"current"`
	Max     int32 `json:"max"`
	Regen   int32 `json:"regen"`
}

// NewResource returns a full resource with the given max and regen.
func NewResource(max, regen int32) *Resource {
	if regen < 0 {
		regen = 0
	}
	if max < 0 {
		max = 0
	}
	return &Resource{Current: max, Max: max, Regen: regen}
}

// Add changes Current by delta, saturating at 0 and Max.
// It returns the change actually applied.
func (r *Resource) Add(delta int32) int32 {
	before := r.Current
	r.Current = clamp32(satAdd32(r.Current, delta), 0, r.Max)
	return r.Current - before
}

// Sub removes up to amount from Current, saturating at zero.
// It returns the amount actually removed.
func (r *Resource) Sub(amount int32) int32 {
	if amount <= 0 {
		return 0
	}
	return -r.Add(-amount)
}

// Regenerate adds Regen to Current.
func (r *Resource) Regenerate() {
	r.Add(r.Regen)
}

// Grow raises Max, Current and Regen by the given amounts.
func (r *Resource) Grow(max, regen int32) {
	r.Max = satAdd32(r.Max, max)
	r.Current = clamp32(satAdd32(r.Current, max), 0, r.Max)
	r.Regen = satAdd32(r.Regen, regen)
}

// Full reports whether Current equals Max.
func (r *Resource) Full() bool {
	return r.Current >= r.Max
}

// ExtraHP is an auxiliary health pool drained before real health.
type ExtraHP struct {
	Current int32 `json:"current"`
	Max     int32 `json:"max"`
}

// Absorb drains the pool by up to amount and returns what is left for real health.
func (e *ExtraHP) Absorb(amount int32) int32 {
	if amount <= 0 || e.Current <= 0 {
		return amount
	}
	if e.Current >= amount {
		e.Current -= amount
		return 0
	}
	rest := amount - e.Current
	e.Current = 0
	return rest
}

// CombatStats are an actor's base combat values.
type CombatStats struct {
	Lethality int32 `json:"lethality"`
	Hit       int32 `json:"hit"`
	Armor     int32 `json:"armor"`
	Agility   int32 `json:"agility"`
	Mind      int32 `json:"mind"`
	Morale    int32 `json:"morale"`
	Movement  int32 `json:"movement"`
}

// GrowthAttributes are the eight point allocations a player distributes.
type GrowthAttributes struct {
	Vitality  uint8 `json:"vitality"`
	Endurance uint8 `json:"endurance"`
	Spirit    uint8 `json:"spirit"`
	Power     uint8 `json:"power"`
	Control   uint8 `json:"control"`
	Agility   uint8 `json:"agility"`
	Insight   uint8 `json:"insight"`
	Resolve   uint8 `json:"resolve"`
}

// Total returns the sum of all allocated points.
func (g GrowthAttributes) Total() uint32 {
	return uint32(g.Vitality) + uint32(g.Endurance) + uint32(g.Spirit) +
		uint32(g.Power) + uint32(g.Control) + uint32(g.Agility) +
		uint32(g.Insight) + uint32(g.Resolve)
}

// GrowthCurve holds per-actor multipliers applied on top of level-up growth.
type GrowthCurve struct {
	Health    float64 `json:"health"`
	Stamina   float64 `json:"stamina"`
	Magic     float64 `json:"magic"`
	Lethality float64 `json:"lethality"`
	Hit       float64 `json:"hit"`
	Agility   float64 `json:"agility"`
	Mind      float64 `json:"mind"`
	Morale    float64 `json:"morale"`
}

// DefaultCurve returns the balanced curve, 1.0 for every stat.
func DefaultCurve() GrowthCurve {
	return GrowthCurve{
		Health: 1, Stamina: 1, Magic: 1,
		Lethality: 1, Hit: 1, Agility: 1, Mind: 1, Morale: 1,
	}
}

// PointPool tracks attribute points available for allocation.
type PointPool struct {
	Available uint32 `json:"available"`
	Spent     uint32 `json:"spent"`
}

func satAdd32(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}

func satAddU32(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

func clamp32(v, lo, hi int32) int32 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SatAdd adds two int32 values, saturating at the type bounds.
func SatAdd(a, b int32) int32 { return satAdd32(a, b) }

// SatAddU32 adds two uint32 values, saturating at MaxUint32.
func SatAddU32(a, b uint32) uint32 { return satAddU32(a, b) }
