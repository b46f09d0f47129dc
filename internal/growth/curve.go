package growth

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/samdwyer/turncore/internal/actor"
)

// PointsPerLevel is how many attribute points each gained level adds to the pool.
const PointsPerLevel = 2

// Curve returns the growth for one level:
//
//	max((base - (2×attr)^exponent) >> 19, base >> 3, 1)
//
// Negative inner values count as zero, so the result never drops below the floor.
func Curve(attr uint8, base, exponent float64) uint32 {
	inner := base - math.Pow(float64(uint32(attr)<<1), exponent)
	var truncated uint64
	if !math.IsNaN(inner) && inner > 0 {
		truncated = uint64(inner)
	}
	shifted := uint32(truncated >> 19)
	floor := max(uint32(base)>>3, 1)
	return max(shifted, floor)
}

type resourceGrowth struct {
	resource        func(*actor.Actor) *actor.Resource
	attr            func(actor.GrowthAttributes) uint8
	curve           func(*actor.GrowthCurve) float64
	maxBase, maxExp float64
	regBase, regExp float64
}

type statGrowth struct {
	stat  actor.Stat
	attr  func(actor.GrowthAttributes) uint8
	curve func(*actor.GrowthCurve) float64
}

var resourceTable = []resourceGrowth{
	{
		resource: func(a *actor.Actor) *actor.Resource { return a.Health },
		attr:     func(g actor.GrowthAttributes) uint8 { return g.Vitality },
		curve:    func(c *actor.GrowthCurve) float64 { return c.Health },
		maxBase:  250,
		maxExp:   3.007632509,
		regBase:  35,
		regExp:   2.691262945,
	},
	{
		resource: func(a *actor.Actor) *actor.Resource { return a.Stamina },
		attr:     func(g actor.GrowthAttributes) uint8 { return g.Endurance },
		curve:    func(c *actor.GrowthCurve) float64 { return c.Stamina },
		maxBase:  200,
		maxExp:   2.9,
		regBase:  25,
		regExp:   2.4,
	},
	{
		resource: func(a *actor.Actor) *actor.Resource { return a.Magic },
		attr:     func(g actor.GrowthAttributes) uint8 { return g.Spirit },
		curve:    func(c *actor.GrowthCurve) float64 { return c.Magic },
		maxBase:  225,
		maxExp:   3.1,
		regBase:  30,
		regExp:   2.8,
	},
}

var statTable = []statGrowth{
	{actor.StatLethality, func(g actor.GrowthAttributes) uint8 { return g.Power }, func(c *actor.GrowthCurve) float64 { return c.Lethality }},
	{actor.StatHit, func(g actor.GrowthAttributes) uint8 { return g.Control }, func(c *actor.GrowthCurve) float64 { return c.Hit }},
	{actor.StatAgility, func(g actor.GrowthAttributes) uint8 { return g.Agility }, func(c *actor.GrowthCurve) float64 { return c.Agility }},
	{actor.StatMind, func(g actor.GrowthAttributes) uint8 { return g.Insight }, func(c *actor.GrowthCurve) float64 { return c.Mind }},
	{actor.StatMorale, func(g actor.GrowthAttributes) uint8 { return g.Resolve }, func(c *actor.GrowthCurve) float64 { return c.Morale }},
}

// scaled applies a curve multiplier. Unset or non-positive multipliers read as 1,
// and growth never falls below 1.
func scaled(v uint32, c *actor.GrowthCurve, pick func(*actor.GrowthCurve) float64) int32 {
	mult := 1.0
	if c != nil {
		if m := pick(c); m > 0 {
			mult = m
		}
	}
	out := math.Floor(float64(v) * mult)
	if out < 1 {
		return 1
	}
	if out > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(out)
}

// ApplyLevels grows a's stats once per level gained. Growth is additive and
// saturating; nothing decreases. Each level also adds PointsPerLevel points.
func ApplyLevels(a *actor.Actor, levels uint32) {
	for i := uint32(0); i < levels; i++ {
		for _, g := range resourceTable {
			r := g.resource(a)
			if r == nil {
				continue
			}
			attr := g.attr(a.Growth)
			r.Grow(
				scaled(Curve(attr, g.maxBase, g.maxExp), a.Curve, g.curve),
				scaled(Curve(attr, g.regBase, g.regExp), a.Curve, g.curve),
			)
		}
		if a.Stats != nil {
			for _, g := range statTable {
				a.Stats.Add(g.stat, scaled(Curve(g.attr(a.Growth), 250, 3.0), a.Curve, g.curve))
			}
		}
		a.Points.Available = actor.SatAddU32(a.Points.Available, PointsPerLevel)
	}
	slog.Debug("level growth applied", "actor", a.ID, "levels", levels, "level", a.Level())
}

// Attribute names one of the eight growth attributes.
type Attribute int

const (
	Vitality Attribute = iota
	Endurance
	Spirit
	Power
	Control
	Agility
	Insight
	Resolve
)

// ErrNotEnoughPoints is returned when the pool cannot cover an allocation.
var ErrNotEnoughPoints = errors.New("not enough attribute points")

func (attr Attribute) field(g *actor.GrowthAttributes) (*uint8, error) {
	switch attr {
	case Vitality:
		return &g.Vitality, nil
	case Endurance:
		return &g.Endurance, nil
	case Spirit:
		return &g.Spirit, nil
	case Power:
		return &g.Power, nil
	case Control:
		return &g.Control, nil
	case Agility:
		return &g.Agility, nil
	case Insight:
		return &g.Insight, nil
	case Resolve:
		return &g.Resolve, nil
	default:
		return nil, fmt.Errorf("unknown attribute %d", int(attr))
	}
}

// Allocate moves points from the pool into an attribute. Attributes saturate at 255.
func Allocate(a *actor.Actor, attr Attribute, points uint8) error {
	f, err := attr.field(&a.Growth)
	if err != nil {
		return err
	}
	if uint32(points) > a.Points.Available {
		return fmt.Errorf("allocate %d: %w (have %d)", points, ErrNotEnoughPoints, a.Points.Available)
	}
	room := math.MaxUint8 - *f
	if points > room {
		points = room
	}
	*f += points
	a.Points.Available -= uint32(points)
	a.Points.Spent += uint32(points)
	return nil
}

// Respec resets every growth attribute. With refund, the points they held
// return to the pool and the spent counter is cleared. It returns the points reset.
func Respec(a *actor.Actor, refund bool) uint32 {
	total := a.Growth.Total()
	a.Growth = actor.GrowthAttributes{}
	if refund {
		a.Points.Available = actor.SatAddU32(a.Points.Available, total)
		a.Points.Spent = 0
	}
	slog.Info("attributes reset", "actor", a.ID, "points", total, "available", a.Points.Available)
	return total
}
