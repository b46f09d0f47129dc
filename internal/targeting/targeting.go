// Package targeting answers which actors an ability shape covers.
package targeting

import (
	"math"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/gamedata"
)

// SelectRadius is how close a target must be to the cursor to be picked by a select shape.
const SelectRadius = 0.5

// Candidate is an actor considered for an area test.
type Candidate struct {
	ID       actor.ID
	Position actor.Vec2
}

// Affected returns the ids of the candidates inside shape, cast from origin
// towards cursor. Radius shapes are centred on origin; select picks whatever
// stands on the cursor.
func Affected(shape gamedata.Shape, origin, cursor actor.Vec2, candidates []Candidate) []actor.ID {
	var out []actor.ID
	for _, c := range candidates {
		if Contains(shape, origin, cursor, c.Position) {
			out = append(out, c.ID)
		}
	}
	return out
}

// Contains reports whether target falls inside shape.
func Contains(shape gamedata.Shape, origin, cursor, target actor.Vec2) bool {
	switch shape.Kind {
	case gamedata.ShapeRadius:
		return InRadius(shape.Radius, origin, target)
	case gamedata.ShapeLine:
		return InLine(shape.Length, shape.Thickness, origin, cursor, target)
	case gamedata.ShapeCone:
		return InCone(shape.Angle, shape.Radius, origin, cursor, target)
	default:
		return Selected(cursor, target)
	}
}

// InRadius reports whether target is within radius of origin.
func InRadius(radius float64, origin, target actor.Vec2) bool {
	return target.Sub(origin).Len() <= radius
}

// InLine reports whether target lies in the rectangle of the given length and
// thickness running from origin towards cursor.
func InLine(length, thickness float64, origin, cursor, target actor.Vec2) bool {
	dir := cursor.Sub(origin).Normalize()
	proj := target.Sub(origin).Dot(dir)
	if proj < 0 || proj > length {
		return false
	}
	closest := origin.Add(dir.Scale(proj))
	return target.Sub(closest).Len() <= thickness/2
}

// InCone reports whether target is within radius of origin and within half of
// angleDeg of the direction towards cursor.
func InCone(angleDeg, radius float64, origin, cursor, target actor.Vec2) bool {
	dir := cursor.Sub(origin).Normalize()
	toTarget := target.Sub(origin)
	if toTarget.Len() > radius {
		return false
	}
	dot := math.Max(-1, math.Min(1, dir.Dot(toTarget.Normalize())))
	angle := math.Acos(dot) * 180 / math.Pi
	return angle <= angleDeg/2
}

// Selected reports whether target stands on the cursor.
func Selected(cursor, target actor.Vec2) bool {
	return target.Sub(cursor).Len() < SelectRadius
}

// Isolated reports whether no other candidate stands within radius of target.
func Isolated(target Candidate, others []Candidate, radius float64) bool {
	for _, o := range others {
		if o.ID == target.ID {
			continue
		}
		if InRadius(radius, target.Position, o.Position) {
			return false
		}
	}
	return true
}
