// Package growth implements experience awards, level derivation and the
// per-level stat growth curves.
package growth

import (
	"math"

	"github.com/samdwyer/turncore/internal/actor"
)

const (
	// ratioBoundary splits the power branch from the logarithmic branch.
	ratioBoundary = 0.946
	xpScale       = 16384 // 1 << 14
	powerExponent = 30.2
	maxAward      = math.MaxUint32 - 1
)

// boundaryFloor is the power branch's value at the boundary. The log branch
// starts a few XP below it, so it is floored there to keep awards monotonic.
var boundaryFloor = math.Pow(ratioBoundary, powerExponent) * xpScale

// XPAward returns the experience a receiver earns for defeating an enemy.
//
//	ratio = enemyXP / max(receiverXP, 1)
//	ratio >  0.946: ((ln(ratio-0.2) / ln(1.25)) + 1.5) × 16384
//	ratio <= 0.946: ratio^30.2 × 16384
//
// The result is rounded, never negative and clamped below MaxUint32.
func XPAward(enemyXP, receiverXP uint32) uint32 {
	ratio := float64(enemyXP) / float64(max(receiverXP, 1))

	var amount float64
	if ratio > ratioBoundary {
		amount = (math.Log(ratio-0.2)/math.Log(1.25) + 1.5) * xpScale
		amount = math.Max(amount, boundaryFloor)
	} else {
		amount = math.Pow(ratio, powerExponent) * xpScale
	}

	switch {
	case math.IsNaN(amount) || amount <= 0:
		return 0
	case amount >= maxAward:
		return maxAward
	default:
		return uint32(math.Round(amount))
	}
}

// LevelFor derives a level from experience.
func LevelFor(xp uint32) uint32 {
	return xp >> 16
}

// Gain adds experience to a, saturating, and returns the level before and after.
func Gain(a *actor.Actor, amount uint32) (oldLevel, newLevel uint32) {
	oldLevel = a.Level()
	a.Experience = actor.SatAddU32(a.Experience, amount)
	return oldLevel, a.Level()
}
