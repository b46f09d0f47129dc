// Package expiry removes stat modifiers and buffs whose time is up.
package expiry

import (
	"log/slog"

	"github.com/samdwyer/turncore/internal/actor"
)

// Result counts what a sweep removed.
type Result struct {
	Modifiers int
	Buffs     int
}

// Expirer sweeps a store once per distinct timestamp.
type Expirer struct {
	last uint32
	ran  bool
}

// Run drops every modifier with ExpiresAt <= now and despawns every buff with
// EndsAt <= now. Calls that repeat a timestamp already swept do nothing.
func (e *Expirer) Run(store *actor.Store, now uint32) Result {
	if e.ran && now <= e.last {
		return Result{}
	}
	e.ran = true
	e.last = now
	res := Sweep(store, now)
	if res.Modifiers > 0 || res.Buffs > 0 {
		slog.Debug("expired effects", "tick", now, "modifiers", res.Modifiers, "buffs", res.Buffs)
	}
	return res
}

// Last returns the most recent swept timestamp and whether any sweep ran.
func (e *Expirer) Last() (uint32, bool) {
	return e.last, e.ran
}

// Reset makes the expirer treat last as already swept.
func (e *Expirer) Reset(last uint32) {
	e.last = last
	e.ran = true
}

// Sweep removes expired modifiers and buffs without timestamp gating.
func Sweep(store *actor.Store, now uint32) Result {
	var res Result
	for _, a := range store.All() {
		res.Modifiers += a.RemoveModifiers(func(m actor.StatModifier) bool {
			return m.Expired(now)
		})
	}
	for _, b := range store.Buffs() {
		if b.Expired(now) && store.RemoveBuff(b.ID) {
			res.Buffs++
		}
	}
	return res
}

// ForTurnStart removes every modifier and buff whose declared source is the
// actor whose turn is starting, whoever holds it.
func ForTurnStart(store *actor.Store, id actor.ID) Result {
	var res Result
	for _, a := range store.All() {
		res.Modifiers += a.RemoveModifiers(func(m actor.StatModifier) bool {
			return m.FromActorID(id)
		})
	}
	for _, b := range store.Buffs() {
		if b.FromActorID(id) && store.RemoveBuff(b.ID) {
			res.Buffs++
		}
	}
	return res
}
