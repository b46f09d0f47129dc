package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samdwyer/turncore/internal/actor"
	"github.com/samdwyer/turncore/internal/growth"
)

// ErrAuraExpired is returned for an aura that would end at or before the current tick.
var ErrAuraExpired = errors.New("aura already expired")

// AddAura registers a standalone buff. With a Target it affects that actor,
// with a Side every actor on that side, otherwise everyone. The expiry sweep
// despawns it once the world timestamp reaches EndsAt.
func (b *Battle) AddAura(buf actor.Buff) (actor.BuffID, error) {
	if b.outcome != OutcomeOngoing {
		return 0, ErrBattleOver
	}
	if buf.Target != nil && b.store.Get(*buf.Target) == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownActor, *buf.Target)
	}
	if now := b.Now(); buf.EndsAt <= now {
		return 0, fmt.Errorf("%w: ends at %d, now %d", ErrAuraExpired, buf.EndsAt, now)
	}
	id := b.store.AddBuff(buf)
	slog.Info("aura added", "buff", id, "stat", buf.Stat, "multiplier", buf.Multiplier, "ends_at", buf.EndsAt)
	return id, nil
}

// Allocate spends unspent attribute points on one growth attribute.
func (b *Battle) Allocate(id actor.ID, attr growth.Attribute, points uint8) error {
	a, err := b.living(id)
	if err != nil {
		return err
	}
	return growth.Allocate(a, attr, points)
}

// Respec resets an actor's growth attributes, refunding the points when asked.
func (b *Battle) Respec(id actor.ID, refund bool) (uint32, error) {
	a, err := b.living(id)
	if err != nil {
		return 0, err
	}
	return growth.Respec(a, refund), nil
}

func (b *Battle) living(id actor.ID) (*actor.Actor, error) {
	if b.outcome != OutcomeOngoing {
		return nil, ErrBattleOver
	}
	a := b.store.Get(id)
	if a == nil || !a.Alive() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActor, id)
	}
	return a, nil
}
