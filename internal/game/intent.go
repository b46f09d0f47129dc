package game

import (
	"context"
	"errors"

	"github.com/samdwyer/turncore/internal/actor"
)

var (
	ErrNotYourTurn    = errors.New("actor does not hold the turn")
	ErrAlreadyActed   = errors.New("actor already acted this turn")
	ErrUnknownActor   = errors.New("unknown actor")
	ErrBattleOver     = errors.New("battle is over")
	ErrAwaitingIntent = errors.New("waiting for an intent from the actor holding the turn")
)

// IntentKind is the action an actor chose for its turn.
type IntentKind int

const (
	IntentWait IntentKind = iota
	IntentAttack
	IntentAbility
	IntentDefend
)

// String returns the intent name.
func (k IntentKind) String() string {
	switch k {
	case IntentWait:
		return "wait"
	case IntentAttack:
		return "attack"
	case IntentAbility:
		return "ability"
	case IntentDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// Intent is what an actor does with its turn.
type Intent struct {
	Kind    IntentKind
	Target  actor.ID
	Ability uint16
	// Cursor aims area abilities. When nil the target's position is used.
	Cursor *actor.Vec2
}

// Attack is a plain attack on target.
func Attack(target actor.ID) Intent {
	return Intent{Kind: IntentAttack, Target: target}
}

// UseAbility casts an ability at target.
func UseAbility(abilityID uint16, target actor.ID) Intent {
	return Intent{Kind: IntentAbility, Ability: abilityID, Target: target}
}

// UseAbilityAt casts an ability towards a point on the battlefield.
func UseAbilityAt(abilityID uint16, cursor actor.Vec2) Intent {
	return Intent{Kind: IntentAbility, Ability: abilityID, Cursor: &cursor}
}

// Defend raises armor until the actor's next turn.
func Defend() Intent {
	return Intent{Kind: IntentDefend}
}

// Wait passes the turn.
func Wait() Intent {
	return Intent{Kind: IntentWait}
}

// Submit resolves the intent of the player-controlled actor holding the
// turn. Only one submission is consumed per turn. Intents that cannot be
// carried out (dead target, unknown ability, unaffordable cost) are logged
// and the turn passes as a Wait.
func (b *Battle) Submit(ctx context.Context, id actor.ID, in Intent) error {
	if b.outcome != OutcomeOngoing {
		return ErrBattleOver
	}
	a := b.store.Get(id)
	if a == nil {
		return ErrUnknownActor
	}
	if b.current != id {
		return ErrNotYourTurn
	}
	if b.acted {
		return ErrAlreadyActed
	}
	b.resolveTurn(ctx, a, in)
	return nil
}
