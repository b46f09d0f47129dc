// Package game runs a battle: it owns the actor store, the scheduler, the
// damage pipeline and the AI, and advances them one turn at a time.
package game

import "fmt"

// Outcome is how a battle stands.
type Outcome int

const (
	// OutcomeOngoing means both sides still have living actors.
	OutcomeOngoing Outcome = iota
	// OutcomeVictory means no enemy is alive.
	OutcomeVictory
	// OutcomeDefeat means no ally is alive.
	OutcomeDefeat
	// OutcomeStalemate means the tick limit was reached, or nobody could act.
	OutcomeStalemate
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, v := range []Outcome{OutcomeOngoing, OutcomeVictory, OutcomeDefeat, OutcomeStalemate} {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
