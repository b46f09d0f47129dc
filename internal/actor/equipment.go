package actor

import "fmt"

// HookKind names when an equipment hook fires in the damage pipeline.
type HookKind int

const (
	// HookBeforeAttackMultiplier adds a timed modifier to the wielder before it attacks.
	HookBeforeAttackMultiplier HookKind = iota
	// HookBeforeHitFlatDamage adds flat damage to the wielder's hit.
	HookBeforeHitFlatDamage
)

var hookNames = [...]string{
	HookBeforeAttackMultiplier: "before_attack_multiplier",
	HookBeforeHitFlatDamage:    "before_hit_flat_damage",
}

// String returns the hook's data-file name.
func (k HookKind) String() string {
	if k < 0 || int(k) >= len(hookNames) {
		return fmt.Sprintf("hook(%d)", int(k))
	}
	return hookNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k HookKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HookKind) UnmarshalText(text []byte) error {
	for i, n := range hookNames {
		if n == string(text) {
			*k = HookKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown hook %q", text)
}

// Hook is one pipeline effect carried by an item.
type Hook struct {
	Kind       HookKind `json:"kind"`
	Stat       Stat     `json:"stat,omitempty"`
	Multiplier float64  `json:"multiplier,omitempty"`
	Duration   uint32   `json:"duration,omitempty"` // ticks
	Flat       int32    `json:"flat,omitempty"`
}

// Equipment is an item worn by an actor.
type Equipment struct {
	ID    uint32      `json:"id"`
	Name  string      `json:"name"`
	Bonus CombatStats `json:"bonus"`
	Hooks []Hook      `json:"hooks,omitempty"`
}
