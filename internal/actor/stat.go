package actor

import "fmt"

// Stat names a readable actor value.
type Stat int

const (
	StatHealth Stat = iota
	StatHealthRegen
	StatMagic
	StatMagicRegen
	StatStamina
	StatStaminaRegen
	StatLethality
	StatHit
	StatArmor
	StatAgility
	StatMind
	StatMorale
	StatMovement
)

var statNames = [...]string{
	StatHealth:       "health",
	StatHealthRegen:  "health_regen",
	StatMagic:        "magic",
	StatMagicRegen:   "magic_regen",
	StatStamina:      "stamina",
	StatStaminaRegen: "stamina_regen",
	StatLethality:    "lethality",
	StatHit:          "hit",
	StatArmor:        "armor",
	StatAgility:      "agility",
	StatMind:         "mind",
	StatMorale:       "morale",
	StatMovement:     "movement",
}

// String returns the stat's data-file name.
func (s Stat) String() string {
	if s < 0 || int(s) >= len(statNames) {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat maps a data-file name to a Stat.
func ParseStat(name string) (Stat, error) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(text []byte) error {
	v, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Value reads a stat from the actor's base blocks plus equipment bonuses.
// Missing blocks read as zero.
func (a *Actor) Value(stat Stat) int32 {
	switch stat {
	case StatHealth, StatMagic, StatStamina:
		if r := a.Resource(stat); r != nil {
			return r.Current
		}
		return 0
	case StatHealthRegen, StatMagicRegen, StatStaminaRegen:
		if r := a.Resource(stat); r != nil {
			return r.Regen
		}
		return 0
	}

	var v int32
	if a.Stats != nil {
		v = a.Stats.get(stat)
	}
	for _, e := range a.Equipment {
		v = satAdd32(v, e.Bonus.get(stat))
	}
	return v
}

// Multiplier is the product of every modifier the actor holds on stat.
func (a *Actor) Multiplier(stat Stat) float64 {
	m := 1.0
	for _, mod := range a.Modifiers {
		if mod.Stat == stat {
			m *= mod.Multiplier
		}
	}
	return m
}

func (c *CombatStats) get(stat Stat) int32 {
	switch stat {
	case StatLethality:
		return c.Lethality
	case StatHit:
		return c.Hit
	case StatArmor:
		return c.Armor
	case StatAgility:
		return c.Agility
	case StatMind:
		return c.Mind
	case StatMorale:
		return c.Morale
	case StatMovement:
		return c.Movement
	default:
		return 0
	}
}

// Add raises the named combat stat by delta, saturating.
func (c *CombatStats) Add(stat Stat, delta int32) {
	switch stat {
	case StatLethality:
		c.Lethality = satAdd32(c.Lethality, delta)
	case StatHit:
		c.Hit = satAdd32(c.Hit, delta)
	case StatArmor:
		c.Armor = satAdd32(c.Armor, delta)
	case StatAgility:
		c.Agility = satAdd32(c.Agility, delta)
	case StatMind:
		c.Mind = satAdd32(c.Mind, delta)
	case StatMorale:
		c.Morale = satAdd32(c.Morale, delta)
	case StatMovement:
		c.Movement = satAdd32(c.Movement, delta)
	}
}
