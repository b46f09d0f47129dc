package gamedata

import "github.com/samdwyer/turncore/internal/actor"

// =============================================================================
// ABILITY SYSTEM DESIGN
// =============================================================================
//
// Overview:
// ---------
// Abilities are immutable, data-driven actions authored in abilities.json and
// loaded into a Catalog at startup. Actors reference them by packed id.
//
// Packed IDs:
// -----------
// An ability id is a uint16. The high byte is the ability level, the low byte
// the sub-id within that level:
//
//    0x0101 -> level 1, sub-id 1
//    0x0203 -> level 2, sub-id 3
//
// JSON carries the decimal value (0x0101 = 257).
//
// Effects:
// --------
// An ability has one or more effects, applied to every affected target in order:
//    - heal:   restores health, uniformly sampled in [floor, ceiling)
//    - damage: queues a hit through the attack pipeline, base damage sampled in
//              [floor, ceiling), scaled by the caster's stats and mitigated by
//              the target's stats
//    - buff:   adds a StatModifier expiring after the ability's duration; chained
//              ability ids are resolved immediately against the same targets
//
// Shapes:
// -------
//    - select: one target picked directly
//    - radius: every actor within radius of the origin
//    - line:   every actor within thickness of a segment of the given length
//    - cone:   every actor within radius and half-angle of the facing
//
// Costs:
// ------
// healthCost, magicCost and staminaCost are added to the caster's currencies, so a
// negative value is a cost. An ability that would take a currency below zero is
// rejected. Cooldown is in ticks.
//
// JSON Schema:
// ------------
// {
//   "id": 257,
//   "name": "Slash",
//   "description": "A quick blade strike",
//   "staminaCost": -10,
//   "cooldown": 0,
//   "effects": [
//     {"kind": "damage", "floor": 6, "ceiling": 12, "damageType": "physical",
//      "scaledWith": [{"stat": "lethality", "multiplier": 0.5}],
//      "defendedWith": [{"stat": "armor", "multiplier": 0.5}]}
//   ],
//   "shape": {"kind": "select"},
//   "duration": 0,
//   "targets": 1,
//   "targetSide": "enemy"
// }

// EffectKind represents what an ability effect does.
type EffectKind string

const (
	EffectHeal   EffectKind = "heal"
	EffectDamage EffectKind = "damage"
	EffectBuff   EffectKind = "buff"
)

// DamageType represents how damage is flavoured. It travels with a hit as a tag.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageTrue     DamageType = "true"
)

// ShapeKind is the area an ability covers.
type ShapeKind string

const (
	ShapeSelect ShapeKind = "select"
	ShapeRadius ShapeKind = "radius"
	ShapeLine   ShapeKind = "line"
	ShapeCone   ShapeKind = "cone"
)

// TargetSide says which actors an ability is aimed at, relative to the caster.
type TargetSide string

const (
	TargetEnemy TargetSide = "enemy"
	TargetAlly  TargetSide = "ally"
	TargetSelf  TargetSide = "self"
)

// Scaling pairs a stat with the multiplier applied to it.
type Scaling struct {
	Stat       actor.Stat `json:"stat"`
	Multiplier float64    `json:"multiplier"`
}

// Effect is one ability effect. Which fields matter depends on Kind.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// heal, damage
	Floor   int32 `json:"floor,omitempty"`
	Ceiling int32 `json:"ceiling,omitempty"`

	// damage
	DamageType   DamageType `json:"damageType,omitempty"`
	ScaledWith   []Scaling  `json:"scaledWith,omitempty"`
	DefendedWith []Scaling  `json:"defendedWith,omitempty"`

	// buff
	Stat       actor.Stat `json:"stat,omitempty"`
	Multiplier float64    `json:"multiplier,omitempty"`
	Chained    []uint16   `json:"chained,omitempty"`
}

// Shape is the area an ability covers.
type Shape struct {
	Kind      ShapeKind `json:"kind"`
	Radius    float64   `json:"radius,omitempty"`
	Length    float64   `json:"length,omitempty"`
	Thickness float64   `json:"thickness,omitempty"`
	Angle     float64   `json:"angle,omitempty"` // degrees
}

// Ability is an immutable ability definition.
type Ability struct {
	ID          uint16     `json:"id"`
	NextID      *uint16    `json:"nextId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	HealthCost  int32      `json:"healthCost,omitempty"`
	MagicCost   int32      `json:"magicCost,omitempty"`
	StaminaCost int32      `json:"staminaCost,omitempty"`
	Cooldown    uint8      `json:"cooldown,omitempty"`
	Effects     []Effect   `json:"effects"`
	Shape       Shape      `json:"shape"`
	Duration    uint8      `json:"duration,omitempty"` // ticks, 0 = instantaneous
	Targets     uint8      `json:"targets,omitempty"`
	TargetSide  TargetSide `json:"targetSide"`
}

// PackID builds an ability id from level and sub-id.
func PackID(level, subID uint8) uint16 {
	return uint16(level)<<8 | uint16(subID)
}

// Level returns the high byte of the packed id.
func (a *Ability) Level() uint8 {
	return uint8((a.ID & 0xFF00) >> 8)
}

// SubID returns the low byte of the packed id.
func (a *Ability) SubID() uint8 {
	return uint8(a.ID & 0x00FF)
}

// IsOffensive returns true if the ability targets enemies.
func (a *Ability) IsOffensive() bool {
	return a.TargetSide == TargetEnemy
}

// HasEffect reports whether the ability carries an effect of the given kind.
func (a *Ability) HasEffect(kind EffectKind) bool {
	for _, e := range a.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// AbilitiesFile represents the structure of abilities.json.
type AbilitiesFile struct {
	Abilities []Ability `json:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.json file.
func LoadAbilities() ([]Ability, error) {
	file, err := Load[AbilitiesFile]("abilities.json")
	if err != nil {
		return nil, err
	}
	return file.Abilities, nil
}
