package gamedata

import "github.com/samdwyer/turncore/internal/actor"

// ResourceDef is a currency's starting max and per-turn regen.
type ResourceDef struct {
	Max   int32 `json:"max"`
	Regen int32 `json:"regen"`
}

// StatBlock is the starting stat set shared by class and enemy templates.
type StatBlock struct {
	Experience uint32                 `json:"experience"`
	Health     ResourceDef            `json:"health"`
	Magic      ResourceDef            `json:"magic"`
	Stamina    ResourceDef            `json:"stamina"`
	ExtraHP    int32                  `json:"extraHp,omitempty"`
	Stats      actor.CombatStats      `json:"stats"`
	Growth     actor.GrowthAttributes `json:"growth"`
	Curve      *actor.GrowthCurve     `json:"curve,omitempty"`
	Equipment  []uint32               `json:"equipment,omitempty"`
	Abilities  []uint16               `json:"abilities"`
	AIProfile  string                 `json:"aiProfile,omitempty"`
}

// ClassDef defines a playable character template loaded from JSON.
type ClassDef struct {
	ID      string `json:"id"`      // Unique identifier (e.g., "petrus")
	Name    string `json:"name"`    // Display name (e.g., "Petrus")
	Class   string `json:"class"`   // Class tag (e.g., "paladin")
	Passive string `json:"passive"` // defensive, evasive, shield or empty
	StatBlock
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// MustLoadClasses loads class definitions, panicking on error.
func MustLoadClasses() []ClassDef {
	classes, err := LoadClasses()
	if err != nil {
		panic(err)
	}
	return classes
}
