package gamedata

import (
	"errors"
	"fmt"

	"github.com/samdwyer/turncore/internal/rng"
)

// ErrUnknownTemplate is returned when a lineup names a template that is not loaded.
var ErrUnknownTemplate = errors.New("unknown template")

// EnemyRegistry holds enemy templates and draws weighted lineups from them.
type EnemyRegistry struct {
	enemies     []EnemyDef
	byID        map[string]int
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy templates.
// Templates with a non-positive spawn weight can be fetched by ID but are
// never drawn.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	r := &EnemyRegistry{enemies: enemies, byID: make(map[string]int, len(enemies))}
	for i, e := range enemies {
		r.byID[e.ID] = i
		if e.SpawnWeight > 0 {
			r.totalWeight += e.SpawnWeight
		}
	}
	return r
}

// LoadEnemyRegistry builds a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// MustLoadEnemyRegistry loads a registry, panicking on error.
func MustLoadEnemyRegistry() *EnemyRegistry {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom draws one template, weighted by spawnWeight. It consumes
// exactly one roll, or none when nothing can be drawn.
func (r *EnemyRegistry) SpawnRandom(roller rng.Roller) *EnemyDef {
	if r.totalWeight <= 0 {
		return nil
	}
	roll := roller.Intn(r.totalWeight)
	for i := range r.enemies {
		w := r.enemies[i].SpawnWeight
		if w <= 0 {
			continue
		}
		if roll < w {
			return &r.enemies[i]
		}
		roll -= w
	}
	return nil
}

// Lineup draws n templates with SpawnRandom.
func (r *EnemyRegistry) Lineup(roller rng.Roller, n int) []*EnemyDef {
	out := make([]*EnemyDef, 0, n)
	for range n {
		if e := r.SpawnRandom(roller); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// GetByID returns the template with the given ID, or nil.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return &r.enemies[i]
}

// All returns every template in file order.
func (r *EnemyRegistry) All() []EnemyDef {
	return r.enemies
}

func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// ClassRegistry holds the playable character templates.
type ClassRegistry struct {
	classes map[string]*ClassDef
	all     []ClassDef
}

// NewClassRegistry creates a registry from loaded class templates.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	r := &ClassRegistry{classes: make(map[string]*ClassDef, len(classes)), all: classes}
	for i := range classes {
		r.classes[classes[i].ID] = &classes[i]
	}
	return r
}

// LoadClassRegistry builds a registry from the embedded classes.json.
func LoadClassRegistry() (*ClassRegistry, error) {
	classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	return NewClassRegistry(classes), nil
}

// GetByID returns the template with the given ID, or nil.
func (r *ClassRegistry) GetByID(id string) *ClassDef {
	return r.classes[id]
}

// GetMultiple returns the templates for ids, skipping unknown ones.
func (r *ClassRegistry) GetMultiple(ids []string) []*ClassDef {
	result := make([]*ClassDef, 0, len(ids))
	for _, id := range ids {
		if def := r.classes[id]; def != nil {
			result = append(result, def)
		}
	}
	return result
}

// Party is GetMultiple that fails on the first unknown id.
func (r *ClassRegistry) Party(ids []string) ([]*ClassDef, error) {
	result := make([]*ClassDef, 0, len(ids))
	for _, id := range ids {
		def := r.classes[id]
		if def == nil {
			return nil, fmt.Errorf("%w: class %q", ErrUnknownTemplate, id)
		}
		result = append(result, def)
	}
	return result, nil
}

// All returns every template in file order.
func (r *ClassRegistry) All() []ClassDef {
	return r.all
}

func (r *ClassRegistry) Count() int {
	return len(r.all)
}
