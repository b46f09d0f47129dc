package gamedata

import (
	"errors"

	"github.com/samdwyer/turncore/internal/actor"
)

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []actor.Equipment `json:"items"`
}

// LoadItems loads equipment definitions from the embedded items.json file.
func LoadItems() ([]actor.Equipment, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// ItemRegistry holds loaded equipment definitions.
type ItemRegistry struct {
	items map[uint32]*actor.Equipment
	all   []actor.Equipment
}

// NewItemRegistry creates a registry from loaded equipment definitions.
func NewItemRegistry(items []actor.Equipment) *ItemRegistry {
	registry := &ItemRegistry{
		items: make(map[uint32]*actor.Equipment),
		all:   items,
	}
	for i := range items {
		registry.items[items[i].ID] = &items[i]
	}
	return registry
}

// LoadItemRegistry loads and creates a registry from the embedded items.json.
func LoadItemRegistry() (*ItemRegistry, error) {
	items, err := LoadItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no items loaded from items.json")
	}
	return NewItemRegistry(items), nil
}

// GetByID returns the item with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id uint32) *actor.Equipment {
	return r.items[id]
}

// Count returns the number of items in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.all)
}
