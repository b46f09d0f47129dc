package gamedata

import (
	"errors"
	"log/slog"
	"sync"
)

const noChild int32 = -1

type node struct {
	ability     Ability
	left, right int32
}

// Catalog is a binary search tree of abilities keyed by packed id.
//
// Nodes live in a flat slice and reference their children by index, so a
// single RWMutex guards the whole tree. If a writer panics mid-mutation the
// catalog is poisoned: every later read logs and returns nothing until
// Rebuild is called.
type Catalog struct {
	mu       sync.RWMutex
	nodes    []node
	root     int32
	poisoned bool
}

// NewCatalog creates a catalog by inserting abilities in order.
func NewCatalog(abilities []Ability) *Catalog {
	c := &Catalog{root: noChild}
	for i := range abilities {
		c.Insert(abilities[i])
	}
	return c
}

// LoadCatalog builds a catalog from the embedded abilities.json.
func LoadCatalog() (*Catalog, error) {
	abilities, err := LoadAbilities()
	if err != nil {
		return nil, err
	}
	if len(abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.json")
	}
	return NewCatalog(abilities), nil
}

// MustLoadCatalog loads a catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Insert adds an ability, replacing the payload of an existing node with the same id.
func (c *Catalog) Insert(ability Ability) {
	c.mutate(func() {
		if c.root == noChild {
			c.root = c.push(ability)
			return
		}
		i := c.root
		for {
			n := &c.nodes[i]
			switch {
			case ability.ID == n.ability.ID:
				n.ability = ability
				return
			case ability.ID < n.ability.ID:
				if n.left == noChild {
					child := c.push(ability)
					c.nodes[i].left = child
					return
				}
				i = n.left
			default:
				if n.right == noChild {
					child := c.push(ability)
					c.nodes[i].right = child
					return
				}
				i = n.right
			}
		}
	})
}

// Find returns the ability with the given id, or nil.
func (c *Catalog) Find(id uint16) *Ability {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.readable("find") {
		return nil
	}
	i := c.root
	for i != noChild {
		n := &c.nodes[i]
		switch {
		case id == n.ability.ID:
			a := n.ability
			return &a
		case id < n.ability.ID:
			i = n.left
		default:
			i = n.right
		}
	}
	return nil
}

// FindByName returns the first ability in traversal order with the given name, or nil.
func (c *Catalog) FindByName(name string) *Ability {
	for _, a := range c.TraverseAll() {
		if a.Name == name {
			return &a
		}
	}
	return nil
}

// FindAllOfLevel returns every ability of the given level.
//
// It walks the right spine from the root looking for any node of that level;
// only once one is found does it scan the whole tree. If the spine holds no
// node of the level the result is nil, even if deeper left subtrees would.
func (c *Catalog) FindAllOfLevel(level uint8) []Ability {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.readable("find_all_of_level") {
		return nil
	}
	for i := c.root; i != noChild; i = c.nodes[i].right {
		if c.nodes[i].ability.Level() != level {
			continue
		}
		var out []Ability
		c.walk(func(a *Ability) {
			if a.Level() == level {
				out = append(out, *a)
			}
		})
		return out
	}
	return nil
}

// TraverseAll returns every ability in pre-order.
func (c *Catalog) TraverseAll() []Ability {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.readable("traverse_all") {
		return nil
	}
	out := make([]Ability, 0, len(c.nodes))
	c.walk(func(a *Ability) { out = append(out, *a) })
	return out
}

// Count returns the number of abilities in the catalog.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Poisoned reports whether a writer panicked mid-mutation.
func (c *Catalog) Poisoned() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.poisoned
}

// Rebuild discards the tree, clears any poisoning and inserts abilities in order.
func (c *Catalog) Rebuild(abilities []Ability) {
	c.mu.Lock()
	c.nodes = nil
	c.root = noChild
	c.poisoned = false
	c.mu.Unlock()
	for i := range abilities {
		c.Insert(abilities[i])
	}
}

// mutate runs fn under the write lock. A panic inside fn poisons the
// catalog and keeps unwinding into the caller.
func (c *Catalog) mutate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		slog.Warn("ability catalog poisoned, dropping write")
		return
	}
	completed := false
	defer func() {
		if !completed {
			c.poisoned = true
		}
	}()
	fn()
	completed = true
}

func (c *Catalog) readable(op string) bool {
	if c.poisoned {
		slog.Warn("ability catalog poisoned, returning no result", "op", op)
		return false
	}
	return true
}

func (c *Catalog) push(ability Ability) int32 {
	c.nodes = append(c.nodes, node{ability: ability, left: noChild, right: noChild})
	return int32(len(c.nodes) - 1)
}

// walk visits nodes in pre-order. Callers hold the read lock.
func (c *Catalog) walk(visit func(*Ability)) {
	if c.root == noChild {
		return
	}
	stack := []int32{c.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &c.nodes[i]
		visit(&n.ability)
		if n.right != noChild {
			stack = append(stack, n.right)
		}
		if n.left != noChild {
			stack = append(stack, n.left)
		}
	}
}
