package engine

import (
	"sync"

	"holophonix-engine/internal/animation"
)

// Catalog is the engine's read-only-after-load set of named animations,
// standing in for the project file the external authoring-tool collaborator
// owns: the catalog is populated once at boot and looked up by name to
// resolve `/anim/*` inbound control and named Play requests.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]*animation.Animation
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*animation.Animation)}
}

// Register adds or replaces the catalog entry for anim.Name.
func (c *Catalog) Register(anim *animation.Animation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byName[anim.Name] = anim
}

// Lookup returns the animation registered under name, if any.
func (c *Catalog) Lookup(name string) (*animation.Animation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byName[name]
	return a, ok
}
