package tokenmap

import (
	"reflect"
	"sync"

	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Hook function types for token events between two builds
type (
	// TokenAddedHook is called when a token appears in the catalog
	TokenAddedHook func(tok tokens.Token)

	// TokenUpdatedHook is called when a token's metadata changes
	TokenUpdatedHook func(old, new tokens.Token)

	// TokenRemovedHook is called when a token leaves the catalog
	TokenRemovedHook func(tok tokens.Token)
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hooks registers callbacks fired after a build that follows an earlier
// successful build of the same client.
type Hooks interface {
	OnTokenAdded(TokenAddedHook)
	OnTokenUpdated(TokenUpdatedHook)
	OnTokenRemoved(TokenRemovedHook)
}

// OnTokenAdded implements Hooks.
func (c *client) OnTokenAdded(fn TokenAddedHook) { c.hooks.onAdded(fn) }

// OnTokenUpdated implements Hooks.
func (c *client) OnTokenUpdated(fn TokenUpdatedHook) { c.hooks.onUpdated(fn) }

// OnTokenRemoved implements Hooks.
func (c *client) OnTokenRemoved(fn TokenRemovedHook) { c.hooks.onRemoved(fn) }

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu      sync.RWMutex
	added   []TokenAddedHook
	updated []TokenUpdatedHook
	removed []TokenRemovedHook
}

func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) onAdded(fn TokenAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.added = append(h.added, fn)
}

func (h *hooks) onUpdated(fn TokenUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, fn)
}

func (h *hooks) onRemoved(fn TokenRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = append(h.removed, fn)
}

// trigger compares two catalogs by address and fires the matching hooks.
// Both slices are expected in address order.
func (h *hooks) trigger(before, after []tokens.Token) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	old := make(map[string]tokens.Token, len(before))
	for _, t := range before {
		old[t.Address] = t.Finalize()
	}

	seen := make(map[string]bool, len(after))
	for _, t := range after {
		t = t.Finalize()
		seen[t.Address] = true
		prev, exists := old[t.Address]
		switch {
		case !exists:
			for _, fn := range h.added {
				fn(t)
			}
		case !reflect.DeepEqual(prev, t):
			for _, fn := range h.updated {
				fn(prev, t)
			}
		}
	}

	for _, t := range before {
		if seen[t.Address] {
			continue
		}
		for _, fn := range h.removed {
			fn(old[t.Address])
		}
	}
}
