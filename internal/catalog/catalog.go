// internal/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/overflow-online/overflow-server/internal/models"
)

// Loader fetches the full card catalog from wherever it persists.
type Loader interface {
	FindAll(ctx context.Context) ([]models.Card, error)
}

// Catalog caches the card list in-process. The loader runs at most once until
// Invalidate is called; concurrent callers share the cached result.
type Catalog struct {
	loader Loader

	mu     sync.Mutex
	loaded bool
	cards  []models.Card
	byID   map[string]models.Card
}

// New wraps a Loader in an unloaded cache.
func New(loader Loader) *Catalog {
	return &Catalog{loader: loader}
}

// All returns every card, loading the catalog on first use.
func (c *Catalog) All(ctx context.Context) ([]models.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx); err != nil {
		return nil, err
	}
	return c.cards, nil
}

// Lookup resolves a card id. The bool is false when the id is absent from the
// catalog, which callers treat as a data-integrity fault rather than user error.
func (c *Catalog) Lookup(ctx context.Context, id string) (models.Card, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx); err != nil {
		return models.Card{}, false, err
	}
	card, ok := c.byID[id]
	return card, ok, nil
}

// Invalidate drops the cached catalog so the next read reloads it.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.cards = nil
	c.byID = nil
}

// loadLocked populates the cache if needed. Caller holds c.mu.
func (c *Catalog) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	cards, err := c.loader.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load card catalog: %w", err)
	}
	byID := make(map[string]models.Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	c.cards = cards
	c.byID = byID
	c.loaded = true
	return nil
}
