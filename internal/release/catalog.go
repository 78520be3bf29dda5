package release

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Listener is called with the new entries after each successful refresh.
type Listener func(entries []Entry)

// Catalog owns the in-memory list of releases. It is replaced wholesale on each
// successful refresh and left untouched on failure.
type Catalog struct {
	source Source
	logger *slog.Logger

	mu        sync.RWMutex
	entries   []Entry
	index     map[string]int
	updatedAt time.Time

	listenersMu sync.Mutex
	listeners   []Listener
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the catalog logger.
func WithCatalogLogger(l *slog.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog creates an empty catalog backed by source.
func NewCatalog(source Source, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		source: source,
		logger: slog.Default(),
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh performs one fetch and, on success, replaces the catalog and
// notifies listeners. The returned slice is a copy.
func (c *Catalog) Refresh(ctx context.Context) ([]Entry, error) {
	entries, err := c.source.Fetch(ctx)
	if err != nil {
		c.logger.Warn("release refresh failed",
			slog.String("kind", KindOf(err).String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Tag] = i
	}

	c.mu.Lock()
	c.entries = entries
	c.index = index
	c.updatedAt = time.Now()
	c.mu.Unlock()

	c.logger.Info("release catalog refreshed", slog.Int("releases", len(entries)))

	snapshot := c.Entries()
	c.listenersMu.Lock()
	listeners := append([]Listener(nil), c.listeners...)
	c.listenersMu.Unlock()
	for _, l := range listeners {
		l(c.Entries())
	}

	return snapshot, nil
}

// Entries returns a copy of the catalog in source order.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds an entry by tag.
func (c *Catalog) Lookup(tag string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[tag]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// UpdatedAt returns the time of the last successful refresh, zero if none.
func (c *Catalog) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// OnChanged registers a listener for catalog replacements.
func (c *Catalog) OnChanged(l Listener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, l)
	c.listenersMu.Unlock()
}
