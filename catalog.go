package modelroute

import (
	"fmt"
	"strings"
)

// ModelEntry describes one model of the catalog.
type ModelEntry struct {
	ID            string `yaml:"id" json:"id"`
	Provider      string `yaml:"provider" json:"provider"`
	Name          string `yaml:"name" json:"name,omitempty"`
	Family        string `yaml:"family" json:"family,omitempty"`
	ContextWindow int    `yaml:"context_window" json:"contextWindow"`
}

// DisplayName returns Name, or the id when no name is configured.
func (m ModelEntry) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// FamilyName returns Family, or the display name when no family is configured.
func (m ModelEntry) FamilyName() string {
	if m.Family != "" {
		return m.Family
	}
	return m.DisplayName()
}

// ProviderOf returns the provider prefix of a "provider/name" model id,
// or "" when id has no prefix.
func ProviderOf(id string) string {
	provider, _, ok := strings.Cut(id, "/")
	if !ok {
		return ""
	}
	return provider
}

// Catalog is a read-only set of models. It is never mutated after
// construction and is safe for concurrent reads.
type Catalog struct {
	models        []ModelEntry
	byID          map[string]ModelEntry
	defaultWindow int
}

// NewCatalog builds a catalog from entries. Later duplicates are ignored.
// Models not in the catalog are assumed to have defaultWindow tokens of context.
func NewCatalog(entries []ModelEntry, defaultWindow int) *Catalog {
	if defaultWindow <= 0 {
		defaultWindow = DefaultContextWindow
	}
	c := &Catalog{
		models:        make([]ModelEntry, 0, len(entries)),
		byID:          make(map[string]ModelEntry, len(entries)),
		defaultWindow: defaultWindow,
	}
	for _, m := range entries {
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		if m.Provider == "" {
			m.Provider = ProviderOf(m.ID)
		}
		c.models = append(c.models, m)
		c.byID[m.ID] = m
	}
	return c
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id string) (ModelEntry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Get returns the entry for id, or ErrUnknownModel.
func (c *Catalog) Get(id string) (ModelEntry, error) {
	m, ok := c.byID[id]
	if !ok {
		return ModelEntry{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return m, nil
}

// Resolve returns the entry for id, synthesizing one for unknown models from
// the id prefix and the default context window.
func (c *Catalog) Resolve(id string) ModelEntry {
	if m, ok := c.byID[id]; ok {
		return m
	}
	return ModelEntry{ID: id, Provider: ProviderOf(id), ContextWindow: c.defaultWindow}
}

// Provider returns the provider of id.
func (c *Catalog) Provider(id string) string {
	return c.Resolve(id).Provider
}

// ContextWindow returns the context window of id.
func (c *Catalog) ContextWindow(id string) int {
	return c.Resolve(id).ContextWindow
}

// Models returns a copy of all entries in catalog order.
func (c *Catalog) Models() []ModelEntry {
	out := make([]ModelEntry, len(c.models))
	copy(out, c.models)
	return out
}

// Len returns the number of models.
func (c *Catalog) Len() int { return len(c.models) }
