package model

import (
	"encoding/json"
)

type EntityType string

const (
	Developer EntityType = "developer"
	Investor  EntityType = "investor"
)

// Entity is one resolved developer or investor. NormalizedVariants is sorted
// and always holds the normalized canonical name.
type Entity struct {
	ID                 string     `json:"id"`
	Type               EntityType `json:"type"`
	CanonicalName      string     `json:"canonical_name"`
	AlternateNames     []string   `json:"alternate_names"`
	NormalizedVariants []string   `json:"normalized_variants"`
}

// Names returns the canonical name followed by the alternates in input order.
func (e *Entity) Names() []string {
	names := make([]string, 0, len(e.AlternateNames)+1)
	names = append(names, e.CanonicalName)
	return append(names, e.AlternateNames...)
}

// EntityMap keeps entities of a single type in source order.
type EntityMap struct {
	Type     EntityType
	order    []string
	entities map[string]*Entity
}

func NewEntityMap(t EntityType) *EntityMap {
	return &EntityMap{
		Type:     t,
		entities: make(map[string]*Entity),
	}
}

// Add inserts e unless its id is already present. It reports whether e was added.
func (m *EntityMap) Add(e *Entity) bool {
	if _, exists := m.entities[e.ID]; exists {
		return false
	}
	m.order = append(m.order, e.ID)
	m.entities[e.ID] = e
	return true
}

func (m *EntityMap) Get(id string) (*Entity, bool) {
	if m == nil {
		return nil, false
	}
	e, ok := m.entities[id]
	return e, ok
}

func (m *EntityMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

func (m *EntityMap) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// Entities returns the entities in source order.
func (m *EntityMap) Entities() []*Entity {
	if m == nil {
		return nil
	}
	out := make([]*Entity, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id])
	}
	return out
}

// MarshalJSON writes the map keyed by entity id.
func (m *EntityMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.entities)
}
