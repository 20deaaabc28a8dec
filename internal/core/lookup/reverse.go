// Package lookup inverts entity maps into variant -> id indexes.
package lookup

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/core/normalize"
)

// ReverseLookup maps every normalized variant of one entity type to the id
// that owns it. When two entities share a variant the one processed later
// wins and the overwrite is recorded as a collision.
type ReverseLookup struct {
	Type       model.EntityType
	normalizer *normalize.Normalizer
	index      map[string]string
	collisions int
}

// Build walks m in source order. normalizer is used by Lookup and defaults to
// the standard suffix list.
func Build(m *model.EntityMap, normalizer *normalize.Normalizer, warnings *model.Warnings) *ReverseLookup {
	if normalizer == nil {
		normalizer = normalize.New(normalize.DefaultSuffixes)
	}
	r := &ReverseLookup{
		normalizer: normalizer,
		index:      make(map[string]string),
	}
	if m == nil {
		return r
	}
	r.Type = m.Type

	for _, e := range m.Entities() {
		for _, v := range e.NormalizedVariants {
			if prev, ok := r.index[v]; ok && prev != e.ID {
				r.collisions++
				warnings.Add(model.WarnVariantCollision, v,
					fmt.Sprintf("%s variant shared by %s and %s; %s wins", m.Type, prev, e.ID, e.ID))
			}
			r.index[v] = e.ID
		}
	}
	return r
}

// Lookup normalizes name and returns the owning id.
func (r *ReverseLookup) Lookup(name string) (string, error) {
	if r == nil {
		return "", model.ErrNotFound
	}
	return r.LookupVariant(r.normalizer.Normalize(name))
}

// LookupVariant expects an already normalized key.
func (r *ReverseLookup) LookupVariant(variant string) (string, error) {
	if r == nil || variant == "" {
		return "", model.ErrNotFound
	}
	id, ok := r.index[variant]
	if !ok {
		return "", model.ErrNotFound
	}
	return id, nil
}

func (r *ReverseLookup) Len() int {
	if r == nil {
		return 0
	}
	return len(r.index)
}

func (r *ReverseLookup) Collisions() int {
	return r.collisions
}

// Variants returns the indexed keys in lexicographic order.
func (r *ReverseLookup) Variants() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.index))
	for k := range r.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes the index as a flat object. encoding/json sorts map
// keys, so the output is stable.
func (r *ReverseLookup) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.index)
}
