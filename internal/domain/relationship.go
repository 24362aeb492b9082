package domain

import (
	"fmt"
	"sort"

	"embryo.dev/pkg/embryo/internal/adapter"
	m "embryo.dev/pkg/embryo/internal/model"
)

// RelationshipResolver binds declared relationships against the history
// records loaded for the current destination. Resolution happens once per
// build, before the pre-create hook fires, and is read-only with respect to
// the store.
type RelationshipResolver struct {
	history adapter.HistoryStore
}

// NewRelationshipResolver constructs a RelationshipResolver.
func NewRelationshipResolver(history adapter.HistoryStore) *RelationshipResolver {
	return &RelationshipResolver{history: history}
}

// Bind resolves every relationship and installs the result in ctx under the
// relationship's slot name. A non-negative index in range selects a single
// recorded context; otherwise the full match list is bound. Slots are
// processed in name order for determinism.
func (r *RelationshipResolver) Bind(ctx m.Context, rels map[string]m.Relationship) error {
	slots := make([]string, 0, len(rels))
	for slot := range rels {
		slots = append(slots, slot)
	}

	sort.Strings(slots)

	for _, slot := range slots {
		if slot == m.ReservedKey {
			return fmt.Errorf("relationship slot %q collides with the reserved context key", slot)
		}

		rel := rels[slot]
		matches := r.history.Find(rel.Name, rel.Dir)

		contexts := make([]any, 0, len(matches))
		for _, rec := range matches {
			contexts = append(contexts, rec.Context)
		}

		if rel.Index >= 0 && rel.Index < len(contexts) {
			ctx[slot] = contexts[rel.Index]
			continue
		}

		ctx[slot] = contexts
	}

	return nil
}
