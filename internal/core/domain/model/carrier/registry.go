package carrier

import (
	"sort"

	"fulfillment/internal/pkg/errs"
)

// Registry is the read-only catalog of configured carriers, keyed by carrier
// id. It performs pure lookups and never calls out.
type Registry struct {
	byID map[string]Carrier
}

// NewRegistry builds a registry from the configured carrier list. Duplicate
// ids are rejected.
func NewRegistry(carriers []Carrier) (*Registry, error) {
	byID := make(map[string]Carrier, len(carriers))
	for _, c := range carriers {
		if _, exists := byID[c.ID()]; exists {
			return nil, errs.NewValueIsInvalidError("duplicate carrierId: " + c.ID())
		}
		byID[c.ID()] = c
	}
	return &Registry{byID: byID}, nil
}

// Get returns the carrier for the given id.
func (r *Registry) Get(id string) (Carrier, error) {
	c, ok := r.byID[id]
	if !ok {
		return Carrier{}, errs.NewObjectNotFoundError("carrierId", id)
	}
	return c, nil
}

// All returns every configured carrier, ordered by id for determinism.
func (r *Registry) All() []Carrier {
	carriers := make([]Carrier, 0, len(r.byID))
	for _, c := range r.byID {
		carriers = append(carriers, c)
	}
	sort.Slice(carriers, func(i, j int) bool {
		return carriers[i].ID() < carriers[j].ID()
	})
	return carriers
}
