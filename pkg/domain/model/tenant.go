package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// Tenant represents an isolated customer account
type Tenant struct {
	ID   types.TenantID
	Name string
}

// ErrTenantNotFound is returned when a tenant is not found in the registry
var ErrTenantNotFound = goerr.New("tenant not found")

// TenantRegistry holds the set of onboarded tenants. It is settings only and
// holds no repository or use case instances.
type TenantRegistry struct {
	entries map[types.TenantID]*Tenant
	order   []types.TenantID // preserves registration order
}

// NewTenantRegistry creates a new empty TenantRegistry
func NewTenantRegistry() *TenantRegistry {
	return &TenantRegistry{
		entries: make(map[types.TenantID]*Tenant),
	}
}

// Register adds a tenant to the registry
func (r *TenantRegistry) Register(t *Tenant) {
	if _, exists := r.entries[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.entries[t.ID] = t
}

// Get retrieves a tenant by ID
func (r *TenantRegistry) Get(id types.TenantID) (*Tenant, error) {
	t, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(ErrTenantNotFound, "tenant not found",
			goerr.V("tenant_id", id))
	}
	return t, nil
}

// List returns all registered tenants in registration order
func (r *TenantRegistry) List() []*Tenant {
	result := make([]*Tenant, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}
