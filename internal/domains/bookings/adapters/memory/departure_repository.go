package memory

import (
	"context"
	"sync"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

// DepartureRepository is an in-memory ports.DepartureRepository.
type DepartureRepository struct {
	mu         sync.RWMutex
	departures map[string]*domain.Departure
}

var _ ports.DepartureRepository = (*DepartureRepository)(nil)

// NewDepartureRepository creates an empty in-memory departure repository.
func NewDepartureRepository() *DepartureRepository {
	return &DepartureRepository{departures: make(map[string]*domain.Departure)}
}

func departureKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// Create stores a new departure at version 1.
func (r *DepartureRepository) Create(_ context.Context, departure *domain.Departure) (*domain.Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := departure.Clone()
	stored.Version = 1
	r.departures[departureKey(stored.TenantID, stored.ID)] = stored
	return stored.Clone(), nil
}

// GetByID returns the departure or ports.ErrDepartureNotFound.
func (r *DepartureRepository) GetByID(_ context.Context, tenantID, id string) (*domain.Departure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	departure, ok := r.departures[departureKey(tenantID, id)]
	if !ok {
		return nil, ports.ErrDepartureNotFound
	}
	return departure.Clone(), nil
}

// UpdateVersioned persists the departure only if the stored version still
// matches, then bumps it.
func (r *DepartureRepository) UpdateVersioned(_ context.Context, departure *domain.Departure) (*domain.Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := departureKey(departure.TenantID, departure.ID)
	current, ok := r.departures[key]
	if !ok {
		return nil, ports.ErrDepartureNotFound
	}
	if current.Version != departure.Version {
		return nil, ports.ErrVersionConflict
	}

	stored := departure.Clone()
	stored.Version = departure.Version + 1
	r.departures[key] = stored
	return stored.Clone(), nil
}
