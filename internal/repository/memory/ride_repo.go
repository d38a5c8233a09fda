package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ridetogether/internal/domain/entities"
	"ridetogether/internal/storage"
)

var ErrRideNotFound = errors.New("ride not found")

// RideRepository holds the ride offers in creation order. All reads hand out
// clones, so callers mutate a private copy and commit it through Update; the
// stored collection only ever changes under the write lock.
type RideRepository struct {
	mu      sync.RWMutex
	rides   []*entities.RideOffer
	index   map[string]int
	store   storage.Store
	timeout time.Duration
	log     zerolog.Logger
}

// NewRideRepository loads the ride snapshot, seeding the collection when the
// snapshot is absent or corrupt. Corruption is recovered, not propagated.
func NewRideRepository(ctx context.Context, store storage.Store, seed []*entities.RideOffer, timeout time.Duration, log zerolog.Logger) (*RideRepository, error) {
	r := &RideRepository{
		index:   make(map[string]int),
		store:   store,
		timeout: timeout,
		log:     log.With().Str("component", "ride_repo").Logger(),
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loaded, present, err := storage.LoadSnapshot[[]*entities.RideOffer](loadCtx, store, storage.KeyRides)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		r.log.Warn().Err(err).Msg("discarding corrupt ride snapshot")
		if err := store.Delete(loadCtx, storage.KeyRides); err != nil {
			return nil, err
		}
		present = false
	case err != nil:
		return nil, err
	}

	if present {
		r.replaceAll(loaded)
		return r, nil
	}

	r.replaceAll(seed)
	if err := r.persistLocked(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RideRepository) replaceAll(rides []*entities.RideOffer) {
	r.rides = r.rides[:0]
	for _, ride := range rides {
		c := ride.Clone()
		r.index[c.ID] = len(r.rides)
		r.rides = append(r.rides, c)
	}
}

func (r *RideRepository) persistLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return storage.SaveSnapshot(ctx, r.store, storage.KeyRides, r.rides)
}

// Create appends a new ride offer. State is unchanged when persisting fails.
func (r *RideRepository) Create(ctx context.Context, ride *entities.RideOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := ride.Clone()
	r.index[c.ID] = len(r.rides)
	r.rides = append(r.rides, c)

	if err := r.persistLocked(ctx); err != nil {
		r.rides = r.rides[:len(r.rides)-1]
		delete(r.index, c.ID)
		return err
	}
	return nil
}

func (r *RideRepository) GetByID(ctx context.Context, id string) (*entities.RideOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[id]
	if !exists {
		return nil, ErrRideNotFound
	}
	return r.rides[i].Clone(), nil
}

// Update replaces the stored ride with the same ID and persists the full
// snapshot. On persist failure the previous version stays in place.
func (r *RideRepository) Update(ctx context.Context, ride *entities.RideOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, exists := r.index[ride.ID]
	if !exists {
		return ErrRideNotFound
	}

	previous := r.rides[i]
	r.rides[i] = ride.Clone()

	if err := r.persistLocked(ctx); err != nil {
		r.rides[i] = previous
		return err
	}
	return nil
}

// List returns all ride offers in creation order.
func (r *RideRepository) List(ctx context.Context) []*entities.RideOffer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.RideOffer, 0, len(r.rides))
	for _, ride := range r.rides {
		out = append(out, ride.Clone())
	}
	return out
}

// ForUser returns the rides where userID is the driver or a passenger,
// preserving creation order.
func (r *RideRepository) ForUser(ctx context.Context, userID string) []*entities.RideOffer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.RideOffer
	for _, ride := range r.rides {
		if ride.InvolvesUser(userID) {
			out = append(out, ride.Clone())
		}
	}
	return out
}
