// Package memory implements the in-memory collections behind the identity
// directory and the ride inventory. Each repository loads its collection from
// a persistent store snapshot at construction and writes the full snapshot
// back on every mutation.
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

var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrEmailTaken       = errors.New("email already registered")
)

// IdentityRepository holds the registered identities. The slice keeps
// registration order; the email index enforces case-sensitive uniqueness.
type IdentityRepository struct {
	mu         sync.RWMutex
	identities []*entities.UserIdentity
	byEmail    map[string]*entities.UserIdentity
	store      storage.Store
	timeout    time.Duration
	log        zerolog.Logger
}

// NewIdentityRepository loads the identity snapshot, falling back to seed when
// the snapshot is absent. A corrupt snapshot is discarded and replaced by the
// seed set; that recovery is logged, never surfaced as fatal.
func NewIdentityRepository(ctx context.Context, store storage.Store, seed []*entities.UserIdentity, timeout time.Duration, log zerolog.Logger) (*IdentityRepository, error) {
	r := &IdentityRepository{
		byEmail: make(map[string]*entities.UserIdentity),
		store:   store,
		timeout: timeout,
		log:     log.With().Str("component", "identity_repo").Logger(),
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loaded, present, err := storage.LoadSnapshot[[]*entities.UserIdentity](loadCtx, store, storage.KeyIdentities)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		r.log.Warn().Err(err).Msg("discarding corrupt identity snapshot")
		if err := store.Delete(loadCtx, storage.KeyIdentities); err != nil {
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

func (r *IdentityRepository) replaceAll(identities []*entities.UserIdentity) {
	r.identities = r.identities[:0]
	for _, u := range identities {
		c := u.Clone()
		r.identities = append(r.identities, c)
		r.byEmail[c.Email] = c
	}
}

// persistLocked writes the full identity snapshot. Callers must hold the
// write lock (or have exclusive access during construction).
func (r *IdentityRepository) persistLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return storage.SaveSnapshot(ctx, r.store, storage.KeyIdentities, r.identities)
}

// Create registers a new identity. The email must not already be present
// (exact, case-sensitive match). State is unchanged when persisting fails.
func (r *IdentityRepository) Create(ctx context.Context, identity *entities.UserIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[identity.Email]; exists {
		return ErrEmailTaken
	}

	c := identity.Clone()
	r.identities = append(r.identities, c)
	r.byEmail[c.Email] = c

	if err := r.persistLocked(ctx); err != nil {
		r.identities = r.identities[:len(r.identities)-1]
		delete(r.byEmail, c.Email)
		return err
	}
	return nil
}

// GetByEmail finds an identity by exact email match.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entities.UserIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, exists := r.byEmail[email]
	if !exists {
		return nil, ErrIdentityNotFound
	}
	return identity.Clone(), nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*entities.UserIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, identity := range r.identities {
		if identity.ID == id {
			return identity.Clone(), nil
		}
	}
	return nil, ErrIdentityNotFound
}

// Update replaces the stored identity with the same ID. Email changes are not
// supported; the email index stays keyed on the original address.
func (r *IdentityRepository) Update(ctx context.Context, identity *entities.UserIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.identities {
		if existing.ID != identity.ID {
			continue
		}
		c := identity.Clone()
		c.Email = existing.Email
		r.identities[i] = c
		r.byEmail[c.Email] = c

		if err := r.persistLocked(ctx); err != nil {
			r.identities[i] = existing
			r.byEmail[existing.Email] = existing
			return err
		}
		return nil
	}
	return ErrIdentityNotFound
}

// Delete removes the identity with the given ID. State is unchanged when
// persisting fails. Used to unwind a registration whose follow-up work failed;
// identities are never deleted in normal operation.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.identities {
		if existing.ID != id {
			continue
		}
		r.identities = append(r.identities[:i:i], r.identities[i+1:]...)
		delete(r.byEmail, existing.Email)

		if err := r.persistLocked(ctx); err != nil {
			rest := append([]*entities.UserIdentity{existing}, r.identities[i:]...)
			r.identities = append(r.identities[:i], rest...)
			r.byEmail[existing.Email] = existing
			return err
		}
		return nil
	}
	return ErrIdentityNotFound
}

// List returns the registered identities in registration order.
func (r *IdentityRepository) List(ctx context.Context) []*entities.UserIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.UserIdentity, 0, len(r.identities))
	for _, identity := range r.identities {
		out = append(out, identity.Clone())
	}
	return out
}
