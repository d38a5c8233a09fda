package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridetogether/internal/config"
	"ridetogether/internal/domain/entities"
	"ridetogether/internal/repository/memory"
	"ridetogether/internal/storage"
)

func setupDirectory(t *testing.T, store storage.Store) *DirectoryService {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Client.CallLatency = 0
	cfg.Auth.BcryptCost = 4 // minimum cost keeps the tests fast

	repo, err := memory.NewIdentityRepository(context.Background(), store, nil, cfg.Store.OpTimeout, zerolog.Nop())
	require.NoError(t, err)

	svc, err := NewDirectoryService(context.Background(), cfg, repo, store, NopNotifier{}, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

// sessionWriteFailStore refuses writes to the session key so tests can force
// a registration to fail after the identity has been stored.
type sessionWriteFailStore struct {
	storage.Store
}

var errSessionWriteRefused = errors.New("session write refused")

func (s sessionWriteFailStore) Write(ctx context.Context, key string, data []byte) error {
	if key == storage.KeySession {
		return errSessionWriteRefused
	}
	return s.Store.Write(ctx, key, data)
}

func TestDirectoryService_RegisterEstablishesSession(t *testing.T) {
	svc := setupDirectory(t, storage.NewMemStore())
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, user.Avatar)
	assert.Empty(t, user.PasswordHash)

	session := svc.CurrentSession()
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.ID)
}

func TestDirectoryService_DuplicateEmailRejected(t *testing.T) {
	// Registering a@x.com twice fails the second time; the directory still
	// holds a single identity.
	svc := setupDirectory(t, storage.NewMemStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "a@x.com", "pw2")
	require.ErrorIs(t, err, ErrEmailRegistered)
	assert.Len(t, svc.repo.List(ctx), 1)
}

func TestDirectoryService_RegisterRollsBackWhenSessionPersistFails(t *testing.T) {
	// If the session snapshot cannot be written, the half-created identity
	// must be removed so the registration fails as a whole.
	svc := setupDirectory(t, sessionWriteFailStore{Store: storage.NewMemStore()})
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.ErrorIs(t, err, errSessionWriteRefused)

	assert.Nil(t, svc.CurrentSession())
	assert.Empty(t, svc.repo.List(ctx))

	_, err = svc.Authenticate(ctx, "alice@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectoryService_AuthenticateGoodAndBadCredentials(t *testing.T) {
	store := storage.NewMemStore()
	svc := setupDirectory(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx))

	user, err := svc.Authenticate(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectoryService_EmailMatchIsCaseSensitive(t *testing.T) {
	svc := setupDirectory(t, storage.NewMemStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "Alice@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectoryService_SessionSurvivesRestart(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	first := setupDirectory(t, store)
	user, err := first.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	// A fresh service over the same store restores the session snapshot.
	second := setupDirectory(t, store)
	session := second.CurrentSession()
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.ID)
	assert.Empty(t, session.PasswordHash)
}

func TestDirectoryService_CorruptSessionClearedOnRestore(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, storage.KeySession, []byte(`{"id":`)))

	svc := setupDirectory(t, store)
	assert.Nil(t, svc.CurrentSession())

	// The corrupt snapshot is gone, not retried on the next restore.
	_, present, err := storage.LoadSnapshot[*entities.UserIdentity](ctx, store, storage.KeySession)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestDirectoryService_EndSessionClearsPersistedRecord(t *testing.T) {
	store := storage.NewMemStore()
	svc := setupDirectory(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx))

	assert.Nil(t, svc.CurrentSession())
	_, present, err := storage.LoadSnapshot[*entities.UserIdentity](ctx, store, storage.KeySession)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestDirectoryService_UpdateProfileRequiresSession(t *testing.T) {
	svc := setupDirectory(t, storage.NewMemStore())

	name := "Nobody"
	_, err := svc.UpdateProfile(context.Background(), entities.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestDirectoryService_UpdateProfileMergesAndPersists(t *testing.T) {
	store := storage.NewMemStore()
	svc := setupDirectory(t, store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	name := "Alice J."
	phone := "+15550100"
	updated, err := svc.UpdateProfile(ctx, entities.ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", updated.Name)
	assert.Equal(t, "+15550100", updated.Phone)
	assert.Equal(t, user.Avatar, updated.Avatar)

	// The credential still works: the stored hash survived the merge.
	require.NoError(t, svc.EndSession(ctx))
	_, err = svc.Authenticate(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
}

func TestDirectoryService_ProfileEditDoesNotRewriteRideSnapshots(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	directory := setupDirectory(t, store)
	driver, err := directory.Register(ctx, "John Doe", "john@example.com", "hunter22")
	require.NoError(t, err)

	inventory := setupInventory(t, store)
	ride, err := inventory.CreateRide(ctx, driver, CreateRideInput{
		Origin:        entities.Waypoint{Address: "Boston, MA"},
		Destination:   entities.Waypoint{Address: "New York, NY"},
		DepartureTime: time.Date(2023, 12, 20, 14, 30, 0, 0, time.UTC),
		Seats:         2,
		Price:         35,
	})
	require.NoError(t, err)

	name := "Jonathan Doe"
	_, err = directory.UpdateProfile(ctx, entities.ProfileUpdate{Name: &name})
	require.NoError(t, err)

	// The offer keeps the display snapshot captured at creation time.
	current, err := inventory.rides.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", current.DriverName)
}
