package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"ridetogether/internal/config"
	"ridetogether/internal/domain/entities"
	"ridetogether/internal/repository/memory"
	"ridetogether/internal/storage"
	"ridetogether/pkg/utils"
)

// DirectoryService is the identity directory: registration, credential
// checks, and the current session. The session is persisted under its own
// store key so it survives restarts; identities returned from here never
// carry the credential hash.
type DirectoryService struct {
	cfg      *config.Config
	repo     *memory.IdentityRepository
	store    storage.Store
	notifier Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	session *entities.UserIdentity
}

// NewDirectoryService restores the persisted session, if any. A corrupt
// session snapshot is cleared and treated as "not signed in".
func NewDirectoryService(ctx context.Context, cfg *config.Config, repo *memory.IdentityRepository, store storage.Store, notifier Notifier, log zerolog.Logger) (*DirectoryService, error) {
	s := &DirectoryService{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "directory").Logger(),
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Store.OpTimeout)
	defer cancel()

	session, present, err := storage.LoadSnapshot[*entities.UserIdentity](loadCtx, store, storage.KeySession)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		s.log.Warn().Err(err).Msg("clearing corrupt session snapshot")
		if err := store.Delete(loadCtx, storage.KeySession); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case present && session != nil:
		s.session = session.Sanitized()
	}
	return s, nil
}

// Register creates a new identity, persists the directory, and signs the new
// identity in. The email must not already be registered (case-sensitive).
func (s *DirectoryService) Register(ctx context.Context, name, email, password string) (*entities.UserIdentity, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	identity := entities.NewUserIdentity(utils.GenerateID(), name, email, hash)
	identity.Avatar = placeholderAvatar(email)

	if err := s.repo.Create(ctx, identity); err != nil {
		if errors.Is(err, memory.ErrEmailTaken) {
			s.notifier.Error("Email already in use")
			return nil, ErrEmailRegistered
		}
		s.notifier.Error("Failed to create account")
		return nil, err
	}

	sanitized := identity.Sanitized()
	if err := s.setSession(ctx, sanitized); err != nil {
		// Unwind the registration so a failed operation leaves the
		// directory unchanged.
		if derr := s.repo.Delete(ctx, identity.ID); derr != nil {
			s.log.Warn().Err(derr).Str("user_id", identity.ID).Msg("roll back registration")
		}
		s.notifier.Error("Failed to create account")
		return nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Msg("identity registered")
	s.notifier.Success("Account created successfully!")
	return sanitized, nil
}

// Authenticate checks credentials and establishes the session on success.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *DirectoryService) Authenticate(ctx context.Context, email, password string) (*entities.UserIdentity, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	identity, err := s.repo.GetByEmail(ctx, email)
	if err != nil || !utils.VerifyPassword(identity.PasswordHash, password) {
		s.notifier.Error("Invalid email or password")
		return nil, ErrInvalidCredentials
	}

	sanitized := identity.Sanitized()
	if err := s.setSession(ctx, sanitized); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Msg("signed in")
	s.notifier.Success("Successfully signed in!")
	return sanitized, nil
}

// CurrentSession returns the signed-in identity, or nil when nobody is.
func (s *DirectoryService) CurrentSession() *entities.UserIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	return s.session.Clone()
}

// EndSession clears the session and its persisted record.
func (s *DirectoryService) EndSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delCtx, cancel := context.WithTimeout(ctx, s.cfg.Store.OpTimeout)
	defer cancel()
	if err := s.store.Delete(delCtx, storage.KeySession); err != nil {
		return err
	}
	s.session = nil
	s.notifier.Success("Signed out successfully")
	return nil
}

// UpdateProfile merges the given fields into the signed-in identity and
// persists the directory. Ride offers created earlier keep their driver
// display snapshot; profile edits do not rewrite them.
func (s *DirectoryService) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.UserIdentity, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	current := s.CurrentSession()
	if current == nil {
		s.notifier.Error("Failed to update profile")
		return nil, ErrNoActiveSession
	}

	identity, err := s.repo.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	identity.Apply(update)

	if err := s.repo.Update(ctx, identity); err != nil {
		s.notifier.Error("Failed to update profile")
		return nil, err
	}

	sanitized := identity.Sanitized()
	if err := s.setSession(ctx, sanitized); err != nil {
		return nil, err
	}

	s.notifier.Success("Profile updated successfully!")
	return sanitized, nil
}

// setSession persists the sanitized session snapshot, then installs it.
func (s *DirectoryService) setSession(ctx context.Context, identity *entities.UserIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(ctx, s.cfg.Store.OpTimeout)
	defer cancel()
	if err := storage.SaveSnapshot(saveCtx, s.store, storage.KeySession, identity); err != nil {
		return err
	}
	s.session = identity.Clone()
	return nil
}

// placeholderAvatar derives a stable stock portrait URL from the email, the
// demo stand-in for user-uploaded avatars.
func placeholderAvatar(email string) string {
	sum := 0
	for _, c := range email {
		sum += int(c)
	}
	collection := "men"
	if sum%2 == 1 {
		collection = "women"
	}
	return fmt.Sprintf("https://randomuser.me/api/portraits/%s/%d.jpg", collection, sum%100)
}
