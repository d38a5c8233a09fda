package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ridetogether/internal/config"
	"ridetogether/internal/domain/entities"
	"ridetogether/internal/query"
	"ridetogether/internal/repository/memory"
	"ridetogether/pkg/utils"
)

const (
	// rideLockTTLMargin is added to the store op timeout to size the ride
	// lock TTL. The lock must outlive the slowest possible persist, or a
	// write stalling to its timeout would let the lock lapse mid-operation
	// and reopen the double-book window.
	rideLockTTLMargin = 2 * time.Second
	// rideLockWait is the total time a caller spends retrying acquisition
	// before giving up with ErrRideBusy.
	rideLockWait      = 2 * time.Second
	rideLockRetryStep = 10 * time.Millisecond
)

// InventoryService owns the ride offer collection: creating offers, booking
// and cancelling seats, and the per-user ride views. Book and cancel are
// serialized per ride through the lock manager so concurrent callers cannot
// interleave the read-modify-write cycle.
type InventoryService struct {
	cfg      *config.Config
	rides    *memory.RideRepository
	locks    *memory.LockManager
	lockTTL  time.Duration
	notifier Notifier
	log      zerolog.Logger
}

func NewInventoryService(cfg *config.Config, rides *memory.RideRepository, locks *memory.LockManager, notifier Notifier, log zerolog.Logger) *InventoryService {
	return &InventoryService{
		cfg:      cfg,
		rides:    rides,
		locks:    locks,
		lockTTL:  cfg.Store.OpTimeout + rideLockTTLMargin,
		notifier: notifier,
		log:      log.With().Str("component", "inventory").Logger(),
	}
}

// CreateRideInput carries the caller-supplied fields of a new offer. Field
// completeness is the presentation layer's responsibility; the service only
// rejects values that would break the seat and price invariants.
type CreateRideInput struct {
	Origin        entities.Waypoint
	Destination   entities.Waypoint
	DepartureTime time.Time
	Seats         int
	Price         float64
	Description   string
}

// CreateRide posts a new offer for the given driver. The driver's display
// snapshot is captured now and never re-synced with later profile edits.
func (s *InventoryService) CreateRide(ctx context.Context, driver *entities.UserIdentity, input CreateRideInput) (*entities.RideOffer, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	if driver == nil || input.Seats < 0 || input.Price < 0 {
		s.notifier.Error("Failed to create ride")
		return nil, ErrInvalidRide
	}

	ride := entities.NewRideOffer(
		utils.GenerateID(),
		driver,
		input.Origin,
		input.Destination,
		input.DepartureTime,
		input.Seats,
		input.Price,
		input.Description,
	)

	if err := s.rides.Create(ctx, ride); err != nil {
		s.notifier.Error("Failed to create ride")
		return nil, err
	}

	s.log.Info().Str("ride_id", ride.ID).Str("driver_id", driver.ID).Msg("ride created")
	s.notifier.Success("Ride created successfully!")
	return ride, nil
}

// BookRide claims one seat on the ride for userID. Distinguishable failures:
// ErrRideNotFound, ErrSeatUnavailable (ride full), ErrAlreadyBooked.
func (s *InventoryService) BookRide(ctx context.Context, rideID, userID string) (*entities.RideOffer, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	release, err := s.lockRide(ctx, rideID)
	if err != nil {
		s.notifier.Error("Failed to book ride")
		return nil, err
	}
	defer release()

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		s.notifier.Error("Failed to book ride")
		return nil, ErrRideNotFound
	}

	if err := ride.Book(userID); err != nil {
		s.notifier.Error("Failed to book ride")
		switch {
		case errors.Is(err, entities.ErrDuplicateBooking):
			return nil, ErrAlreadyBooked
		case errors.Is(err, entities.ErrNoSeats):
			return nil, ErrSeatUnavailable
		default:
			return nil, err
		}
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		s.notifier.Error("Failed to book ride")
		return nil, err
	}

	s.log.Info().Str("ride_id", rideID).Str("user_id", userID).Msg("seat booked")
	s.notifier.Success("Ride booked successfully!")
	return ride, nil
}

// CancelBooking releases userID's seat on the ride. Distinguishable failures:
// ErrRideNotFound, ErrNotBooked.
func (s *InventoryService) CancelBooking(ctx context.Context, rideID, userID string) (*entities.RideOffer, error) {
	if err := simulateCall(ctx, s.cfg.Client.CallLatency); err != nil {
		return nil, err
	}

	release, err := s.lockRide(ctx, rideID)
	if err != nil {
		s.notifier.Error("Failed to cancel booking")
		return nil, err
	}
	defer release()

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		s.notifier.Error("Failed to cancel booking")
		return nil, ErrRideNotFound
	}

	if err := ride.CancelBooking(userID); err != nil {
		s.notifier.Error("Failed to cancel booking")
		if errors.Is(err, entities.ErrNoBooking) {
			return nil, ErrNotBooked
		}
		return nil, err
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		s.notifier.Error("Failed to cancel booking")
		return nil, err
	}

	s.log.Info().Str("ride_id", rideID).Str("user_id", userID).Msg("booking cancelled")
	s.notifier.Success("Booking cancelled successfully!")
	return ride, nil
}

// Rides returns a snapshot of all offers in creation order. Pure read.
func (s *InventoryService) Rides(ctx context.Context) []*entities.RideOffer {
	return s.rides.List(ctx)
}

// SearchRides filters and orders the current offers. An empty result raises
// an informational toast so the caller's UI can surface it.
func (s *InventoryService) SearchRides(ctx context.Context, f query.Filter, order query.Order) []*entities.RideOffer {
	matches := query.SortBy(query.Apply(s.rides.List(ctx), f), order)
	if len(matches) == 0 {
		s.notifier.Info("No rides found matching your criteria")
	}
	return matches
}

// RidesForUser returns the offers where the user is the driver or a
// passenger, in creation order. Pure read, no persistence.
func (s *InventoryService) RidesForUser(ctx context.Context, userID string) []*entities.RideOffer {
	return s.rides.ForUser(ctx, userID)
}

// OfferedBy returns the offers the user drives.
func (s *InventoryService) OfferedBy(ctx context.Context, userID string) []*entities.RideOffer {
	var out []*entities.RideOffer
	for _, ride := range s.rides.ForUser(ctx, userID) {
		if ride.DriverID == userID {
			out = append(out, ride)
		}
	}
	return out
}

// BookedBy returns the offers the user holds a seat on, excluding rides they
// drive themselves.
func (s *InventoryService) BookedBy(ctx context.Context, userID string) []*entities.RideOffer {
	var out []*entities.RideOffer
	for _, ride := range s.rides.ForUser(ctx, userID) {
		if ride.DriverID != userID && ride.HasPassenger(userID) {
			out = append(out, ride)
		}
	}
	return out
}

// lockRide acquires the per-ride mutation lock, retrying briefly before
// reporting the ride busy. The returned func releases the lock.
func (s *InventoryService) lockRide(ctx context.Context, rideID string) (func(), error) {
	key := "ride:" + rideID
	deadline := time.Now().Add(rideLockWait)

	for {
		ok, err := s.locks.AcquireLock(ctx, key, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				if err := s.locks.ReleaseLock(context.Background(), key); err != nil {
					s.log.Warn().Err(err).Str("ride_id", rideID).Msg("release ride lock")
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrRideBusy
		}

		select {
		case <-time.After(rideLockRetryStep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
