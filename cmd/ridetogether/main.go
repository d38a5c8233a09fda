package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"ridetogether/internal/config"
	"ridetogether/internal/domain/entities"
	"ridetogether/internal/geo"
	"ridetogether/internal/query"
	"ridetogether/internal/repository/memory"
	"ridetogether/internal/seed"
	"ridetogether/internal/services"
	"ridetogether/internal/storage"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.Env)

	ctx := context.Background()
	store := newStore(cfg, log)

	// Bootstrap data is only used when the store holds no snapshot yet.
	seedUsers, err := seed.Users(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("build seed identities")
	}

	identityRepo, err := memory.NewIdentityRepository(ctx, store, seedUsers, cfg.Store.OpTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load identity directory")
	}
	rideRepo, err := memory.NewRideRepository(ctx, store, seed.Rides(), cfg.Store.OpTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load ride inventory")
	}

	lockManager := memory.NewLockManager()
	defer lockManager.Stop()

	notifier := services.NewLogNotifier(log)
	directory, err := services.NewDirectoryService(ctx, cfg, identityRepo, store, notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init directory service")
	}
	inventory := services.NewInventoryService(cfg, rideRepo, lockManager, notifier, log)

	runShowcase(ctx, log, directory, inventory)
}

// runShowcase walks one scripted session through the core, standing in for
// the presentation layer: sign in, search, book, inspect, cancel, sign out.
func runShowcase(ctx context.Context, log zerolog.Logger, directory *services.DirectoryService, inventory *services.InventoryService) {
	if session := directory.CurrentSession(); session != nil {
		log.Info().Str("user", session.Name).Msg("restored session")
	}

	user, err := directory.Authenticate(ctx, "jane@example.com", seed.DemoPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("sign in")
	}

	// Search: rides out of Boston with at least one free seat, cheapest first.
	results := inventory.SearchRides(ctx, query.Filter{
		Origin: "boston",
		Seats:  1,
	}, query.OrderPriceAsc)
	log.Info().Int("count", len(results)).Msg("search results")

	for _, ride := range results {
		route := geo.Route(ride.Origin, ride.Destination, 8)
		log.Info().
			Str("ride_id", ride.ID).
			Str("from", ride.Origin.Address).
			Str("to", ride.Destination.Address).
			Float64("price", ride.Price).
			Float64("distance_km", route.DistanceKm).
			Float64("duration_mins", route.DurationMins).
			Msg("ride")
	}

	// Offer a new ride as the signed-in user.
	created, err := inventory.CreateRide(ctx, user, services.CreateRideInput{
		Origin:        entities.Waypoint{Address: "New York, NY", Latitude: 40.7128, Longitude: -74.0060},
		Destination:   entities.Waypoint{Address: "Boston, MA", Latitude: 42.3601, Longitude: -71.0589},
		DepartureTime: time.Now().Add(48 * time.Hour),
		Seats:         3,
		Price:         40,
		Description:   "Return trip, leaving from Midtown.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create ride")
	}

	// Book a seat on the first seeded ride, then cancel it again.
	booked, err := inventory.BookRide(ctx, "1", user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("book ride")
	}
	log.Info().Int("available_seats", booked.AvailableSeats).Msg("after booking")

	if _, err := inventory.CancelBooking(ctx, "1", user.ID); err != nil {
		log.Fatal().Err(err).Msg("cancel booking")
	}

	offered := inventory.OfferedBy(ctx, user.ID)
	bookedRides := inventory.BookedBy(ctx, user.ID)
	log.Info().
		Int("offered", len(offered)).
		Int("booked", len(bookedRides)).
		Str("latest_offer", created.ID).
		Msg("my rides")

	if err := directory.EndSession(ctx); err != nil {
		log.Fatal().Err(err).Msg("sign out")
	}
}

// newStore selects the snapshot backend. An unreachable redis degrades to the
// file store so the demo still starts.
func newStore(cfg *config.Config, log zerolog.Logger) storage.Store {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return storage.NewMemStore()
	case config.BackendRedis:
		rs, err := storage.NewRedisStore(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err == nil {
			return rs
		}
		log.Warn().Err(err).Str("addr", cfg.Store.RedisAddr).Msg("redis unreachable, falling back to file store")
		fallthrough
	default:
		fs, err := storage.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Store.DataDir).Msg("open file store")
		}
		return fs
	}
}

func newLogger(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Str("service", "ridetogether").Logger()
	}
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "ridetogether").
		Logger()
}
