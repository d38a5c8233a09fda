// Package query provides pure, side-effect-free filtering and ordering over
// ride collection snapshots. Inputs are never mutated; empty results are
// valid, not errors.
package query

import (
	"sort"
	"strings"
	"time"

	"ridetogether/internal/domain/entities"
)

// Filter describes an optional set of search criteria. Zero-valued fields are
// skipped: empty strings match everything, a zero Date disables the day
// filter, Seats <= 0 disables the capacity filter.
type Filter struct {
	Origin      string
	Destination string
	Date        time.Time
	Seats       int
}

// Apply returns the rides matching every active criterion, preserving the
// input order.
func Apply(rides []*entities.RideOffer, f Filter) []*entities.RideOffer {
	out := make([]*entities.RideOffer, 0, len(rides))
	for _, ride := range rides {
		if f.Origin != "" && !containsFold(ride.Origin.Address, f.Origin) {
			continue
		}
		if f.Destination != "" && !containsFold(ride.Destination.Address, f.Destination) {
			continue
		}
		if !f.Date.IsZero() && !sameDay(ride.DepartureTime, f.Date) {
			continue
		}
		if f.Seats > 0 && ride.AvailableSeats < f.Seats {
			continue
		}
		out = append(out, ride)
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sameDay compares calendar days in UTC, ignoring time of day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Order selects a comparator for SortBy.
type Order int

const (
	// OrderDeparture sorts by departure time ascending (the default view).
	OrderDeparture Order = iota
	// OrderPriceAsc sorts by price per seat, cheapest first.
	OrderPriceAsc
	// OrderPriceDesc sorts by price per seat, most expensive first.
	OrderPriceDesc
	// OrderSeatsDesc sorts by available seats, most seats first.
	OrderSeatsDesc
)

// SortBy returns a sorted copy of rides. The sort is stable: rides that
// compare equal keep their prior relative order.
func SortBy(rides []*entities.RideOffer, order Order) []*entities.RideOffer {
	out := make([]*entities.RideOffer, len(rides))
	copy(out, rides)

	var less func(a, b *entities.RideOffer) bool
	switch order {
	case OrderPriceAsc:
		less = func(a, b *entities.RideOffer) bool { return a.Price < b.Price }
	case OrderPriceDesc:
		less = func(a, b *entities.RideOffer) bool { return a.Price > b.Price }
	case OrderSeatsDesc:
		less = func(a, b *entities.RideOffer) bool { return a.AvailableSeats > b.AvailableSeats }
	default:
		less = func(a, b *entities.RideOffer) bool { return a.DepartureTime.Before(b.DepartureTime) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
