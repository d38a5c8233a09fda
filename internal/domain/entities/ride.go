package entities

import (
	"errors"
	"time"
)

var (
	ErrNoSeats          = errors.New("no seats available")
	ErrDuplicateBooking = errors.New("passenger already booked")
	ErrNoBooking        = errors.New("passenger not booked")
)

// Waypoint is a human-readable address with its coordinates.
type Waypoint struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RideOffer is the central domain entity: a driver-posted trip with a fixed
// number of seats. Booking moves a seat from AvailableSeats into Passengers
// and cancellation moves it back, so AvailableSeats + len(Passengers) stays
// constant for the lifetime of the offer.
//
// The driver display fields (name, avatar, rating) are a snapshot taken when
// the offer is created. They are not re-synced when the driver later edits
// their profile.
type RideOffer struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driverId"`
	DriverName     string    `json:"driverName"`
	DriverAvatar   string    `json:"driverAvatar,omitempty"`
	DriverRating   float64   `json:"driverRating,omitempty"`
	Origin         Waypoint  `json:"origin"`
	Destination    Waypoint  `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	AvailableSeats int       `json:"availableSeats"`
	Price          float64   `json:"price"`
	Description    string    `json:"description,omitempty"`
	Passengers     []string  `json:"passengers"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewRideOffer creates an offer and captures the driver's display snapshot.
func NewRideOffer(id string, driver *UserIdentity, origin, destination Waypoint, departure time.Time, seats int, price float64, description string) *RideOffer {
	return &RideOffer{
		ID:             id,
		DriverID:       driver.ID,
		DriverName:     driver.Name,
		DriverAvatar:   driver.Avatar,
		DriverRating:   driver.Rating,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departure,
		AvailableSeats: seats,
		Price:          price,
		Description:    description,
		Passengers:     []string{},
		CreatedAt:      time.Now().UTC(),
	}
}

// HasPassenger reports whether userID holds a booking on this ride.
func (r *RideOffer) HasPassenger(userID string) bool {
	for _, p := range r.Passengers {
		if p == userID {
			return true
		}
	}
	return false
}

// SeatCapacity is the invariant total: free seats plus consumed seats.
func (r *RideOffer) SeatCapacity() int {
	return r.AvailableSeats + len(r.Passengers)
}

// Book consumes one seat for userID. The ride is left unchanged on error.
func (r *RideOffer) Book(userID string) error {
	if r.HasPassenger(userID) {
		return ErrDuplicateBooking
	}
	if r.AvailableSeats <= 0 {
		return ErrNoSeats
	}
	r.AvailableSeats--
	r.Passengers = append(r.Passengers, userID)
	return nil
}

// CancelBooking releases userID's seat. Remaining passengers keep their
// relative order. The ride is left unchanged on error.
func (r *RideOffer) CancelBooking(userID string) error {
	for i, p := range r.Passengers {
		if p == userID {
			r.Passengers = append(r.Passengers[:i:i], r.Passengers[i+1:]...)
			r.AvailableSeats++
			return nil
		}
	}
	return ErrNoBooking
}

// InvolvesUser reports whether userID is the driver or a passenger.
func (r *RideOffer) InvolvesUser(userID string) bool {
	return r.DriverID == userID || r.HasPassenger(userID)
}

// Clone returns an independent copy, including the passenger list.
func (r *RideOffer) Clone() *RideOffer {
	c := *r
	c.Passengers = append([]string{}, r.Passengers...)
	return &c
}
