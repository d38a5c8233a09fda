// Package seed defines the bootstrap dataset used when no snapshot exists in
// the persistent store: two demo accounts and three ride offers.
package seed

import (
	"time"

	"ridetogether/internal/domain/entities"
	"ridetogether/pkg/utils"
)

// DemoPassword is the credential for the seeded demo accounts.
const DemoPassword = "password123"

// Users returns the bootstrap identities with freshly hashed credentials.
func Users(bcryptCost int) ([]*entities.UserIdentity, error) {
	hash, err := utils.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return nil, err
	}

	return []*entities.UserIdentity{
		{
			ID:           "1",
			Name:         "John Doe",
			Email:        "john@example.com",
			Avatar:       "https://randomuser.me/api/portraits/men/1.jpg",
			Phone:        "+1234567890",
			Rating:       4.5,
			PasswordHash: hash,
		},
		{
			ID:           "2",
			Name:         "Jane Smith",
			Email:        "jane@example.com",
			Avatar:       "https://randomuser.me/api/portraits/women/1.jpg",
			Phone:        "+1987654321",
			Rating:       4.8,
			PasswordHash: hash,
		},
	}, nil
}

// Rides returns the bootstrap ride offers.
func Rides() []*entities.RideOffer {
	return []*entities.RideOffer{
		{
			ID:           "1",
			DriverID:     "1",
			DriverName:   "John Doe",
			DriverAvatar: "https://randomuser.me/api/portraits/men/1.jpg",
			DriverRating: 4.5,
			Origin: entities.Waypoint{
				Address:   "San Francisco, CA",
				Latitude:  37.7749,
				Longitude: -122.4194,
			},
			Destination: entities.Waypoint{
				Address:   "Los Angeles, CA",
				Latitude:  34.0522,
				Longitude: -118.2437,
			},
			DepartureTime:  time.Date(2023, 12, 15, 8, 0, 0, 0, time.UTC),
			AvailableSeats: 3,
			Price:          45,
			Description:    "Driving to LA for the weekend. Can accommodate 3 passengers.",
			Passengers:     []string{},
			CreatedAt:      time.Date(2023, 12, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			DriverID:     "2",
			DriverName:   "Jane Smith",
			DriverAvatar: "https://randomuser.me/api/portraits/women/1.jpg",
			DriverRating: 4.8,
			Origin: entities.Waypoint{
				Address:   "Boston, MA",
				Latitude:  42.3601,
				Longitude: -71.0589,
			},
			Destination: entities.Waypoint{
				Address:   "New York, NY",
				Latitude:  40.7128,
				Longitude: -74.0060,
			},
			DepartureTime:  time.Date(2023, 12, 20, 14, 30, 0, 0, time.UTC),
			AvailableSeats: 2,
			Price:          35,
			Description:    "Comfortable ride with good music. No smoking please.",
			Passengers:     []string{},
			CreatedAt:      time.Date(2023, 12, 5, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:           "3",
			DriverID:     "1",
			DriverName:   "John Doe",
			DriverAvatar: "https://randomuser.me/api/portraits/men/1.jpg",
			DriverRating: 4.5,
			Origin: entities.Waypoint{
				Address:   "Seattle, WA",
				Latitude:  47.6062,
				Longitude: -122.3321,
			},
			Destination: entities.Waypoint{
				Address:   "Portland, OR",
				Latitude:  45.5051,
				Longitude: -122.6750,
			},
			DepartureTime:  time.Date(2023, 12, 18, 10, 0, 0, 0, time.UTC),
			AvailableSeats: 4,
			Price:          30,
			Description:    "Taking the scenic route. Will stop for coffee on the way.",
			Passengers:     []string{},
			CreatedAt:      time.Date(2023, 12, 3, 15, 45, 0, 0, time.UTC),
		},
	}
}
