package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridetogether/internal/domain/entities"
)

func fixtureRides() []*entities.RideOffer {
	return []*entities.RideOffer{
		{
			ID:             "1",
			Origin:         entities.Waypoint{Address: "San Francisco, CA"},
			Destination:    entities.Waypoint{Address: "Los Angeles, CA"},
			DepartureTime:  time.Date(2023, 12, 15, 8, 0, 0, 0, time.UTC),
			AvailableSeats: 3,
			Price:          45,
		},
		{
			ID:             "2",
			Origin:         entities.Waypoint{Address: "Boston, MA"},
			Destination:    entities.Waypoint{Address: "New York, NY"},
			DepartureTime:  time.Date(2023, 12, 20, 14, 30, 0, 0, time.UTC),
			AvailableSeats: 2,
			Price:          35,
		},
		{
			ID:             "3",
			Origin:         entities.Waypoint{Address: "Seattle, WA"},
			Destination:    entities.Waypoint{Address: "Portland, OR"},
			DepartureTime:  time.Date(2023, 12, 18, 10, 0, 0, 0, time.UTC),
			AvailableSeats: 4,
			Price:          30,
		},
	}
}

func ids(rides []*entities.RideOffer) []string {
	out := make([]string, 0, len(rides))
	for _, r := range rides {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_EmptyFilterKeepsEverything(t *testing.T) {
	rides := fixtureRides()
	got := Apply(rides, Filter{})
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestApply_OriginSubstringCaseInsensitive(t *testing.T) {
	got := Apply(fixtureRides(), Filter{Origin: "boston"})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApply_DestinationSubstring(t *testing.T) {
	got := Apply(fixtureRides(), Filter{Destination: "portland"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_OriginAndDateMatch(t *testing.T) {
	// Origin contains "Boston" and the departure day is 2023-12-20: exactly
	// ride 2, order preserved relative to input.
	got := Apply(fixtureRides(), Filter{
		Origin: "Boston",
		Date:   time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApply_DateIgnoresTimeOfDay(t *testing.T) {
	got := Apply(fixtureRides(), Filter{Date: time.Date(2023, 12, 18, 23, 59, 0, 0, time.UTC)})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_SeatThreshold(t *testing.T) {
	got := Apply(fixtureRides(), Filter{Seats: 3})
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApply_NoMatchIsEmptyNotError(t *testing.T) {
	got := Apply(fixtureRides(), Filter{Origin: "Chicago"})
	assert.Empty(t, got)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	rides := fixtureRides()
	_ = Apply(rides, Filter{Origin: "Boston"})
	assert.Equal(t, []string{"1", "2", "3"}, ids(rides))
}

func TestSortBy_PriceAscending(t *testing.T) {
	// Prices [45, 35, 30] must come out [30, 35, 45].
	got := SortBy(fixtureRides(), OrderPriceAsc)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"3", "2", "1"}, ids(got))
}

func TestSortBy_PriceDescending(t *testing.T) {
	got := SortBy(fixtureRides(), OrderPriceDesc)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestSortBy_DepartureDefault(t *testing.T) {
	got := SortBy(fixtureRides(), OrderDeparture)
	assert.Equal(t, []string{"1", "3", "2"}, ids(got))
}

func TestSortBy_SeatsDescending(t *testing.T) {
	got := SortBy(fixtureRides(), OrderSeatsDesc)
	assert.Equal(t, []string{"3", "1", "2"}, ids(got))
}

func TestSortBy_TiesKeepPriorOrder(t *testing.T) {
	rides := []*entities.RideOffer{
		{ID: "a", Price: 20},
		{ID: "b", Price: 10},
		{ID: "c", Price: 20},
		{ID: "d", Price: 10},
	}
	got := SortBy(rides, OrderPriceAsc)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	rides := fixtureRides()
	_ = SortBy(rides, OrderPriceAsc)
	assert.Equal(t, []string{"1", "2", "3"}, ids(rides))
}
