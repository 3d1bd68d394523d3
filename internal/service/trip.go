// Package service contains the workflows built on the record repository:
// trip numbering, the from/to summary, creating a trip with its stops, and
// the flat export. No SQL lives here; services depend on repo.RecordRepo.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/repo"
	"github.com/pkordes/trippacks/internal/validation"
)

// TripDraft is the input to CreateTrip. Stops are location names in travel
// order. An empty ReceivedDate means today; a zero State means assigned.
type TripDraft struct {
	Stops        []string
	ReceivedDate string
	State        domain.TripState
}

// Pack is a trip together with the stops created for it.
type Pack struct {
	Trip  domain.Trip   `json:"trip" yaml:"trip"`
	Stops []domain.Stop `json:"stops" yaml:"stops"`
}

// TripService implements the trip workflows.
type TripService struct {
	repo repo.RecordRepo
	now  func() time.Time
}

// NewTripService constructs a TripService backed by the provided RecordRepo.
func NewTripService(r repo.RecordRepo) *TripService {
	return &TripService{repo: r, now: time.Now}
}

// NextTripNumber returns one more than the largest stored trip number, or 1
// when there are no trips. Two callers may get the same number.
func (s *TripService) NextTripNumber(ctx context.Context) (int64, error) {
	max, err := s.repo.MaxTripNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.NextTripNumber: %w", err)
	}
	return max + 1, nil
}

// FromTo summarizes a trip's stops for display:
//
//	"Depot to Yard (3 stops)"  several stops
//	"Depot (1 stops)"          one stop
//	"(0 stops)"                none
func FromTo(locations []string) string {
	n := len(locations)
	count := "(" + strconv.Itoa(n) + " stops)"
	switch n {
	case 0:
		return count
	case 1:
		return locations[0] + " " + count
	default:
		return locations[0] + " to " + locations[n-1] + " " + count
	}
}

// CreateTrip numbers a new trip, inserts one stop per location, then inserts
// the trip with its from/to summary. The statements are not grouped in a
// transaction: a rejected trip leaves its stops behind.
// A rejected write returns an error wrapping domain.ErrValidation.
func (s *TripService) CreateTrip(ctx context.Context, d TripDraft) (Pack, error) {
	if d.ReceivedDate == "" {
		d.ReceivedDate = s.now().Format(validation.DateLayout)
	}
	if d.State == 0 {
		d.State = domain.StateAssigned
	}

	next, err := s.NextTripNumber(ctx)
	if err != nil {
		return Pack{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}
	number := strconv.FormatInt(next, 10)

	stops := make([]domain.Stop, 0, len(d.Stops))
	for i, loc := range d.Stops {
		stop := domain.Stop{
			TripNumber:    number,
			Location:      loc,
			StopIndex:     int64(i + 1),
			DateCompleted: d.ReceivedDate,
		}
		item, ok, err := s.repo.Insert(ctx, domain.StopsTarget(), stop.Values())
		if err != nil {
			return Pack{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
		}
		if !ok {
			return Pack{}, fmt.Errorf("service.TripService.CreateTrip: %w: stop %d %q rejected", domain.ErrValidation, i+1, loc)
		}
		stop.ID = item.ID
		stops = append(stops, stop)
	}

	trip := domain.Trip{
		TripNumber:   number,
		FromTo:       FromTo(d.Stops),
		ReceivedDate: d.ReceivedDate,
		State:        d.State,
	}
	item, ok, err := s.repo.Insert(ctx, domain.TripsTarget(), trip.Values())
	if err != nil {
		return Pack{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}
	if !ok {
		return Pack{}, fmt.Errorf("service.TripService.CreateTrip: %w: trip %s rejected", domain.ErrValidation, number)
	}
	trip.ID = item.ID

	return Pack{Trip: trip, Stops: stops}, nil
}

// List returns trips, highest trip number first. A nil page returns every trip.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, page *domain.PaginationParams) ([]domain.Trip, error) {
	rows, err := s.repo.Query(ctx, domain.TripsTarget(), domain.Query{Page: page})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	trips := make([]domain.Trip, 0, len(rows))
	for _, r := range rows {
		trips = append(trips, domain.TripFromRow(r))
	}
	return trips, nil
}

// Get returns a single trip by id.
// Returns domain.ErrNotFound if no trip has that id.
func (s *TripService) Get(ctx context.Context, id int64) (domain.Trip, error) {
	rows, err := s.repo.Query(ctx, domain.TripTarget(id), domain.Query{})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if len(rows) == 0 {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: trip %d: %w", id, domain.ErrNotFound)
	}
	return domain.TripFromRow(rows[0]), nil
}

// DeleteAll removes every trip and every stop.
func (s *TripService) DeleteAll(ctx context.Context) (trips, stops int64, err error) {
	trips, stops, err = s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("service.TripService.DeleteAll: %w", err)
	}
	return trips, stops, nil
}

// IsRejected reports whether err means a write was refused.
func IsRejected(err error) bool { return errors.Is(err, domain.ErrValidation) }
