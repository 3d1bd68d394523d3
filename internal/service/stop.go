package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/repo"
)

// StopService lists stops. Stops are written through CreateTrip or directly
// through the repository.
type StopService struct {
	repo repo.RecordRepo
}

// NewStopService constructs a StopService backed by the provided RecordRepo.
func NewStopService(r repo.RecordRepo) *StopService {
	return &StopService{repo: r}
}

// List returns stops in stop_index order. A non-empty tripNumber keeps only
// that trip's stops.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) List(ctx context.Context, tripNumber string) ([]domain.Stop, error) {
	q := domain.Query{}
	if tripNumber != "" {
		q.Filter = domain.Filter{domain.ColTripNumber: tripNumber}
	}
	rows, err := s.repo.Query(ctx, domain.StopsTarget(), q)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.List: %w", err)
	}
	stops := make([]domain.Stop, 0, len(rows))
	for _, r := range rows {
		stops = append(stops, domain.StopFromRow(r))
	}
	return stops, nil
}

// Get returns a single stop by id.
// Returns domain.ErrNotFound if no stop has that id.
func (s *StopService) Get(ctx context.Context, id int64) (domain.Stop, error) {
	rows, err := s.repo.Query(ctx, domain.StopTarget(id), domain.Query{})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Get: %w", err)
	}
	if len(rows) == 0 {
		return domain.Stop{}, fmt.Errorf("service.StopService.Get: stop %d: %w", id, domain.ErrNotFound)
	}
	return domain.StopFromRow(rows[0]), nil
}
