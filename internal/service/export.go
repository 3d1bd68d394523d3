package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/repo"
)

// ExportService assembles a flat export of every trip and its stops.
type ExportService struct {
	repo repo.RecordRepo
}

// NewExportService constructs an ExportService backed by the provided RecordRepo.
func NewExportService(r repo.RecordRepo) *ExportService {
	return &ExportService{repo: r}
}

var (
	exportTripOrder = []domain.Sort{{Column: domain.ColTripNumber, Numeric: true}, {Column: domain.ColID}}
	exportStopOrder = []domain.Sort{{Column: domain.ColStopIndex}, {Column: domain.ColID}}
)

// Export returns one ExportRow per stop, trips in ascending trip number order.
// Trips with no stops contribute one row with empty stop fields. Stops whose
// trip number matches no trip are left out.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	tripRows, err := s.repo.Query(ctx, domain.TripsTarget(), domain.Query{Sort: exportTripOrder})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: trips: %w", err)
	}
	stopRows, err := s.repo.Query(ctx, domain.StopsTarget(), domain.Query{Sort: exportStopOrder})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: stops: %w", err)
	}

	byTrip := make(map[string][]domain.Stop)
	for _, r := range stopRows {
		st := domain.StopFromRow(r)
		byTrip[st.TripNumber] = append(byTrip[st.TripNumber], st)
	}

	out := make([]domain.ExportRow, 0, len(stopRows)+len(tripRows))
	for _, r := range tripRows {
		trip := domain.TripFromRow(r)
		base := domain.ExportRow{
			TripID:       trip.ID,
			TripNumber:   trip.TripNumber,
			FromTo:       trip.FromTo,
			State:        trip.State.String(),
			ReceivedDate: trip.ReceivedDate,
			HubStart:     trip.HubStart,
			HubEnd:       trip.HubEnd,
		}
		if trip.SubmittedDate != nil {
			base.SubmittedDate = *trip.SubmittedDate
		}

		stops := byTrip[trip.TripNumber]
		if len(stops) == 0 {
			out = append(out, base)
			continue
		}
		for _, st := range stops {
			row := base
			row.StopIndex = st.StopIndex
			row.Location = st.Location
			row.ArrivalHub = st.ArrivalHub
			row.DateCompleted = st.DateCompleted
			out = append(out, row)
		}
	}
	return out, nil
}
