package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/service"
)

// exportRepo serves fixed trip and stop rows.
func exportRepo(trips, stops []domain.Row) *mockRepo {
	return &mockRepo{
		query: func(_ context.Context, target domain.Target, _ domain.Query) ([]domain.Row, error) {
			if target.Entity() == domain.EntityTrip {
				return trips, nil
			}
			return stops, nil
		},
	}
}

func tripRow(id int64, number string) domain.Row {
	return domain.Row{
		"id": id, "trip_number": number, "from_to": "A to B (2 stops)",
		"received_date": "2018-01-01", "submitted_date": nil,
		"state": int64(100), "hub_start": int64(0), "hub_end": int64(0),
	}
}

func stopRow(id int64, number, location string, index int64) domain.Row {
	return domain.Row{
		"id": id, "trip_number": number, "location": location,
		"stop_index": index, "arrival_hub": int64(0), "date_completed": "2018-01-01",
	}
}

func TestExportService_Export_OneRowPerStop(t *testing.T) {
	svc := service.NewExportService(exportRepo(
		[]domain.Row{tripRow(1, "1")},
		[]domain.Row{stopRow(1, "1", "A", 1), stopRow(2, "1", "B", 2)},
	))

	rows, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0].TripNumber)
	assert.Equal(t, "assigned", rows[0].State)
	assert.Equal(t, "A", rows[0].Location)
	assert.Equal(t, int64(2), rows[1].StopIndex)
	assert.Equal(t, rows[0].FromTo, rows[1].FromTo, "trip fields repeat")
}

func TestExportService_Export_TripWithoutStops(t *testing.T) {
	svc := service.NewExportService(exportRepo([]domain.Row{tripRow(1, "1")}, nil))

	rows, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Location)
	assert.Zero(t, rows[0].StopIndex)
}

func TestExportService_Export_OrphanStopsSkipped(t *testing.T) {
	svc := service.NewExportService(exportRepo(
		[]domain.Row{tripRow(1, "1")},
		[]domain.Row{stopRow(1, "1", "A", 1), stopRow(2, "99", "Nowhere", 1)},
	))

	rows, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Location)
}

func TestExportService_Export_Empty(t *testing.T) {
	svc := service.NewExportService(exportRepo(nil, nil))

	rows, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_QueryError(t *testing.T) {
	svc := service.NewExportService(&mockRepo{
		query: func(context.Context, domain.Target, domain.Query) ([]domain.Row, error) {
			return nil, errors.New("disk I/O error")
		},
	})
	_, err := svc.Export(context.Background())
	assert.ErrorContains(t, err, "disk I/O error")
}
