package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/handler"
	"github.com/pkordes/trippacks/internal/validation"
)

// ---- GET ---------------------------------------------------------------------

func TestListRecords_Collection(t *testing.T) {
	var got domain.Query
	srv := recordsServer(&mockRecords{
		query: func(_ context.Context, target domain.Target, q domain.Query) ([]domain.Row, error) {
			assert.Equal(t, domain.TripsTarget(), target)
			got = q
			return []domain.Row{{"trip_number": "2"}}, nil
		},
	})

	rec := do(t, srv, http.MethodGet, "/trips?columns=trip_number,state&sort=-trip_number,id&state=101&page=2&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[handler.ListResponse](t, rec)
	assert.Equal(t, domain.TypeTripList, body.Type)
	require.Len(t, body.Rows, 1)

	assert.Equal(t, []string{"trip_number", "state"}, got.Columns)
	assert.Equal(t, []domain.Sort{
		{Column: "trip_number", Desc: true, Numeric: true},
		{Column: "id"},
	}, got.Sort)
	assert.Equal(t, domain.Filter{"state": "101"}, got.Filter)
	require.NotNil(t, got.Page)
	assert.Equal(t, 2, got.Page.Page)
	assert.Equal(t, 10, got.Page.Limit)
}

func TestListRecords_ItemNotFound(t *testing.T) {
	srv := recordsServer(&mockRecords{
		query: func(_ context.Context, target domain.Target, _ domain.Query) ([]domain.Row, error) {
			assert.Equal(t, domain.StopTarget(9), target)
			return []domain.Row{}, nil
		},
	})

	rec := do(t, srv, http.MethodGet, "/stops/9", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestListRecords_UnsupportedPath(t *testing.T) {
	srv := recordsServer(&mockRecords{})

	for _, path := range []string{"/tags", "/trips/abc", "/trips/-1"} {
		rec := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "unsupported_target", decode[handler.ErrorResponse](t, rec).Error.Code, path)
	}
}

func TestListRecords_UnknownColumn(t *testing.T) {
	srv := recordsServer(&mockRecords{
		query: func(context.Context, domain.Target, domain.Query) ([]domain.Row, error) {
			return nil, errors.Join(errors.New("repo.Records.Query"), domain.ErrUnknownColumn)
		},
	})

	rec := do(t, srv, http.MethodGet, "/trips?columns=colour", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_column", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestListRecords_BadPage(t *testing.T) {
	srv := recordsServer(&mockRecords{})

	rec := do(t, srv, http.MethodGet, "/trips?page=first", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRecords_StoreErrorIs500(t *testing.T) {
	srv := recordsServer(&mockRecords{
		query: func(context.Context, domain.Target, domain.Query) ([]domain.Row, error) {
			return nil, errors.New("disk I/O error")
		},
	})

	rec := do(t, srv, http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk I/O error")
}

// ---- POST --------------------------------------------------------------------

func TestInsertRecord_Created(t *testing.T) {
	srv := recordsServer(&mockRecords{
		insert: func(_ context.Context, target domain.Target, v domain.Values) (domain.Target, bool, error) {
			assert.Equal(t, domain.StopsTarget(), target)
			assert.Equal(t, "Depot", v["location"])
			return domain.StopTarget(4), true, nil
		},
	})

	rec := do(t, srv, http.MethodPost, "/stops", handler.WriteRequest{Values: domain.Values{"location": "Depot"}})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/stops/4", rec.Header().Get("Location"))
	body := decode[handler.InsertResponse](t, rec)
	assert.Equal(t, domain.TypeStopItem, body.Type)
	assert.Equal(t, int64(4), body.ID)
}

func TestInsertRecord_RejectedListsFields(t *testing.T) {
	srv := recordsServer(&mockRecords{
		insert: func(ctx context.Context, _ domain.Target, _ domain.Values) (domain.Target, bool, error) {
			validation.FromContext(ctx).ShowMessage("invalid value for RECEIVED_DATE")
			return domain.Target{}, false, nil
		},
	})

	rec := do(t, srv, http.MethodPost, "/trips", handler.WriteRequest{Values: domain.Values{"received_date": "2018-13-45"}})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, []string{"invalid value for RECEIVED_DATE"}, body.Error.Messages)
}

func TestInsertRecord_ItemPathIs400(t *testing.T) {
	srv := recordsServer(&mockRecords{
		insert: func(_ context.Context, target domain.Target, _ domain.Values) (domain.Target, bool, error) {
			return domain.Target{}, false, domain.ErrUnsupportedTarget
		},
	})

	rec := do(t, srv, http.MethodPost, "/trips/1", handler.WriteRequest{Values: domain.Values{"state": 101}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_target", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestInsertRecord_MalformedBody(t *testing.T) {
	srv := recordsServer(&mockRecords{})

	rec := do(t, srv, http.MethodPost, "/trips", "not an object")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PATCH -------------------------------------------------------------------

func TestUpdateRecords_FilterFromQuery(t *testing.T) {
	srv := recordsServer(&mockRecords{
		update: func(_ context.Context, target domain.Target, v domain.Values, f domain.Filter) (int64, error) {
			assert.Equal(t, domain.StopsTarget(), target)
			assert.Equal(t, domain.Filter{"trip_number": "3"}, f)
			assert.Equal(t, float64(1), v["arrival_hub"])
			return 2, nil
		},
	})

	rec := do(t, srv, http.MethodPatch, "/stops?trip_number=3", handler.WriteRequest{Values: domain.Values{"arrival_hub": 1}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), decode[handler.CountResponse](t, rec).Count)
}

func TestUpdateRecords_Rejected(t *testing.T) {
	srv := recordsServer(&mockRecords{
		update: func(ctx context.Context, _ domain.Target, _ domain.Values, _ domain.Filter) (int64, error) {
			validation.FromContext(ctx).ShowMessage("invalid value for STATE")
			return 0, nil
		},
	})

	rec := do(t, srv, http.MethodPatch, "/trips/1", handler.WriteRequest{Values: domain.Values{"state": 7}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- DELETE ------------------------------------------------------------------

func TestDeleteRecords_Item(t *testing.T) {
	srv := recordsServer(&mockRecords{
		delete: func(_ context.Context, target domain.Target, _ domain.Filter) (int64, error) {
			assert.Equal(t, domain.TripTarget(5), target)
			return 1, nil
		},
	})

	rec := do(t, srv, http.MethodDelete, "/trips/5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[handler.CountResponse](t, rec).Count)
}

func TestDeleteAll(t *testing.T) {
	srv := recordsServer(&mockRecords{
		deleteAll: func(context.Context) (int64, int64, error) { return 2, 5, nil },
	})

	rec := do(t, srv, http.MethodDelete, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.DeleteAllResponse{Trips: 2, Stops: 5}, decode[handler.DeleteAllResponse](t, rec))
}

func TestRecords_Unavailable(t *testing.T) {
	srv := handler.NewHealthHandler()

	rec := do(t, srv, http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
