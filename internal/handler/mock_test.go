package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/handler"
	"github.com/pkordes/trippacks/internal/service"
)

// mockRecords is a test double for handler.Records.
// Set only the method fields your test needs.
type mockRecords struct {
	query     func(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error)
	insert    func(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error)
	update    func(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error)
	delete    func(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error)
	deleteAll func(ctx context.Context) (int64, int64, error)
}

func (m *mockRecords) Query(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error) {
	return m.query(ctx, target, q)
}
func (m *mockRecords) Insert(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error) {
	return m.insert(ctx, target, values)
}
func (m *mockRecords) Update(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error) {
	return m.update(ctx, target, values, filter)
}
func (m *mockRecords) Delete(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error) {
	return m.delete(ctx, target, filter)
}
func (m *mockRecords) DeleteAll(ctx context.Context) (int64, int64, error) {
	return m.deleteAll(ctx)
}

// Type uses the real tag table; there is nothing worth faking.
func (m *mockRecords) Type(target domain.Target) (domain.TargetType, error) {
	switch target.Match {
	case domain.TripCollection:
		return domain.TypeTripList, nil
	case domain.TripItem:
		return domain.TypeTripItem, nil
	case domain.StopCollection:
		return domain.TypeStopList, nil
	case domain.StopItem:
		return domain.TypeStopItem, nil
	}
	return "", domain.ErrUnknownTarget
}

// mockTripServicer is a test double for handler.TripServicer.
type mockTripServicer struct {
	createTrip func(ctx context.Context, d service.TripDraft) (service.Pack, error)
}

func (m *mockTripServicer) CreateTrip(ctx context.Context, d service.TripDraft) (service.Pack, error) {
	return m.createTrip(ctx, d)
}

// mockExporter is a test double for handler.Exporter.
type mockExporter struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExporter) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// mockSchema is a test double for handler.SchemaChecker.
type mockSchema struct {
	missing []string
	err     error
}

func (m *mockSchema) MissingTables(context.Context) ([]string, error) { return m.missing, m.err }

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.Records       = (*mockRecords)(nil)
	_ handler.TripServicer  = (*mockTripServicer)(nil)
	_ handler.Exporter      = (*mockExporter)(nil)
	_ handler.SchemaChecker = (*mockSchema)(nil)
)

// ---- helpers ---------------------------------------------------------------

// do sends a request through a router built from srv, the same way serve wires it.
func do(t *testing.T, srv *handler.Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func recordsServer(m *mockRecords) *handler.Server {
	return handler.NewServer(m, nil, nil, nil, nil, nil)
}
