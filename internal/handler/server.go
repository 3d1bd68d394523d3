// Package handler implements the HTTP surface of the trip packs server.
// All handlers are methods on Server. Methods are split into files by concern
// (records.go, trip.go, export.go, changes.go, health.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/notify"
	"github.com/pkordes/trippacks/internal/service"
	"github.com/pkordes/trippacks/spec"
)

// Records defines the target-addressed operations the record routes depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database.
type Records interface {
	Query(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error)
	Insert(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error)
	Update(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error)
	Delete(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error)
	DeleteAll(ctx context.Context) (trips, stops int64, err error)
	Type(target domain.Target) (domain.TargetType, error)
}

// TripServicer creates a trip together with its stops.
type TripServicer interface {
	CreateTrip(ctx context.Context, d service.TripDraft) (service.Pack, error)
}

// Exporter produces the flat export.
type Exporter interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Subscriber hands out change streams.
type Subscriber interface {
	Subscribe(buffer int) (<-chan notify.Change, func())
}

// SchemaChecker reports schema tables that failed to be created.
type SchemaChecker interface {
	MissingTables(ctx context.Context) ([]string, error)
}

// Server holds every dependency of the HTTP handlers.
// Any dependency may be nil; its routes then answer 503.
type Server struct {
	records Records
	trips   TripServicer
	export  Exporter
	changes Subscriber
	schema  SchemaChecker
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(records Records, trips TripServicer, export Exporter, changes Subscriber, schema SchemaChecker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		records: records,
		trips:   trips,
		export:  export,
		changes: changes,
		schema:  schema,
		log:     log.With("component", "handler"),
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, nil)
}

// Register mounts every route on r. Static paths are registered alongside the
// {collection} patterns; chi prefers the static match.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/changes", s.StreamChanges)
	r.Get("/export", s.GetExport)
	r.Post("/packs", s.CreatePack)
	r.Delete("/", s.DeleteAll)

	for _, p := range []string{"/{collection}", "/{collection}/{id}"} {
		r.Get(p, s.ListRecords)
		r.Post(p, s.InsertRecord)
		r.Patch(p, s.UpdateRecords)
		r.Delete(p, s.DeleteRecords)
	}
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// GetOpenAPI serves the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(spec.OpenAPI) //nolint:errcheck
}
