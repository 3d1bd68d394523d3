// Package repo contains all record access for the trip packs store.
// Requests name a domain.Target; Records resolves it to a table and filter,
// validates writes, runs the SQL, and publishes a change on success.
// No workflow logic lives here; see package service for that.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/notify"
)

// db is the minimal interface satisfied by *sql.DB, *sql.Conn, and *sql.Tx.
// Accepting it instead of *sql.DB lets tests pass a sqlmock connection or a
// transaction.
type db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecordRepo is the target-addressed access to trips and stops.
// Services depend on this interface, not on *Records.
type RecordRepo interface {
	Query(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error)
	Insert(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error)
	Update(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error)
	Delete(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error)
	DeleteAll(ctx context.Context) (trips, stops int64, err error)
	Type(target domain.Target) (domain.TargetType, error)
	MaxTripNumber(ctx context.Context) (int64, error)
}

var _ RecordRepo = (*Records)(nil)

// Records runs list, insert, update, and delete requests against the trips
// and stops tables.
//
// Writes never return an error for bad data or a failing store: a rejected or
// failed insert reports ok=false, and a rejected or failed update/delete
// reports zero rows. Errors are reserved for malformed requests (an
// unsupported target or an unknown column).
type Records struct {
	db  db
	pub notify.Publisher
	log *slog.Logger
}

// Option configures Records.
type Option func(*Records)

// WithPublisher sets where change notifications go. The default drops them.
func WithPublisher(p notify.Publisher) Option {
	return func(r *Records) { r.pub = p }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Records) { r.log = l }
}

// NewRecords constructs Records backed by the provided db.
// In production pass store.Store.DB(); in tests a sqlmock db also works.
func NewRecords(db db, opts ...Option) *Records {
	r := &Records{db: db, pub: notify.Discard, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With("component", "repo")
	return r
}

// Type resolves target to its type tag.
func (r *Records) Type(target domain.Target) (domain.TargetType, error) {
	switch target.Match {
	case domain.TripCollection:
		return domain.TypeTripList, nil
	case domain.TripItem:
		return domain.TypeTripItem, nil
	case domain.StopCollection:
		return domain.TypeStopList, nil
	case domain.StopItem:
		return domain.TypeStopItem, nil
	default:
		return "", fmt.Errorf("repo.Records.Type: %w: %v (match %d)", domain.ErrUnknownTarget, target, target.Match)
	}
}

// Query returns the rows target selects. Item targets select by id and ignore
// q.Filter. When q.Sort is empty, trips come newest trip number first and
// stops in stop_index order. Every row is read before Query returns; query
// again for fresh data.
func (r *Records) Query(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error) {
	defer observe("query", time.Now())

	entity := target.Entity()
	if entity == 0 {
		return nil, fmt.Errorf("repo.Records.Query: %w: %v", domain.ErrUnsupportedTarget, target)
	}

	cols := q.Columns
	if len(cols) == 0 {
		cols = entity.Columns()
	}
	if err := checkColumns(entity, cols...); err != nil {
		return nil, fmt.Errorf("repo.Records.Query: %w", err)
	}

	where, args, err := selection(target, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("repo.Records.Query: %w", err)
	}
	order, err := orderBy(entity, q.Sort)
	if err != nil {
		return nil, fmt.Errorf("repo.Records.Query: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(entity.Table())
	sb.WriteString(where)
	sb.WriteString(order)
	if q.Page != nil {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.Page.Limit, q.Page.Offset())
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("repo.Records.Query: %w", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.Records.Query: %w", err)
	}
	return out, nil
}

// MaxTripNumber returns the largest trip_number compared as an integer, or 0
// when there are no trips.
func (r *Records) MaxTripNumber(ctx context.Context) (int64, error) {
	defer observe("max_trip_number", time.Now())

	const q = `SELECT MAX(CAST(trip_number AS INTEGER)) FROM trips`

	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, q).Scan(&max); err != nil {
		return 0, fmt.Errorf("repo.Records.MaxTripNumber: %w", err)
	}
	return max.Int64, nil
}

// scanRows reads every row into column-keyed maps. Text read back as bytes
// is converted to string.
func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []domain.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make(domain.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// checkColumns returns ErrUnknownColumn for the first name entity lacks.
func checkColumns(entity domain.Entity, cols ...string) error {
	for _, c := range cols {
		if !entity.HasColumn(c) {
			return fmt.Errorf("%w: %s.%s", domain.ErrUnknownColumn, entity.Table(), c)
		}
	}
	return nil
}

// selection builds the WHERE clause. An item target always selects by id,
// replacing whatever filter the caller passed. An empty filter on a
// collection selects every row.
func selection(target domain.Target, f domain.Filter) (string, []any, error) {
	if target.IsItem() {
		return " WHERE id = ?", []any{target.ID}, nil
	}
	if len(f) == 0 {
		return "", nil, nil
	}

	entity := target.Entity()
	keys := domain.Values(f).Keys()
	if err := checkColumns(entity, keys...); err != nil {
		return "", nil, err
	}

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		v := f[k]
		if v == nil {
			conds = append(conds, k+" IS NULL")
			continue
		}
		conds = append(conds, k+" = ?")
		args = append(args, bindValue(v))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// defaultSort is applied when a query names no sort of its own.
var defaultSort = map[domain.Entity][]domain.Sort{
	domain.EntityTrip: {{Column: domain.ColTripNumber, Desc: true, Numeric: true}},
	domain.EntityStop: {{Column: domain.ColStopIndex}, {Column: domain.ColID}},
}

func orderBy(entity domain.Entity, sorts []domain.Sort) (string, error) {
	if len(sorts) == 0 {
		sorts = defaultSort[entity]
	}
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		if err := checkColumns(entity, s.Column); err != nil {
			return "", err
		}
		expr := s.Column
		if s.Numeric {
			expr = "CAST(" + s.Column + " AS INTEGER)"
		}
		if s.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		parts = append(parts, expr)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// bindValue converts whole float64 values, which is how JSON numbers arrive,
// to int64. Bound as REAL, 3 would be stored as "3.0" in a TEXT column.
func bindValue(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
	case domain.TripState:
		return int64(x)
	}
	return v
}
