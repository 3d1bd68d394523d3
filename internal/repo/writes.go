package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/trippacks/internal/domain"
)

// Insert adds one row to the collection target addresses and returns the
// item target of the new row.
//
// Empty values, a column the table lacks, an id column, or a failed check
// return ok=false without touching the store. A store error is logged and
// also returns ok=false. Only an item or unresolved target is an error.
func (r *Records) Insert(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error) {
	defer observe("insert", time.Now())

	entity := target.Entity()
	if entity == 0 || target.IsItem() {
		return domain.Target{}, false, fmt.Errorf("repo.Records.Insert: %w: insert into %v", domain.ErrUnsupportedTarget, target)
	}
	table := entity.Table()

	if !r.acceptable(ctx, "insert", target, values) {
		countWrite("insert", table, resultRejected)
		return domain.Target{}, false, nil
	}

	keys := values.Keys()
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		marks[i] = "?"
		args[i] = bindValue(values[k])
	}
	q := "INSERT INTO " + table + " (" + strings.Join(keys, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.ErrorContext(ctx, "insert failed", "table", table, "target", target.Path(), "error", err)
		countWrite("insert", table, resultFailed)
		return domain.Target{}, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		r.log.ErrorContext(ctx, "insert id unavailable", "table", table, "target", target.Path(), "error", err)
		countWrite("insert", table, resultFailed)
		return domain.Target{}, false, nil
	}

	countWrite("insert", table, resultOK)
	r.pub.Publish(target.Path())
	return target.WithID(id), true, nil
}

// Update sets values on the rows target selects: the single row for an item
// target, otherwise the rows matching filter (every row when filter is empty).
// It returns the number of rows changed. Rejected values and store errors
// return 0 and no error; an unknown filter column is an error.
func (r *Records) Update(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error) {
	defer observe("update", time.Now())

	entity := target.Entity()
	if entity == 0 {
		return 0, fmt.Errorf("repo.Records.Update: %w: %v", domain.ErrUnsupportedTarget, target)
	}
	table := entity.Table()

	where, whereArgs, err := selection(target, filter)
	if err != nil {
		return 0, fmt.Errorf("repo.Records.Update: %w", err)
	}
	if !r.acceptable(ctx, "update", target, values) {
		countWrite("update", table, resultRejected)
		return 0, nil
	}

	keys := values.Keys()
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+len(whereArgs))
	for i, k := range keys {
		sets[i] = k + " = ?"
		args = append(args, bindValue(values[k]))
	}
	args = append(args, whereArgs...)
	q := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where

	return r.exec(ctx, "update", target, q, args...), nil
}

// Delete removes the rows target selects: the single row for an item target,
// otherwise the rows matching filter (every row when filter is empty).
// A store error is logged and returns 0.
func (r *Records) Delete(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error) {
	defer observe("delete", time.Now())

	entity := target.Entity()
	if entity == 0 {
		return 0, fmt.Errorf("repo.Records.Delete: %w: %v", domain.ErrUnsupportedTarget, target)
	}

	where, args, err := selection(target, filter)
	if err != nil {
		return 0, fmt.Errorf("repo.Records.Delete: %w", err)
	}
	q := "DELETE FROM " + entity.Table() + where

	return r.exec(ctx, "delete", target, q, args...), nil
}

// DeleteAll empties both tables and returns how many rows each lost.
func (r *Records) DeleteAll(ctx context.Context) (trips, stops int64, err error) {
	trips, err = r.Delete(ctx, domain.TripsTarget(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("repo.Records.DeleteAll: %w", err)
	}
	stops, err = r.Delete(ctx, domain.StopsTarget(), nil)
	if err != nil {
		return trips, 0, fmt.Errorf("repo.Records.DeleteAll: %w", err)
	}
	return trips, stops, nil
}

// exec runs an update or delete and publishes target when rows changed.
func (r *Records) exec(ctx context.Context, op string, target domain.Target, q string, args ...any) int64 {
	table := target.Entity().Table()

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.ErrorContext(ctx, op+" failed", "table", table, "target", target.Path(), "error", err)
		countWrite(op, table, resultFailed)
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		r.log.ErrorContext(ctx, op+" rows affected unavailable", "table", table, "target", target.Path(), "error", err)
		countWrite(op, table, resultFailed)
		return 0
	}
	if n == 0 {
		countWrite(op, table, resultNoop)
		return 0
	}

	countWrite(op, table, resultOK)
	r.pub.Publish(target.Path())
	return n
}

// acceptable reports whether values may be written to target's table.
func (r *Records) acceptable(ctx context.Context, op string, target domain.Target, values domain.Values) bool {
	if len(values) == 0 {
		r.log.DebugContext(ctx, op+" rejected: no values", "target", target.Path())
		return false
	}
	entity := target.Entity()
	for k := range values {
		if k == domain.ColID || !entity.HasColumn(k) {
			r.log.DebugContext(ctx, op+" rejected: column not writable", "target", target.Path(), "column", k)
			return false
		}
	}
	if !validate(ctx, entity, values) {
		r.log.DebugContext(ctx, op+" rejected: invalid values", "target", target.Path())
		return false
	}
	return true
}
