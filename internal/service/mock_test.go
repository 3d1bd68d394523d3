package service_test

import (
	"context"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/repo"
)

// mockRepo is a hand-written test double for repo.RecordRepo.
// Each method is a function field; set only the ones your test needs.
type mockRepo struct {
	query         func(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error)
	insert        func(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error)
	update        func(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error)
	delete        func(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error)
	deleteAll     func(ctx context.Context) (int64, int64, error)
	typeOf        func(target domain.Target) (domain.TargetType, error)
	maxTripNumber func(ctx context.Context) (int64, error)
}

func (m *mockRepo) Query(ctx context.Context, target domain.Target, q domain.Query) ([]domain.Row, error) {
	return m.query(ctx, target, q)
}
func (m *mockRepo) Insert(ctx context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error) {
	return m.insert(ctx, target, values)
}
func (m *mockRepo) Update(ctx context.Context, target domain.Target, values domain.Values, filter domain.Filter) (int64, error) {
	return m.update(ctx, target, values, filter)
}
func (m *mockRepo) Delete(ctx context.Context, target domain.Target, filter domain.Filter) (int64, error) {
	return m.delete(ctx, target, filter)
}
func (m *mockRepo) DeleteAll(ctx context.Context) (int64, int64, error) {
	return m.deleteAll(ctx)
}
func (m *mockRepo) Type(target domain.Target) (domain.TargetType, error) {
	return m.typeOf(target)
}
func (m *mockRepo) MaxTripNumber(ctx context.Context) (int64, error) {
	return m.maxTripNumber(ctx)
}

// compile-time check: mockRepo must satisfy repo.RecordRepo.
var _ repo.RecordRepo = (*mockRepo)(nil)

// insertCall records one Insert made through recordingRepo.
type insertCall struct {
	target domain.Target
	values domain.Values
}

// recordingRepo returns a mockRepo whose inserts always succeed with
// increasing ids per collection, and the slice they are recorded into.
func recordingRepo(max int64) (*mockRepo, *[]insertCall) {
	var calls []insertCall
	ids := map[domain.Match]int64{}
	return &mockRepo{
		maxTripNumber: func(context.Context) (int64, error) { return max, nil },
		insert: func(_ context.Context, target domain.Target, values domain.Values) (domain.Target, bool, error) {
			calls = append(calls, insertCall{target: target, values: values})
			ids[target.Match]++
			return target.WithID(ids[target.Match]), true, nil
		},
	}, &calls
}
