package catalog

import (
	"context"

	"locallibrary/internal/store"

	"github.com/stretchr/testify/mock"
)

// mockRepository is a testify mock of store.Repository.
type mockRepository[T any] struct {
	mock.Mock
}

var _ store.Repository[struct{}] = (*mockRepository[struct{}])(nil)

func (m *mockRepository[T]) Get(ctx context.Context, id string) (T, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(T), args.Error(1)
}

func (m *mockRepository[T]) List(ctx context.Context, q store.Query) ([]T, error) {
	args := m.Called(ctx, q)
	recs, _ := args.Get(0).([]T)
	return recs, args.Error(1)
}

func (m *mockRepository[T]) Count(ctx context.Context, q store.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository[T]) Insert(ctx context.Context, rec T) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *mockRepository[T]) Replace(ctx context.Context, id string, rec T) (T, error) {
	args := m.Called(ctx, id, rec)
	return args.Get(0).(T), args.Error(1)
}

func (m *mockRepository[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// recordingObserver collects mutation outcomes.
type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveMutation(kind, op, outcome string) {
	r.outcomes = append(r.outcomes, kind+" "+op+" "+outcome)
}
