package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/report"
	"github.com/sells-group/callrecon/internal/store"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateRun(ctx context.Context, input model.RunInput) (*model.Run, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error {
	return m.Called(ctx, runID, summary).Error(0)
}

func (m *mockStore) FailRun(ctx context.Context, runID string, msg string) error {
	return m.Called(ctx, runID, msg).Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) SaveRows(ctx context.Context, runID string, rows []model.ReconciledRow) (int64, error) {
	args := m.Called(ctx, runID, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) CountRows(ctx context.Context, runID string) (int, error) {
	args := m.Called(ctx, runID)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

// --- Writer Mock ---

type mockWriter struct {
	mock.Mock
}

var _ report.Writer = (*mockWriter)(nil)

func (m *mockWriter) WriteService(ctx context.Context, rep *report.ServiceReport) (string, error) {
	args := m.Called(ctx, rep)
	return args.String(0), args.Error(1)
}
