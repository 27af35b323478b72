package concsearch

import (
	"context"

	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
)

// --- planUseCase mock ---

type mockPlanUC struct {
	planFn     func(ctx context.Context, index string, sc *request.Context) (searchuc.Plan, error)
	planManyFn func(ctx context.Context, targets []searchuc.Target) ([]searchuc.Plan, error)
}

func (m *mockPlanUC) Plan(ctx context.Context, index string, sc *request.Context) (searchuc.Plan, error) {
	return m.planFn(ctx, index, sc)
}

func (m *mockPlanUC) PlanMany(ctx context.Context, targets []searchuc.Target) ([]searchuc.Plan, error) {
	return m.planManyFn(ctx, targets)
}

// --- settingsUseCase mock ---

type mockSettingsUC struct {
	getFn    func(ctx context.Context, name string) (settings.Index, error)
	putFn    func(ctx context.Context, idx settings.Index) error
	deleteFn func(ctx context.Context, name string) error
	listFn   func(ctx context.Context) ([]settings.Index, error)
}

func (m *mockSettingsUC) Get(ctx context.Context, name string) (settings.Index, error) {
	return m.getFn(ctx, name)
}

func (m *mockSettingsUC) Put(ctx context.Context, idx settings.Index) error {
	return m.putFn(ctx, idx)
}

func (m *mockSettingsUC) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

func (m *mockSettingsUC) List(ctx context.Context) ([]settings.Index, error) {
	return m.listFn(ctx)
}

// --- helpers ---

func testClient(planner planUseCase, svc settingsUseCase) *Client {
	return &Client{planner: planner, settings: svc}
}
