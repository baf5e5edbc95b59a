package services_test

import (
	"context"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*entities.Report, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Report), args.Error(1)
}

type MockPOIRepository struct {
	mock.Mock
}

func (m *MockPOIRepository) ListActive(ctx context.Context) ([]*entities.PointOfInterest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointOfInterest), args.Error(1)
}

func (m *MockPOIRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPOIRepository) Upsert(ctx context.Context, pois []*entities.PointOfInterest) (int, error) {
	args := m.Called(ctx, pois)
	return args.Int(0), args.Error(1)
}

type MockNarrativeGenerator struct {
	mock.Mock
}

func (m *MockNarrativeGenerator) Name() string {
	return "mock"
}

func (m *MockNarrativeGenerator) Summarize(ctx context.Context, input providers.NarrativeInput) (string, bool) {
	args := m.Called(ctx, input)
	return args.String(0), args.Bool(1)
}

type MockPOISource struct {
	mock.Mock
}

func (m *MockPOISource) FetchPOIs(ctx context.Context, bbox providers.BoundingBox) ([]*entities.PointOfInterest, error) {
	args := m.Called(ctx, bbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointOfInterest), args.Error(1)
}

func floatPtr(v float64) *float64 {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}
