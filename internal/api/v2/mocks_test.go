package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/predictor"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// MockDataStore implements datastore.Interface for handler tests.
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error  { return m.Called().Error(0) }
func (m *MockDataStore) Close() error { return m.Called().Error(0) }

func (m *MockDataStore) Save(ctx context.Context, record *datastore.WaterQuality) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockDataStore) GetAll(ctx context.Context) ([]datastore.WaterQuality, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]datastore.WaterQuality)
	return records, args.Error(1)
}

func (m *MockDataStore) Get(ctx context.Context, id uint64) (datastore.WaterQuality, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(datastore.WaterQuality), args.Error(1)
}

func (m *MockDataStore) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDataStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) Ping(ctx context.Context) error     { return m.Called(ctx).Error(0) }
func (m *MockDataStore) Optimize(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockDataStore) Backend() string                    { return "mock" }

// MockPredictor implements predictor.Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, meas waterquality.Measurements) (waterquality.Potability, error) {
	args := m.Called(ctx, meas)
	return args.Get(0).(waterquality.Potability), args.Error(1)
}

func (m *MockPredictor) Info() predictor.ModelInfo {
	return predictor.ModelInfo{Backend: "mock", Name: "mock", Inputs: waterquality.FeatureCount, Outputs: 1}
}

func (m *MockPredictor) Close() error { return nil }

// MockPublisher implements RecordPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRecord(ctx context.Context, record *datastore.WaterQuality) {
	m.Called(ctx, record)
}
