package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"etemplate-service/internal/core/domain"
)

// MockTemplateSource is a mock of TemplateSource.
type MockTemplateSource struct {
	mock.Mock
}

func (m *MockTemplateSource) Name() string {
	return "mock"
}

func (m *MockTemplateSource) Stat(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TemplateInfo), args.Error(1)
}

func (m *MockTemplateSource) Read(ctx context.Context, info *domain.TemplateInfo) ([]byte, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCacheStore is a mock of CacheStore.
type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Error(1)
}

func (m *MockCacheStore) Put(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func (m *MockCacheStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockRecorder is a mock of Recorder accepting every call.
type MockRecorder struct {
	mock.Mock
}

// NewMockRecorder returns a recorder whose calls can be asserted with
// AssertCalled and AssertNumberOfCalls.
func NewMockRecorder() *MockRecorder {
	m := new(MockRecorder)
	for _, method := range []string{"CacheHit", "CacheMiss", "NotModified", "NotFound", "CacheWriteFailed"} {
		m.On(method).Return()
	}
	m.On("ObserveTransform", mock.AnythingOfType("time.Duration")).Return()
	return m
}

func (m *MockRecorder) CacheHit()         { m.Called() }
func (m *MockRecorder) CacheMiss()        { m.Called() }
func (m *MockRecorder) NotModified()      { m.Called() }
func (m *MockRecorder) NotFound()         { m.Called() }
func (m *MockRecorder) CacheWriteFailed() { m.Called() }

func (m *MockRecorder) ObserveTransform(d time.Duration) { m.Called(d) }

// MockListingSource is a MockTemplateSource that can enumerate templates.
type MockListingSource struct {
	MockTemplateSource
}

func (m *MockListingSource) List(ctx context.Context) ([]domain.TemplateRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TemplateRef), args.Error(1)
}

// MockCustomizationStore is a mock of CustomizationStore.
type MockCustomizationStore struct {
	mock.Mock
}

func (m *MockCustomizationStore) Save(ctx context.Context, ref domain.TemplateRef, body []byte) error {
	args := m.Called(ctx, ref, body)
	return args.Error(0)
}

func (m *MockCustomizationStore) Delete(ctx context.Context, ref domain.TemplateRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
