package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"skazka-server/internal/storage"
)

// MockArtifactStore is a mock type for the ArtifactStore type
type MockArtifactStore struct {
	mock.Mock
}

// Put provides a mock function with given fields: ctx, container, key, data, contentType
func (_m *MockArtifactStore) Put(ctx context.Context, container storage.Container, key string, data []byte, contentType string) (string, error) {
	ret := _m.Called(ctx, container, key, data, contentType)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, storage.Container, string, []byte, string) string); ok {
		r0 = rf(ctx, container, key, data, contentType)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, storage.Container, string, []byte, string) error); ok {
		r1 = rf(ctx, container, key, data, contentType)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Get provides a mock function with given fields: ctx, container, key
func (_m *MockArtifactStore) Get(ctx context.Context, container storage.Container, key string) ([]byte, error) {
	ret := _m.Called(ctx, container, key)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, container, key
func (_m *MockArtifactStore) Delete(ctx context.Context, container storage.Container, key string) error {
	ret := _m.Called(ctx, container, key)
	return ret.Error(0)
}

// PresignURL provides a mock function with given fields: ctx, container, key
func (_m *MockArtifactStore) PresignURL(ctx context.Context, container storage.Container, key string) (string, error) {
	ret := _m.Called(ctx, container, key)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	return r0, ret.Error(1)
}

// KeyFromURL provides a mock function with given fields: rawURL
func (_m *MockArtifactStore) KeyFromURL(rawURL string) (storage.Container, string, bool) {
	ret := _m.Called(rawURL)

	var r0 storage.Container
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(storage.Container)
	}

	var r1 string
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(string)
	}

	return r0, r1, ret.Bool(2)
}

// NewMockArtifactStore creates a new instance of MockArtifactStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockArtifactStore(t interface {
	mock.TestingT
	Helper()
}) *MockArtifactStore {
	m := &MockArtifactStore{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ storage.ArtifactStore = (*MockArtifactStore)(nil)
