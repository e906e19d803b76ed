package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"skazka-server/internal/service"
)

// MockIllustrationGenerator is a mock type for the IllustrationGenerator type
type MockIllustrationGenerator struct {
	mock.Mock
}

// GenerateIllustration provides a mock function with given fields: ctx, title, theme, characters, ageGroup
func (_m *MockIllustrationGenerator) GenerateIllustration(ctx context.Context, title string, theme string, characters []string, ageGroup string) ([]byte, error) {
	ret := _m.Called(ctx, title, theme, characters, ageGroup)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, string, string, []string, string) []byte); ok {
		r0 = rf(ctx, title, theme, characters, ageGroup)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, []string, string) error); ok {
		r1 = rf(ctx, title, theme, characters, ageGroup)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockIllustrationGenerator creates a new instance of MockIllustrationGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIllustrationGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockIllustrationGenerator {
	m := &MockIllustrationGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.IllustrationGenerator = (*MockIllustrationGenerator)(nil)
