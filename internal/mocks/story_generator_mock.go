package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"skazka-server/internal/service"
)

// MockStoryGenerator is a mock type for the StoryGenerator type
type MockStoryGenerator struct {
	mock.Mock
}

// GenerateStory provides a mock function with given fields: ctx, theme, characters, ageGroup
func (_m *MockStoryGenerator) GenerateStory(ctx context.Context, theme string, characters []string, ageGroup string) (string, error) {
	ret := _m.Called(ctx, theme, characters, ageGroup)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, []string, string) string); ok {
		r0 = rf(ctx, theme, characters, ageGroup)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, []string, string) error); ok {
		r1 = rf(ctx, theme, characters, ageGroup)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStoryGenerator creates a new instance of MockStoryGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStoryGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockStoryGenerator {
	m := &MockStoryGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryGenerator = (*MockStoryGenerator)(nil)
