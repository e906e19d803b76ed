package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"skazka-server/internal/models"
	"skazka-server/internal/service"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

// CreateStory provides a mock function with given fields: ctx, req
func (_m *MockStoryService) CreateStory(ctx context.Context, req models.StoryRequest) (*models.Story, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}

	return r0, ret.Error(1)
}

// GetStory provides a mock function with given fields: ctx, id
func (_m *MockStoryService) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}

	return r0, ret.Error(1)
}

// ListStories provides a mock function with given fields: ctx
func (_m *MockStoryService) ListStories(ctx context.Context) ([]models.Story, error) {
	ret := _m.Called(ctx)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}

	return r0, ret.Error(1)
}

// DeleteStory provides a mock function with given fields: ctx, id
func (_m *MockStoryService) DeleteStory(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// ToggleFavorite provides a mock function with given fields: ctx, id
func (_m *MockStoryService) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

// RegenerateIllustration provides a mock function with given fields: ctx, id
func (_m *MockStoryService) RegenerateIllustration(ctx context.Context, id uuid.UUID) (*string, error) {
	ret := _m.Called(ctx, id)

	var r0 *string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*string)
	}

	return r0, ret.Error(1)
}

// SynthesizeSpeech provides a mock function with given fields: ctx, text
func (_m *MockStoryService) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	ret := _m.Called(ctx, text)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// NewMockStoryService creates a new instance of MockStoryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStoryService(t interface {
	mock.TestingT
	Helper()
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryService = (*MockStoryService)(nil)
