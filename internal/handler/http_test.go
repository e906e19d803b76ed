package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"skazka-server/internal/handler"
	"skazka-server/internal/mocks"
	"skazka-server/internal/models"
	"skazka-server/internal/service"
)

// setupRouter собирает gin-роутер с хендлером поверх мока сервиса.
func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockStoryService) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockStoryService(t)
	h := handler.NewStoryHandler(svc, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router)
	return router, svc
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleStory() *models.Story {
	imageURL := "http://minio.local/images/illustrations/abc.png"
	audioURL := "http://minio.local/audio/narrations/abc.mp3"
	return &models.Story{
		ID:         uuid.New(),
		Title:      "The Brave Duo",
		Content:    "Once upon a time...",
		Theme:      "Adventure",
		Characters: []string{"Mina", "Theo"},
		AgeGroup:   "5-8",
		IsFavorite: false,
		ImageURL:   &imageURL,
		AudioURL:   &audioURL,
	}
}

func TestCreateStory_Success(t *testing.T) {
	router, svc := setupRouter(t)

	story := sampleStory()
	svc.On("CreateStory", mock.Anything, models.StoryRequest{
		Theme:      "Adventure",
		Characters: []string{"Mina", "Theo"},
		AgeGroup:   "5-8",
	}).Return(story, nil).Once()

	w := performRequest(router, http.MethodPost, "/api/stories", gin.H{
		"theme":      "Adventure",
		"characters": []string{"Mina", "Theo"},
		"age_group":  "5-8",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The Brave Duo", resp["title"])
	assert.NotEmpty(t, resp["content"])
	assert.NotNil(t, resp["imageUrl"])
	assert.NotNil(t, resp["audioUrl"])
	assert.Equal(t, false, resp["isFavorite"])
	assert.Equal(t, []any{"Mina", "Theo"}, resp["characters"])
}

// История без иллюстрации - все еще 201 с imageUrl: null.
func TestCreateStory_DegradedArtifactsStillCreated(t *testing.T) {
	router, svc := setupRouter(t)

	story := sampleStory()
	story.ImageURL = nil
	svc.On("CreateStory", mock.Anything, mock.Anything).Return(story, nil).Once()

	w := performRequest(router, http.MethodPost, "/api/stories", gin.H{
		"theme":      "Adventure",
		"characters": []string{"Mina", "Theo"},
		"age_group":  "5-8",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["imageUrl"])
	assert.NotNil(t, resp["audioUrl"])
	assert.NotEmpty(t, resp["content"])
}

func TestCreateStory_ValidationError(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("CreateStory", mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Missing: []string{"theme"}}).Once()

	w := performRequest(router, http.MethodPost, "/api/stories", gin.H{
		"characters": []string{"Mina"},
		"age_group":  "5-8",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "theme")
}

func TestCreateStory_TextGenerationFailure(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("CreateStory", mock.Anything, mock.Anything).
		Return(nil, service.ErrStoryGenerationFailed).Once()

	w := performRequest(router, http.MethodPost, "/api/stories", gin.H{
		"theme":      "Adventure",
		"characters": []string{"Mina", "Theo"},
		"age_group":  "5-8",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Текст ошибки поставщика клиенту не утекает
	assert.NotContains(t, w.Body.String(), "quota")
}

func TestListStories(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("ListStories", mock.Anything).Return([]models.Story{*sampleStory()}, nil).Once()

	w := performRequest(router, http.MethodGet, "/api/stories", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "The Brave Duo", resp[0]["title"])
}

func TestGetStory_NotFound(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("GetStory", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound).Once()

	w := performRequest(router, http.MethodGet, "/api/stories/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStory_InvalidID(t *testing.T) {
	router, _ := setupRouter(t)

	w := performRequest(router, http.MethodGet, "/api/stories/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteStory(t *testing.T) {
	router, svc := setupRouter(t)

	storyID := uuid.New()
	svc.On("DeleteStory", mock.Anything, storyID).Return(nil).Once()

	w := performRequest(router, http.MethodDelete, "/api/stories/"+storyID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDeleteStory_NotFound(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("DeleteStory", mock.Anything, mock.Anything).Return(models.ErrNotFound).Once()

	w := performRequest(router, http.MethodDelete, "/api/stories/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Повторное переключение избранного возвращает флаг обратно.
func TestToggleFavorite_FlipsBackAndForth(t *testing.T) {
	router, svc := setupRouter(t)

	storyID := uuid.New()
	svc.On("ToggleFavorite", mock.Anything, storyID).Return(true, nil).Once()
	svc.On("ToggleFavorite", mock.Anything, storyID).Return(false, nil).Once()

	w := performRequest(router, http.MethodPost, "/api/stories/"+storyID.String()+"/favorite", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFavorite": true}`, w.Body.String())

	w = performRequest(router, http.MethodPost, "/api/stories/"+storyID.String()+"/favorite", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFavorite": false}`, w.Body.String())
}

func TestRegenerateIllustration(t *testing.T) {
	router, svc := setupRouter(t)

	storyID := uuid.New()
	newURL := "http://minio.local/images/illustrations/new.png"
	svc.On("RegenerateIllustration", mock.Anything, storyID).Return(&newURL, nil).Once()

	w := performRequest(router, http.MethodPost, "/api/stories/"+storyID.String()+"/regenerate-illustration", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"imageUrl": "http://minio.local/images/illustrations/new.png"}`, w.Body.String())
}

func TestSynthesizeSpeech(t *testing.T) {
	router, svc := setupRouter(t)

	svc.On("SynthesizeSpeech", mock.Anything, "Hello there").Return([]byte("mp3 bytes"), nil).Once()

	w := performRequest(router, http.MethodPost, "/api/speech", gin.H{"text": "Hello there"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "mp3 bytes", w.Body.String())
}

func TestSynthesizeSpeech_MissingText(t *testing.T) {
	router, svc := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/api/speech", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SynthesizeSpeech", mock.Anything, mock.Anything)
}

// Текст из одних пробелов не доходит до клиента синтеза.
func TestSynthesizeSpeech_WhitespaceOnlyText(t *testing.T) {
	router, svc := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/api/speech", gin.H{"text": " \n\t  "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SynthesizeSpeech", mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := performRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
