package handler

import (
	"time"

	"skazka-server/internal/models"
)

// CreateStoryRequest - тело запроса POST /api/stories.
// Именование полей повторяет контракт фронтенда: параметры запроса в snake_case.
type CreateStoryRequest struct {
	Theme      string   `json:"theme"`
	Characters []string `json:"characters"`
	AgeGroup   string   `json:"age_group"`
	Title      string   `json:"title"`
}

// SpeechRequest - тело запроса POST /api/speech.
type SpeechRequest struct {
	Text string `json:"text"`
}

// StoryResponse - представление истории в ответах API (поля в camelCase).
type StoryResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Theme      string   `json:"theme"`
	Characters []string `json:"characters"`
	AgeGroup   string   `json:"ageGroup"`
	IsFavorite bool     `json:"isFavorite"`
	ImageURL   *string  `json:"imageUrl"`
	AudioURL   *string  `json:"audioUrl"`
	CreatedAt  string   `json:"createdAt"`
}

// FavoriteResponse - ответ POST /api/stories/:id/favorite.
type FavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// RegenerateResponse - ответ POST /api/stories/:id/regenerate-illustration.
type RegenerateResponse struct {
	ImageURL *string `json:"imageUrl"`
}

// toStoryResponse преобразует модель в DTO ответа.
func toStoryResponse(story *models.Story) StoryResponse {
	characters := story.Characters
	if characters == nil {
		characters = []string{}
	}
	return StoryResponse{
		ID:         story.ID.String(),
		Title:      story.Title,
		Content:    story.Content,
		Theme:      story.Theme,
		Characters: characters,
		AgeGroup:   story.AgeGroup,
		IsFavorite: story.IsFavorite,
		ImageURL:   story.ImageURL,
		AudioURL:   story.AudioURL,
		CreatedAt:  story.CreatedAt.Format(time.RFC3339),
	}
}
