package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается, когда история с указанным ID не существует.
var ErrNotFound = errors.New("story not found")

// Story представляет одну сгенерированную детскую историю.
// Запись неизменяема после создания, кроме is_favorite, image_url и audio_url.
type Story struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Theme      string    `json:"theme"`
	Characters []string  `json:"characters"` // Порядок персонажей сохраняется как задал клиент
	AgeGroup   string    `json:"ageGroup"`
	IsFavorite bool      `json:"isFavorite"`
	ImageURL   *string   `json:"imageUrl"` // nil, если генерация или загрузка иллюстрации не удалась
	AudioURL   *string   `json:"audioUrl"` // nil, если синтез или загрузка озвучки не удалась
	CreatedAt  time.Time `json:"createdAt"`
}

// StoryRequest параметры генерации, сохраняемые вместе с историей.
type StoryRequest struct {
	Theme      string
	Characters []string
	AgeGroup   string
	Title      string // Опционально: если пусто, заголовок выводится из текста
}
