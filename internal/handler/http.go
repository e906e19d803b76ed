package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skazka-server/internal/models"
	"skazka-server/internal/service"
)

// StoryHandler обрабатывает HTTP запросы к API историй.
type StoryHandler struct {
	service service.StoryService
	logger  *zap.Logger
}

// NewStoryHandler создает новый StoryHandler.
func NewStoryHandler(s service.StoryService, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{
		service: s,
		logger:  logger.Named("StoryHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API.
func (h *StoryHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/stories", h.listStories)
		api.POST("/stories", h.createStory)
		api.GET("/stories/:id", h.getStory)
		api.DELETE("/stories/:id", h.deleteStory)
		api.POST("/stories/:id/favorite", h.toggleFavorite)
		api.POST("/stories/:id/regenerate-illustration", h.regenerateIllustration)
		api.POST("/speech", h.synthesizeSpeech)
	}
}

// health сообщает о готовности сервиса.
// GET /health
func (h *StoryHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listStories возвращает все истории (новые первыми).
// GET /api/stories
func (h *StoryHandler) listStories(c *gin.Context) {
	stories, err := h.service.ListStories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list stories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stories"})
		return
	}

	resp := make([]StoryResponse, 0, len(stories))
	for i := range stories {
		resp = append(resp, toStoryResponse(&stories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// createStory запускает полный цикл создания истории.
// POST /api/stories
func (h *StoryHandler) createStory(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for create story", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	story, err := h.service.CreateStory(c.Request.Context(), models.StoryRequest{
		Theme:      req.Theme,
		Characters: req.Characters,
		AgeGroup:   req.AgeGroup,
		Title:      req.Title,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		case errors.Is(err, service.ErrStoryGenerationFailed):
			// Детали ошибки поставщика остаются в серверных логах
			h.logger.Error("Story generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Story generation failed, please try again later"})
		default:
			h.logger.Error("Failed to create story", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred while creating the story"})
		}
		return
	}

	c.JSON(http.StatusCreated, toStoryResponse(story))
}

// getStory возвращает одну историю.
// GET /api/stories/:id
func (h *StoryHandler) getStory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	story, err := h.service.GetStory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		h.logger.Error("Failed to get story", zap.String("story_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve story"})
		return
	}

	c.JSON(http.StatusOK, toStoryResponse(story))
}

// deleteStory удаляет историю и ее артефакты.
// DELETE /api/stories/:id
func (h *StoryHandler) deleteStory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStory(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		h.logger.Error("Failed to delete story", zap.String("story_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete story"})
		return
	}

	c.Status(http.StatusNoContent)
}

// toggleFavorite инвертирует флаг избранного.
// POST /api/stories/:id/favorite
func (h *StoryHandler) toggleFavorite(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	isFavorite, err := h.service.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		h.logger.Error("Failed to toggle favorite", zap.String("story_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorite status"})
		return
	}

	c.JSON(http.StatusOK, FavoriteResponse{IsFavorite: isFavorite})
}

// regenerateIllustration заново генерирует иллюстрацию.
// POST /api/stories/:id/regenerate-illustration
func (h *StoryHandler) regenerateIllustration(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	imageURL, err := h.service.RegenerateIllustration(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		h.logger.Error("Failed to regenerate illustration", zap.String("story_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate illustration"})
		return
	}

	c.JSON(http.StatusOK, RegenerateResponse{ImageURL: imageURL})
}

// synthesizeSpeech озвучивает произвольный текст и отдает аудио-поток.
// POST /api/speech
func (h *StoryHandler) synthesizeSpeech(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}
	// Текст из одних пробелов отклоняем до обращения к платному API синтеза
	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	audioData, err := h.service.SynthesizeSpeech(c.Request.Context(), text)
	if err != nil {
		h.logger.Error("Speech synthesis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Speech synthesis failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="speech.mp3"`)
	c.Data(http.StatusOK, "audio/mpeg", audioData)
}

// parseID извлекает UUID истории из пути запроса.
func (h *StoryHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story id"})
		return uuid.Nil, false
	}
	return id, true
}
