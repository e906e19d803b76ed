package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"skazka-server/internal/config"
)

// ErrStoryGenerationFailed - ошибка при генерации текста истории.
var ErrStoryGenerationFailed = errors.New("story generation failed")

// StoryGenerator определяет интерфейс клиента генерации текста истории.
type StoryGenerator interface {
	// GenerateStory генерирует текст детской истории по теме, персонажам и возрастной группе.
	// Возвращает прозу с заголовком в первой строке (маркер **...**) либо ошибку.
	GenerateStory(ctx context.Context, theme string, characters []string, ageGroup string) (string, error)
}

// openAIStoryGenerator реализует StoryGenerator с использованием go-openai.
type openAIStoryGenerator struct {
	client *openaigo.Client
	cfg    config.OpenAIConfig
	logger *zap.Logger
}

// NewOpenAIStoryGenerator создает клиент генерации текста поверх OpenAI-совместимого API.
func NewOpenAIStoryGenerator(cfg config.OpenAIConfig, logger *zap.Logger) StoryGenerator {
	clientConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIStoryGenerator{
		client: openaigo.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger.Named("StoryGenerator"),
	}
}

// GenerateStory генерирует текст истории.
func (g *openAIStoryGenerator) GenerateStory(ctx context.Context, theme string, characters []string, ageGroup string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	systemPrompt := fmt.Sprintf(
		"You are a creative and engaging children's story writer. "+
			"Write a story appropriate for the %s age group. "+
			"The story should be fun, positive, and easy to understand for young children. "+
			"Start your reply with the story title on its own line, wrapped in ** markers.",
		ageGroup,
	)
	userPrompt := fmt.Sprintf(
		"Write a short story with the theme: '%s'. Include the following characters: %s. "+
			"Make sure the story has a clear beginning, middle, and a happy or satisfying ending.",
		theme, characterList(characters),
	)

	g.logger.Info("Sending story generation request",
		zap.String("model", g.cfg.Model),
		zap.String("theme", theme),
		zap.String("age_group", ageGroup),
	)

	startTime := time.Now()
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openaigo.ChatCompletionRequest{
			Model: g.cfg.Model,
			Messages: []openaigo.ChatCompletionMessage{
				{
					Role:    openaigo.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openaigo.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: 0.7,
			MaxTokens:   800,
		},
	)
	duration := time.Since(startTime)

	if err != nil {
		observeGeneration("text", duration.Seconds(), err)
		g.logger.Error("Story generation API call failed", zap.Duration("duration", duration), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStoryGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		err := fmt.Errorf("%w: получен пустой ответ", ErrStoryGenerationFailed)
		observeGeneration("text", duration.Seconds(), err)
		g.logger.Error("Story generation API returned empty response", zap.Duration("duration", duration))
		return "", err
	}

	observeGeneration("text", duration.Seconds(), nil)
	content := resp.Choices[0].Message.Content
	g.logger.Info("Story generated",
		zap.Duration("duration", duration),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return content, nil
}

// characterList форматирует список персонажей для промпта.
// Пустой список заменяется обобщенным персонажем, а не ошибкой.
func characterList(characters []string) string {
	cleaned := make([]string, 0, len(characters))
	for _, c := range characters {
		if strings.TrimSpace(c) != "" {
			cleaned = append(cleaned, strings.TrimSpace(c))
		}
	}
	if len(cleaned) == 0 {
		return "a friendly child"
	}
	return strings.Join(cleaned, ", ")
}
