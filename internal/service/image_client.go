package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"skazka-server/internal/config"
)

// ErrImageGenerationFailed - ошибка при генерации иллюстрации.
var ErrImageGenerationFailed = errors.New("image generation failed")

// IllustrationGenerator определяет интерфейс клиента генерации иллюстраций.
type IllustrationGenerator interface {
	// GenerateIllustration генерирует иллюстрацию и возвращает байты изображения.
	// Временный URL от поставщика разрешается в байты внутри клиента.
	GenerateIllustration(ctx context.Context, title, theme string, characters []string, ageGroup string) ([]byte, error)
}

// openAIIllustrationGenerator реализует IllustrationGenerator через DALL-E API.
type openAIIllustrationGenerator struct {
	client         *openaigo.Client
	cfg            config.ImageConfig
	downloadClient *http.Client
	logger         *zap.Logger
}

// NewOpenAIIllustrationGenerator создает клиент генерации иллюстраций.
func NewOpenAIIllustrationGenerator(apiCfg config.OpenAIConfig, cfg config.ImageConfig, logger *zap.Logger) IllustrationGenerator {
	clientConfig := openaigo.DefaultConfig(apiCfg.APIKey)
	if apiCfg.BaseURL != "" {
		clientConfig.BaseURL = apiCfg.BaseURL
	}

	return &openAIIllustrationGenerator{
		client: openaigo.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		downloadClient: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
		logger: logger.Named("IllustrationGenerator"),
	}
}

// BuildIllustrationPrompt строит промпт для генерации иллюстрации.
// Чистая функция: результат детерминирован по входным данным.
func BuildIllustrationPrompt(title, theme string, characters []string, ageGroup string) string {
	return fmt.Sprintf(
		"Create a colorful and friendly cartoon illustration for a children's storybook page. "+
			"The story is titled '%s', about '%s' featuring '%s', for age group '%s'. "+
			"The style should be whimsical, vibrant, and suitable for young children. No text in the image.",
		title, theme, characterList(characters), ageGroup,
	)
}

// GenerateIllustration генерирует иллюстрацию и скачивает ее в память.
func (g *openAIIllustrationGenerator) GenerateIllustration(ctx context.Context, title, theme string, characters []string, ageGroup string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := BuildIllustrationPrompt(title, theme, characters, ageGroup)
	g.logger.Info("Sending illustration generation request",
		zap.String("model", g.cfg.Model),
		zap.String("title", title),
		zap.String("prompt_start", prompt[:min(len(prompt), 100)]),
	)

	startTime := time.Now()
	resp, err := g.client.CreateImage(
		ctx,
		openaigo.ImageRequest{
			Prompt:         prompt,
			Model:          g.cfg.Model,
			N:              1,
			Size:           g.cfg.Size,
			ResponseFormat: openaigo.CreateImageResponseFormatURL,
		},
	)
	duration := time.Since(startTime)

	if err != nil {
		observeGeneration("image", duration.Seconds(), err)
		g.logger.Error("Illustration API call failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		err := fmt.Errorf("%w: API returned no image URL", ErrImageGenerationFailed)
		observeGeneration("image", duration.Seconds(), err)
		g.logger.Error("Illustration API returned empty response", zap.Duration("duration", duration))
		return nil, err
	}

	// Разрешаем временный URL поставщика в байты: наружу он не отдается
	imageData, err := g.download(ctx, resp.Data[0].URL)
	if err != nil {
		observeGeneration("image", duration.Seconds(), err)
		g.logger.Error("Failed to download generated illustration", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}

	observeGeneration("image", duration.Seconds(), nil)
	g.logger.Info("Illustration generated",
		zap.Duration("duration", duration),
		zap.Int("size_bytes", len(imageData)),
	)
	return imageData, nil
}

// download скачивает изображение по временному URL поставщика.
func (g *openAIIllustrationGenerator) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := g.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("image download returned empty body")
	}
	return data, nil
}
