package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"skazka-server/internal/config"
)

// ErrSpeechSynthesisFailed - ошибка при синтезе речи.
var ErrSpeechSynthesisFailed = errors.New("speech synthesis failed")

// MaxSpeechChars - безопасный потолок длины текста для синтеза речи.
// Более длинный текст усекается по границе предложения или слова, а не отбрасывается.
const MaxSpeechChars = 5000

// SpeechSynthesizer определяет интерфейс клиента синтеза речи.
type SpeechSynthesizer interface {
	// Synthesize озвучивает текст и возвращает закодированные аудио-байты (MP3).
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// openAISpeechSynthesizer реализует SpeechSynthesizer через TTS API.
type openAISpeechSynthesizer struct {
	client *openaigo.Client
	cfg    config.SpeechConfig
	logger *zap.Logger
}

// NewOpenAISpeechSynthesizer создает клиент синтеза речи.
// Формат аудио фиксирован конфигурацией, не параметрами вызова.
func NewOpenAISpeechSynthesizer(apiCfg config.OpenAIConfig, cfg config.SpeechConfig, logger *zap.Logger) SpeechSynthesizer {
	clientConfig := openaigo.DefaultConfig(apiCfg.APIKey)
	if apiCfg.BaseURL != "" {
		clientConfig.BaseURL = apiCfg.BaseURL
	}

	return &openAISpeechSynthesizer{
		client: openaigo.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger.Named("SpeechSynthesizer"),
	}
}

// Synthesize озвучивает текст.
func (s *openAISpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	truncated := TruncateForSpeech(text, MaxSpeechChars)
	if len(truncated) < len(text) {
		s.logger.Warn("Text truncated for speech synthesis",
			zap.Int("original_length", len(text)),
			zap.Int("truncated_length", len(truncated)),
		)
	}

	s.logger.Info("Sending speech synthesis request",
		zap.String("model", s.cfg.Model),
		zap.String("voice", s.cfg.Voice),
		zap.Int("text_length", len(truncated)),
	)

	startTime := time.Now()
	resp, err := s.client.CreateSpeech(
		ctx,
		openaigo.CreateSpeechRequest{
			Model:          openaigo.SpeechModel(s.cfg.Model),
			Input:          truncated,
			Voice:          openaigo.SpeechVoice(s.cfg.Voice),
			ResponseFormat: openaigo.SpeechResponseFormatMp3,
		},
	)
	duration := time.Since(startTime)

	if err != nil {
		observeGeneration("speech", duration.Seconds(), err)
		// Отмену и недоступность сервиса различаем только в логах:
		// для вызывающего оба случая означают отсутствие озвучки
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			s.logger.Warn("Speech synthesis cancelled", zap.Duration("duration", duration), zap.Error(err))
		} else {
			s.logger.Error("Speech synthesis API call failed", zap.Duration("duration", duration), zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrSpeechSynthesisFailed, err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		observeGeneration("speech", duration.Seconds(), err)
		s.logger.Error("Failed to read synthesized audio", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSpeechSynthesisFailed, err)
	}
	if len(audioData) == 0 {
		err := fmt.Errorf("%w: API returned empty audio", ErrSpeechSynthesisFailed)
		observeGeneration("speech", duration.Seconds(), err)
		return nil, err
	}

	observeGeneration("speech", duration.Seconds(), nil)
	s.logger.Info("Speech synthesized",
		zap.Duration("duration", duration),
		zap.Int("audio_bytes", len(audioData)),
	)
	return audioData, nil
}

// TruncateForSpeech усекает текст до limit символов (рун) для синтеза речи.
// Точка усечения подбирается по границе предложения, затем слова;
// в худшем случае режем по границе руны, но никогда внутри нее.
func TruncateForSpeech(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])

	// Сначала ищем конец предложения в последней четверти усеченного текста
	sentenceEnd := strings.LastIndexAny(cut, ".!?")
	if sentenceEnd >= len(cut)*3/4 {
		return cut[:sentenceEnd+1]
	}

	// Иначе откатываемся к последнему пробелу
	if wordEnd := strings.LastIndexAny(cut, " \t\n"); wordEnd > 0 {
		return strings.TrimRight(cut[:wordEnd], " \t\n")
	}

	return cut
}
