package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skazka-server/internal/models"
	"skazka-server/internal/repository"
	"skazka-server/internal/storage"
)

// ValidationError - ошибка валидации запроса на создание истории.
// Никакие внешние сервисы при этой ошибке не вызываются.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// StoryService определяет операции над историями для HTTP слоя.
type StoryService interface {
	// CreateStory выполняет полный цикл: текст -> заголовок -> [иллюстрация, озвучка] -> запись.
	// Ошибка генерации текста фатальна; ошибки иллюстрации/озвучки деградируют до nil-ссылок.
	CreateStory(ctx context.Context, req models.StoryRequest) (*models.Story, error)
	// GetStory возвращает историю со свежеподписанными ссылками на артефакты.
	GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	// ListStories возвращает все истории со свежеподписанными ссылками на артефакты.
	ListStories(ctx context.Context) ([]models.Story, error)
	// DeleteStory удаляет запись и по возможности связанные артефакты.
	// Неудача удаления артефакта не отменяет удаление записи.
	DeleteStory(ctx context.Context, id uuid.UUID) error
	// ToggleFavorite инвертирует флаг избранного и возвращает новое значение.
	ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error)
	// RegenerateIllustration заново генерирует иллюстрацию существующей истории.
	// При любой неудаче прежняя ссылка остается нетронутой.
	RegenerateIllustration(ctx context.Context, id uuid.UUID) (*string, error)
	// SynthesizeSpeech озвучивает произвольный текст (эндпоинт /speech).
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// storyServiceImpl - реализация StoryService.
type storyServiceImpl struct {
	repo      repository.StoryRepository
	store     storage.ArtifactStore
	textGen   StoryGenerator
	imageGen  IllustrationGenerator
	speechGen SpeechSynthesizer
	logger    *zap.Logger
}

// NewStoryService создает оркестратор историй.
// Все зависимости передаются явно - без глобального состояния клиентов.
func NewStoryService(
	repo repository.StoryRepository,
	store storage.ArtifactStore,
	textGen StoryGenerator,
	imageGen IllustrationGenerator,
	speechGen SpeechSynthesizer,
	logger *zap.Logger,
) StoryService {
	return &storyServiceImpl{
		repo:      repo,
		store:     store,
		textGen:   textGen,
		imageGen:  imageGen,
		speechGen: speechGen,
		logger:    logger.Named("StoryService"),
	}
}

// CreateStory - основной сценарий создания истории.
func (s *storyServiceImpl) CreateStory(ctx context.Context, req models.StoryRequest) (*models.Story, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("theme", req.Theme), zap.String("age_group", req.AgeGroup))

	// 1. Генерация текста. Неудача фатальна: запись не создается,
	// артефакты не загружаются.
	content, err := s.textGen.GenerateStory(ctx, req.Theme, req.Characters, req.AgeGroup)
	if err != nil {
		log.Error("Story text generation failed", zap.Error(err))
		return nil, err
	}

	// 2. Заголовок: явный от клиента, затем маркер в тексте, затем запасной вариант.
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = ParseTitle(content)
	}
	if title == "" {
		title = FallbackTitle(req.Theme, req.Characters)
	}
	log.Info("Using title", zap.String("title", title))

	storyID := uuid.New()

	// 3. Иллюстрация и озвучка независимы: выполняются параллельно,
	// обе должны завершиться до записи в БД.
	var (
		wg       sync.WaitGroup
		imageURL *string
		audioURL *string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		imageURL = s.generateAndStoreImage(ctx, storyID, title, req.Theme, req.Characters, req.AgeGroup)
	}()
	go func() {
		defer wg.Done()
		audioURL = s.generateAndStoreAudio(ctx, storyID, content)
	}()
	wg.Wait()

	// 4. Копия текста в хранилище - best-effort, канонический текст живет в БД.
	textKey := s.storeStoryText(ctx, storyID, content)

	story := &models.Story{
		ID:         storyID,
		Title:      title,
		Content:    content,
		Theme:      req.Theme,
		Characters: req.Characters,
		AgeGroup:   req.AgeGroup,
		IsFavorite: false,
		ImageURL:   imageURL,
		AudioURL:   audioURL,
		CreatedAt:  time.Now().UTC(),
	}

	// 5. Запись строки. Отключение клиента после начала записи
	// не должно оставить частичную запись.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.repo.Create(persistCtx, story); err != nil {
		// Уже загруженные артефакты становятся сиротами; логируем все три
		// (иллюстрацию, озвучку, текстовую копию) для ручной очистки
		log.Error("Failed to persist story, uploaded artifacts orphaned",
			zap.String("story_id", storyID.String()),
			zap.Stringp("image_url", imageURL),
			zap.Stringp("audio_url", audioURL),
			zap.String("text_key", textKey),
			zap.Error(err),
		)
		return nil, fmt.Errorf("ошибка сохранения истории: %w", err)
	}

	log.Info("Story created",
		zap.String("story_id", storyID.String()),
		zap.Bool("has_image", imageURL != nil),
		zap.Bool("has_audio", audioURL != nil),
	)
	return story, nil
}

// generateAndStoreImage выполняет конвейер иллюстрации: генерация -> загрузка.
// Любая неудача деградирует до nil, не прерывая создание истории.
func (s *storyServiceImpl) generateAndStoreImage(ctx context.Context, storyID uuid.UUID, title, theme string, characters []string, ageGroup string) *string {
	imageData, err := s.imageGen.GenerateIllustration(ctx, title, theme, characters, ageGroup)
	if err != nil {
		s.logger.Warn("Illustration generation failed, story will have no image",
			zap.String("story_id", storyID.String()), zap.Error(err))
		return nil
	}

	key := fmt.Sprintf("illustrations/%s.png", storyID)
	url, err := s.store.Put(ctx, storage.ContainerImages, key, imageData, "image/png")
	observeUpload(string(storage.ContainerImages), err)
	if err != nil {
		// Сгенерированные байты отбрасываются: временный URL поставщика наружу не уходит
		s.logger.Warn("Illustration upload failed, story will have no image",
			zap.String("story_id", storyID.String()), zap.Error(err))
		return nil
	}
	return &url
}

// generateAndStoreAudio выполняет конвейер озвучки: синтез -> загрузка.
func (s *storyServiceImpl) generateAndStoreAudio(ctx context.Context, storyID uuid.UUID, content string) *string {
	audioData, err := s.speechGen.Synthesize(ctx, content)
	if err != nil {
		s.logger.Warn("Speech synthesis failed, story will have no audio",
			zap.String("story_id", storyID.String()), zap.Error(err))
		return nil
	}

	key := fmt.Sprintf("narrations/%s.mp3", storyID)
	url, err := s.store.Put(ctx, storage.ContainerAudio, key, audioData, "audio/mpeg")
	observeUpload(string(storage.ContainerAudio), err)
	if err != nil {
		s.logger.Warn("Audio upload failed, story will have no audio",
			zap.String("story_id", storyID.String()), zap.Error(err))
		return nil
	}
	return &url
}

// storeStoryText загружает копию текста в хранилище. Неудача только логируется.
// Возвращает ключ загруженной копии (пустую строку при неудаче).
func (s *storyServiceImpl) storeStoryText(ctx context.Context, storyID uuid.UUID, content string) string {
	key := fmt.Sprintf("texts/%s.txt", storyID)
	_, err := s.store.Put(ctx, storage.ContainerStories, key, []byte(content), "text/plain; charset=utf-8")
	observeUpload(string(storage.ContainerStories), err)
	if err != nil {
		s.logger.Warn("Failed to upload story text copy",
			zap.String("story_id", storyID.String()), zap.Error(err))
		return ""
	}
	return key
}

// GetStory возвращает историю по ID со свежими ссылками на артефакты.
func (s *storyServiceImpl) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshArtifactURLs(ctx, story)
	return story, nil
}

// ListStories возвращает все истории (новые первыми) со свежими ссылками на артефакты.
func (s *storyServiceImpl) ListStories(ctx context.Context) ([]models.Story, error) {
	stories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stories {
		s.refreshArtifactURLs(ctx, &stories[i])
	}
	return stories, nil
}

// refreshArtifactURLs перевыпускает подписи сохраненных ссылок на артефакты.
// Сохраненная ссылка ограничена сроком действия подписи, поэтому каждое
// чтение выдает свежую. При неудаче остается сохраненная ссылка.
func (s *storyServiceImpl) refreshArtifactURLs(ctx context.Context, story *models.Story) {
	story.ImageURL = s.refreshURL(ctx, story.ID, story.ImageURL)
	story.AudioURL = s.refreshURL(ctx, story.ID, story.AudioURL)
}

func (s *storyServiceImpl) refreshURL(ctx context.Context, storyID uuid.UUID, rawURL *string) *string {
	if rawURL == nil || *rawURL == "" {
		return rawURL
	}
	container, key, ok := s.store.KeyFromURL(*rawURL)
	if !ok {
		s.logger.Warn("Could not resolve artifact key from URL",
			zap.String("story_id", storyID.String()), zap.String("url", *rawURL))
		return rawURL
	}
	fresh, err := s.store.PresignURL(ctx, container, key)
	if err != nil {
		s.logger.Warn("Failed to refresh artifact URL",
			zap.String("story_id", storyID.String()),
			zap.String("container", string(container)),
			zap.String("key", key),
			zap.Error(err),
		)
		return rawURL
	}
	return &fresh
}

// DeleteStory удаляет запись истории и best-effort - ее артефакты.
func (s *storyServiceImpl) DeleteStory(ctx context.Context, id uuid.UUID) error {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Сначала запись: для вызывающего история считается удаленной,
	// даже если артефакты удалить не удалось
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteArtifact(ctx, id, story.ImageURL)
	s.deleteArtifact(ctx, id, story.AudioURL)

	// Ключ текстовой копии детерминирован и не хранится в записи
	textKey := fmt.Sprintf("texts/%s.txt", id)
	if err := s.store.Delete(ctx, storage.ContainerStories, textKey); err != nil {
		s.logger.Warn("Failed to delete story text copy",
			zap.String("story_id", id.String()), zap.Error(err))
	}
	return nil
}

// deleteArtifact best-effort удаляет артефакт по сохраненной ссылке.
func (s *storyServiceImpl) deleteArtifact(ctx context.Context, storyID uuid.UUID, rawURL *string) {
	if rawURL == nil || *rawURL == "" {
		return
	}
	container, key, ok := s.store.KeyFromURL(*rawURL)
	if !ok {
		s.logger.Warn("Could not resolve artifact key from URL",
			zap.String("story_id", storyID.String()), zap.String("url", *rawURL))
		return
	}
	if err := s.store.Delete(ctx, container, key); err != nil {
		s.logger.Warn("Failed to delete artifact blob",
			zap.String("story_id", storyID.String()),
			zap.String("container", string(container)),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// ToggleFavorite инвертирует флаг избранного.
func (s *storyServiceImpl) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ToggleFavorite(ctx, id)
}

// RegenerateIllustration заново выполняет только конвейер иллюстрации.
func (s *storyServiceImpl) RegenerateIllustration(ctx context.Context, id uuid.UUID) (*string, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("story_id", id.String()))

	imageData, err := s.imageGen.GenerateIllustration(ctx, story.Title, story.Theme, story.Characters, story.AgeGroup)
	if err != nil {
		// Неудачная регенерация никогда не обнуляет существующую ссылку
		log.Warn("Illustration regeneration failed, keeping existing image", zap.Error(err))
		return s.refreshURL(ctx, id, story.ImageURL), nil
	}

	// Новый ключ, чтобы закэшированные клиенты не увидели старую картинку
	key := fmt.Sprintf("illustrations/%s.png", uuid.New())
	newURL, err := s.store.Put(ctx, storage.ContainerImages, key, imageData, "image/png")
	observeUpload(string(storage.ContainerImages), err)
	if err != nil {
		log.Warn("Regenerated illustration upload failed, keeping existing image", zap.Error(err))
		return s.refreshURL(ctx, id, story.ImageURL), nil
	}

	if err := s.repo.UpdateImageURL(ctx, id, &newURL); err != nil {
		log.Error("Failed to persist regenerated image URL", zap.Error(err))
		return nil, err
	}

	// Старый блоб удаляем только после успешной замены ссылки
	s.deleteArtifact(ctx, id, story.ImageURL)

	log.Info("Illustration regenerated")
	return &newURL, nil
}

// SynthesizeSpeech озвучивает произвольный текст.
func (s *storyServiceImpl) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return s.speechGen.Synthesize(ctx, text)
}

// validateRequest проверяет обязательные поля запроса.
func validateRequest(req models.StoryRequest) error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(req.Theme) == "" {
		missing = append(missing, "theme")
	}
	if req.Characters == nil {
		missing = append(missing, "characters")
	}
	if strings.TrimSpace(req.AgeGroup) == "" {
		missing = append(missing, "age_group")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
