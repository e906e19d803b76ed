package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skazka-server/internal/models"
)

// Compile-time check
var _ StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgStoryRepository создает репозиторий историй поверх PostgreSQL.
func NewPgStoryRepository(db DBTX, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

const storyColumns = `id, title, content, theme, characters, age_group, is_favorite, image_url, audio_url, created_at`

// Create - Реализация метода Create.
func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
        INSERT INTO stories
            (id, title, content, theme, characters, age_group, is_favorite, image_url, audio_url, created_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	logFields := []zap.Field{zap.String("storyID", story.ID.String())}
	r.logger.Debug("Creating story", logFields...)

	// Персонажи сериализуются в jsonb: порядок элементов сохраняется при чтении
	charactersJSON, err := json.Marshal(story.Characters)
	if err != nil {
		return fmt.Errorf("ошибка сериализации персонажей: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Content,
		story.Theme,
		charactersJSON,
		story.AgeGroup,
		story.IsFavorite,
		story.ImageURL,
		story.AudioURL,
		story.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания истории: %w", err)
	}
	r.logger.Info("Story created successfully", logFields...)
	return nil
}

// GetByID - Реализация метода GetByID.
func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`
	logFields := []zap.Field{zap.String("storyID", id.String())}
	r.logger.Debug("Getting story by ID", logFields...)

	story, err := scanStory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	return story, nil
}

// List - Реализация метода List.
func (r *pgStoryRepository) List(ctx context.Context) ([]models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories ORDER BY created_at DESC`
	r.logger.Debug("Listing stories")

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка историй: %w", err)
	}
	defer rows.Close()

	stories := make([]models.Story, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			r.logger.Error("Failed to scan story row", zap.Error(err))
			return nil, fmt.Errorf("ошибка чтения строки истории: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по историям: %w", err)
	}
	return stories, nil
}

// Delete - Реализация метода Delete.
func (r *pgStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM stories WHERE id = $1`
	logFields := []zap.Field{zap.String("storyID", id.String())}

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления истории: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for deletion", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Story deleted", logFields...)
	return nil
}

// ToggleFavorite - Реализация метода ToggleFavorite.
// Одиночный UPDATE сериализует конкурентные переключения на уровне строки.
func (r *pgStoryRepository) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE stories SET is_favorite = NOT is_favorite WHERE id = $1 RETURNING is_favorite`
	logFields := []zap.Field{zap.String("storyID", id.String())}

	var isFavorite bool
	err := r.db.QueryRow(ctx, query, id).Scan(&isFavorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story not found for favorite toggle", logFields...)
			return false, models.ErrNotFound
		}
		r.logger.Error("Failed to toggle favorite", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("ошибка переключения избранного: %w", err)
	}
	r.logger.Info("Favorite toggled", append(logFields, zap.Bool("isFavorite", isFavorite))...)
	return isFavorite, nil
}

// UpdateImageURL - Реализация метода UpdateImageURL.
func (r *pgStoryRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL *string) error {
	return r.updateURL(ctx, id, "image_url", imageURL)
}

// UpdateAudioURL - Реализация метода UpdateAudioURL.
func (r *pgStoryRepository) UpdateAudioURL(ctx context.Context, id uuid.UUID, audioURL *string) error {
	return r.updateURL(ctx, id, "audio_url", audioURL)
}

func (r *pgStoryRepository) updateURL(ctx context.Context, id uuid.UUID, column string, value *string) error {
	// column задается только из UpdateImageURL/UpdateAudioURL, не из пользовательского ввода
	query := fmt.Sprintf(`UPDATE stories SET %s = $1 WHERE id = $2`, column)
	logFields := []zap.Field{zap.String("storyID", id.String()), zap.String("column", column)}

	tag, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		r.logger.Error("Failed to update artifact URL", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления ссылки артефакта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// scanStory читает одну строку таблицы stories в модель.
func scanStory(row pgx.Row) (*models.Story, error) {
	var (
		story          models.Story
		charactersJSON []byte
	)
	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Content,
		&story.Theme,
		&charactersJSON,
		&story.AgeGroup,
		&story.IsFavorite,
		&story.ImageURL,
		&story.AudioURL,
		&story.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(charactersJSON) > 0 {
		if err := json.Unmarshal(charactersJSON, &story.Characters); err != nil {
			return nil, fmt.Errorf("ошибка десериализации персонажей: %w", err)
		}
	}
	if story.Characters == nil {
		story.Characters = []string{}
	}
	return &story, nil
}
