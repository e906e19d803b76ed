package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"skazka-server/internal/models"
)

// DBTX - минимальный интерфейс над pgxpool.Pool / pgx.Tx, используемый репозиториями.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoryRepository определяет операции над записями историй.
type StoryRepository interface {
	// Create вставляет новую запись истории одной атомарной операцией.
	Create(ctx context.Context, story *models.Story) error
	// GetByID возвращает историю по ID или models.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	// List возвращает все истории, отсортированные по дате создания (новые первыми).
	List(ctx context.Context) ([]models.Story, error)
	// Delete удаляет запись истории. Для неизвестного ID - models.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleFavorite атомарно инвертирует флаг избранного и возвращает новое значение.
	ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error)
	// UpdateImageURL заменяет ссылку на иллюстрацию (nil допустим).
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL *string) error
	// UpdateAudioURL заменяет ссылку на озвучку (nil допустим).
	UpdateAudioURL(ctx context.Context, id uuid.UUID, audioURL *string) error
}
