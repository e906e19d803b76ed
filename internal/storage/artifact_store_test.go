package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skazka-server/internal/config"
	"skazka-server/internal/storage"
)

func newTestStore(t *testing.T) storage.ArtifactStore {
	t.Helper()

	store, err := storage.NewMinioStore(config.StorageConfig{
		Endpoint:         "localhost:9000",
		AccessKey:        "minioadmin",
		SecretKey:        "minioadmin",
		StoriesBucket:    "stories",
		ImagesBucket:     "images",
		AudioBucket:      "audio",
		URLExpiry:        time.Hour,
		OperationTimeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestKeyFromURL(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name          string
		url           string
		wantContainer storage.Container
		wantKey       string
		wantOK        bool
	}{
		{
			name:          "image url with presigned query",
			url:           "http://localhost:9000/images/illustrations/abc.png?X-Amz-Signature=deadbeef&X-Amz-Expires=604800",
			wantContainer: storage.ContainerImages,
			wantKey:       "illustrations/abc.png",
			wantOK:        true,
		},
		{
			name:          "audio url",
			url:           "http://localhost:9000/audio/narrations/abc.mp3",
			wantContainer: storage.ContainerAudio,
			wantKey:       "narrations/abc.mp3",
			wantOK:        true,
		},
		{
			name:          "story text url",
			url:           "https://blobs.example.com/stories/texts/abc.txt",
			wantContainer: storage.ContainerStories,
			wantKey:       "texts/abc.txt",
			wantOK:        true,
		},
		{
			name:   "unknown bucket",
			url:    "http://localhost:9000/uploads/file.bin",
			wantOK: false,
		},
		{
			name:   "bucket without key",
			url:    "http://localhost:9000/images/",
			wantOK: false,
		},
		{
			name:   "not a url",
			url:    "://broken",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, key, ok := store.KeyFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantContainer, container)
				assert.Equal(t, tt.wantKey, key)
			}
		})
	}
}
