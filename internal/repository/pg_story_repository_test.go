package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow подставляет заранее заданные значения вместо строки pgx.
type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		panic("fakeRow: destination count mismatch")
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		case *string:
			*d = v.(string)
		case *[]byte:
			if v == nil {
				*d = nil
			} else {
				*d = v.([]byte)
			}
		case *bool:
			*d = v.(bool)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case *time.Time:
			*d = v.(time.Time)
		default:
			panic("fakeRow: unsupported destination type")
		}
	}
	return nil
}

func rowValues(id uuid.UUID, characters []byte) []any {
	return []any{
		id,
		"The Brave Duo",
		"Once upon a time...",
		"Adventure",
		characters,
		"5-8",
		false,
		"http://minio.local/images/illustrations/abc.png",
		nil, // audio_url
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestScanStory_CharactersKeepOrder(t *testing.T) {
	characters := []string{"Zoe", "Alba", "Mika"}
	raw, err := json.Marshal(characters)
	require.NoError(t, err)

	id := uuid.New()
	story, err := scanStory(&fakeRow{values: rowValues(id, raw)})
	require.NoError(t, err)

	assert.Equal(t, id, story.ID)
	assert.Equal(t, characters, story.Characters)
	assert.Equal(t, "The Brave Duo", story.Title)
	require.NotNil(t, story.ImageURL)
	assert.Nil(t, story.AudioURL)
}

func TestScanStory_EmptyCharacters(t *testing.T) {
	story, err := scanStory(&fakeRow{values: rowValues(uuid.New(), []byte(`[]`))})
	require.NoError(t, err)

	assert.NotNil(t, story.Characters)
	assert.Empty(t, story.Characters)
}

// NULL в колонке characters не должен ронять чтение.
func TestScanStory_NullCharacters(t *testing.T) {
	story, err := scanStory(&fakeRow{values: rowValues(uuid.New(), nil)})
	require.NoError(t, err)

	assert.Equal(t, []string{}, story.Characters)
}

func TestScanStory_MalformedCharacters(t *testing.T) {
	_, err := scanStory(&fakeRow{values: rowValues(uuid.New(), []byte(`{broken`))})
	assert.Error(t, err)
}
