package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"songcraft/internal/song"
)

const timestampLayout = "20060102-150405"

// Store keeps generated songs somewhere they can be listed later.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	List(ctx context.Context) ([]string, error)
}

// SaveSong writes the song as <slug>-<timestamp>.json and .md and returns
// the locations of both files.
func SaveSong(ctx context.Context, store Store, result *song.Result, now time.Time) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("save song: nil result")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode song: %w", err)
	}

	base := fmt.Sprintf("%s-%s", song.Slug(result.Title), now.Format(timestampLayout))

	jsonPath, err := store.Save(ctx, base+".json", append(data, '\n'))
	if err != nil {
		return nil, err
	}
	mdPath, err := store.Save(ctx, base+".md", []byte(result.Markdown()))
	if err != nil {
		return nil, err
	}

	return []string{jsonPath, mdPath}, nil
}
