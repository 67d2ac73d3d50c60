package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// FileStorage persists run artifacts: intermediate JSON dumps and archived uploads.
type FileStorage interface {
	// Upload writes a file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)
}

// WriteJSON stores v as an indented JSON document at path.
func WriteJSON(ctx context.Context, s FileStorage, path string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return s.Upload(ctx, &buf, path)
}
