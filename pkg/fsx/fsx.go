package fsx

import (
	"context"
	"io"
)

// FileReader reads files from a storage backend.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileWriter writes and removes files on a storage backend.
type FileWriter interface {
	WriteFileStream(ctx context.Context, path string, reader io.Reader) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is the full storage contract used by upload flows.
type FileSystem interface {
	FileReader
	FileWriter

	// Join builds a backend-native path from segments.
	Join(parts ...string) string
}
