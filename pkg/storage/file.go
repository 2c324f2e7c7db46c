package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
)

// File writes the quote as a single JSON object to a file on disk.
type File struct {
	path string
}

// NewFile returns a File sink writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

func configuredFile() *File {
	path := lflag.String("quote-output", "quote.json", "Path of the file the quote is written to")

	f := &File{}
	lflag.Do(func() {
		f.path = *path
	})
	return f
}

// Validate checks if the sink is properly configured.
func (f *File) Validate() error {
	if f.path == "" {
		return fmt.Errorf("quote-output is required")
	}
	return nil
}

// Path returns where the quote is written.
func (f *File) Path() string {
	return f.path
}

// WriteQuote implements Sink. The quote is written to a temporary file in the
// same directory and renamed over the destination so readers never observe a
// partial record.
func (f *File) WriteQuote(ctx context.Context, in types.Inputs, q types.Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	// no-op once the rename succeeded
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write quote: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close quote file: %w", err)
	}
	// CreateTemp uses 0600
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod quote file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to move quote into place: %w", err)
	}

	log.Ctx(ctx).DebugContext(ctx, "wrote quote", slog.String("path", f.path), slog.Int("bytes", len(b)))
	return nil
}

// Close implements Sink.
func (f *File) Close() error {
	return nil
}
