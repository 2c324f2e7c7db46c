package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/types"
)

// ErrQuoteNotFound is returned when no quote was stored for the inputs.
var ErrQuoteNotFound = errors.New("quote not found")

// Sink persists the quote produced by a run.
type Sink interface {
	// WriteQuote stores q, replacing any quote previously stored for in.
	// Either the whole record is written or nothing is.
	WriteQuote(ctx context.Context, in types.Inputs, q types.Quote) error

	// Lifecycle
	Close() error
}

// Configured sets up the Sink based on flags.
func Configured() Sink {
	provider := lflag.String("storage-provider", "file", "Where to write the quote (available: file, firestore)")

	var p struct{ Sink }

	file := configuredFile()
	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "file":
			if err := file.Validate(); err != nil {
				panic(fmt.Sprintf("file validation failed: %v", err))
			}
			p.Sink = file
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
			p.Sink = fs
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
