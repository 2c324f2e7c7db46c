package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const quotesCollection = "quotes"

// Firestore implements Sink using Google Cloud Firestore. Each quote is stored
// as a JSON blob in the "quotes" collection keyed by its inputs.
type Firestore struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore registers the firestore-* flags and returns a sink that
// picks them up once lflag.Configure runs. The client is created by Init.
func configuredFirestore() *Firestore {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &Firestore{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// the client library only looks at the environment for the emulator
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate always succeeds; an empty project ID is detected from the
// environment by Init.
func (f *Firestore) Validate() error {
	return nil
}

// Init dials Firestore. WriteQuote and GetQuote panic if it has not succeeded.
func (f *Firestore) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close implements Sink. It is safe to call when Init never ran.
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// quoteDocID builds a document ID from the inputs. Firestore IDs cannot
// contain "/" which FormatFloat never emits.
func quoteDocID(in types.Inputs) string {
	return strings.Join([]string{
		strconv.FormatFloat(in.Latitude, 'f', -1, 64),
		strconv.FormatFloat(in.Longitude, 'f', -1, 64),
		strconv.FormatFloat(in.MonthlyBill, 'f', -1, 64),
	}, "_")
}

// WriteQuote implements Sink. Set replaces the whole document.
func (f *Firestore) WriteQuote(ctx context.Context, in types.Inputs, q types.Quote) error {
	jsonBytes, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}
	docID := quoteDocID(in)
	_, err = f.client.Collection(quotesCollection).Doc(docID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"latitude":  in.Latitude,
		"longitude": in.Longitude,
		"bill":      in.MonthlyBill,
	})
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "saved quote to firestore", slog.String("docID", docID))
	return nil
}

// GetQuote reads back the quote WriteQuote stored for in, so a run against the
// emulator can confirm the document round-trips. ErrQuoteNotFound means no
// quote was ever written for in.
func (f *Firestore) GetQuote(ctx context.Context, in types.Inputs) (types.Quote, error) {
	docID := quoteDocID(in)
	doc, err := f.client.Collection(quotesCollection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Quote{}, ErrQuoteNotFound
		}
		return types.Quote{}, fmt.Errorf("failed to fetch quote doc: %w", err)
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "quote doc missing json", slog.String("docID", docID))
		return types.Quote{}, fmt.Errorf("quote document %s missing 'json' field: %w", docID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		return types.Quote{}, fmt.Errorf("quote document %s 'json' field is not a string", docID)
	}

	var q types.Quote
	if err := json.Unmarshal([]byte(jsonStr), &q); err != nil {
		return types.Quote{}, fmt.Errorf("failed to unmarshal quote (id=%s): %w", docID, err)
	}
	return q, nil
}
