package storage

import (
	"context"
	"errors"
	"log"
	"time"

	dom "github.com/sumit2409/Zenflow/internal/domain"
)

var ErrAccountExists = errors.New("account already exists")
var ErrAccountNotFound = errors.New("account not found")

// Store is the persistence interface shared by both backends. Business logic
// never branches on which implementation is behind it.
type Store interface {
	// CreateAccount inserts a new account. Returns ErrAccountExists if the
	// username is taken; at most one concurrent create per username succeeds.
	CreateAccount(ctx context.Context, username, passwordHash string) (dom.Account, error)
	// GetAccount returns the account or ErrAccountNotFound.
	GetAccount(ctx context.Context, username string) (dom.Account, error)

	// ListLogs returns all log entries for the user, unordered.
	ListLogs(ctx context.Context, username string) ([]dom.LogEntry, error)
	// UpsertLog writes or overwrites the (username, date, type) entry.
	UpsertLog(ctx context.Context, entry dom.LogEntry) error

	// GetMeta returns the stored blob, or an empty map if none exists.
	GetMeta(ctx context.Context, username string) (map[string]any, error)
	// SetMeta replaces the entire stored blob for the user.
	SetMeta(ctx context.Context, username string, meta map[string]any) error

	Close(ctx context.Context) error
}

// Options selects and configures the backend.
type Options struct {
	// MongoURI empty means skip MongoDB and go straight to the file backend.
	MongoURI       string
	MongoDB        string
	ConnectTimeout time.Duration

	// FilePath is the JSON document used by the fallback backend.
	FilePath string
}

// Open picks the backend once for the process lifetime: one bounded MongoDB
// connection attempt, then permanent fallback to the file store. The decision
// is never revisited or retried.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.MongoURI != "" {
		ms, err := openMongo(ctx, opts.MongoURI, opts.MongoDB, opts.ConnectTimeout)
		if err == nil {
			log.Printf("storage: connected to MongoDB")
			return ms, nil
		}
		log.Printf("storage: MongoDB connection failed, falling back to file storage: %v", err)
	}
	fs, err := openFile(opts.FilePath)
	if err != nil {
		// No durable store would otherwise exist.
		return nil, err
	}
	log.Printf("storage: using file storage at %s", opts.FilePath)
	return fs, nil
}
