package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/vitrine/storage"
)

// Backend holds the BadgerDB instance behind the blob registry.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger routes Badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, items ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, items...)), "component", "badger")
}

func (l *badgerLogger) Warningf(msg string, items ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, items...)), "component", "badger")
}

func (l *badgerLogger) Infof(msg string, items ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)), "component", "badger")
}

func (l *badgerLogger) Debugf(msg string, items ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)), "component", "badger")
}

type backendConfig struct {
	logger      *slog.Logger
	inMemory    bool
	syncWrites  bool
	compression options.CompressionType
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendConfig)

// InMemory keeps the database in memory; the path is ignored.
func InMemory() BackendOption {
	return func(c *backendConfig) {
		c.inMemory = true
	}
}

// WithLogger sets the logger for the backend and Badger itself.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BackendOption {
	return func(c *backendConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSyncWrites fsyncs every commit. Off by default; a registry can always be
// republished from the build outputs.
func WithSyncWrites(sync bool) BackendOption {
	return func(c *backendConfig) {
		c.syncWrites = sync
	}
}

// WithCompression sets block compression. Default is options.None because blobs
// are written once and read whole.
func WithCompression(compression options.CompressionType) BackendOption {
	return func(c *backendConfig) {
		c.compression = compression
	}
}

// OpenBackend opens the registry database in the directory at filePath,
// creating it if needed.
func OpenBackend(filePath string, opts ...BackendOption) (*Backend, error) {
	cfg := &backendConfig{
		logger:      slog.Default(),
		compression: options.None,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	if !cfg.inMemory {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		dbOpts = badger.DefaultOptions(filePath)
	}
	dbOpts = dbOpts.
		WithLogger(&badgerLogger{logger: cfg.logger}).
		WithCompression(cfg.compression).
		WithSyncWrites(cfg.syncWrites)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open registry database: %w", err)
	}

	cfg.logger.Debug("opened registry database", "path", filePath, "in_memory", cfg.inMemory)
	return &Backend{
		db:     db,
		logger: cfg.logger,
	}, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WithTransaction executes a function within a transaction.
// Implements storage.Repository.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		// Execute the callback function
		if err := fn(ctx); err != nil {
			return err
		}
		// Commit the transaction
		return tx.Commit()
	}, true)
}

// getValue copies the value stored under key.
// Returns storage.ErrNotFound when the key is absent.
func getValue(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}
