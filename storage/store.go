package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semchem/record"
)

// Default bucket settings.
const (
	DefaultBucket  = "SEMCHEM_RECORDS"
	DefaultHistory = 5
)

// KeyValue is the subset of jetstream.KeyValue used by Store.
type KeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Store provides record storage backed by NATS KV.
type Store struct {
	kv          KeyValue
	bucket      string
	history     int
	retryConfig RetryConfig
	logger      *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBucket sets the bucket name and the revisions it keeps per key.
func WithBucket(name string, history int) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.bucket = name
		}
		if history > 0 {
			s.history = history
		}
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) StoreOption {
	return func(s *Store) { s.retryConfig = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

func newStore(opts []StoreOption) *Store {
	s := &Store{
		bucket:      DefaultBucket,
		history:     DefaultHistory,
		retryConfig: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// NewStore opens the record bucket, creating it when it does not exist.
func NewStore(ctx context.Context, js jetstream.JetStream, opts ...StoreOption) (*Store, error) {
	s := newStore(opts)
	kv, err := getOrCreateBucket(ctx, js, s.bucket, s.history)
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", s.bucket, err)
	}
	s.kv = kv
	return s, nil
}

// NewStoreWithKV creates a Store over an open bucket.
func NewStoreWithKV(kv KeyValue, opts ...StoreOption) *Store {
	s := newStore(opts)
	s.kv = kv
	return s
}

// Connect dials the NATS server at url and opens the record bucket. The
// returned close function drains the connection.
func Connect(ctx context.Context, url string, opts ...StoreOption) (*Store, func(), error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	store, err := NewStore(ctx, js, opts...)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := conn.Drain(); err != nil {
			conn.Close()
		}
	}
	return store, closeFn, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string, history int) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Semchem %s storage", strings.ToLower(name)),
		History:     uint8(history),
	})
}

// Put stores rec as found in document docID and returns its ID.
func (s *Store) Put(ctx context.Context, docID string, rec *record.Record) (EntityID, error) {
	stored := NewStoredRecord(docID, rec)
	id, _ := ParseEntityID(stored.ID)

	data, err := json.Marshal(stored)
	if err != nil {
		return EntityID{}, fmt.Errorf("marshal record: %w", err)
	}
	err = s.retry(ctx, "put", func() error {
		_, err := s.kv.Put(ctx, id.ID, data)
		return err
	})
	if err != nil {
		return EntityID{}, fmt.Errorf("store record: %w", err)
	}

	s.logger.Debug("Stored record", "id", stored.ID, "document", docID, "schema", stored.Schema)
	return id, nil
}

// PutAll stores every record of list.
func (s *Store) PutAll(ctx context.Context, docID string, list record.List) ([]EntityID, error) {
	ids := make([]EntityID, 0, len(list))
	for _, rec := range list {
		id, err := s.Put(ctx, docID, rec)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get retrieves a stored record by ID.
func (s *Store) Get(ctx context.Context, id EntityID) (*StoredRecord, error) {
	if id.Type != EntityTypeRecord {
		return nil, fmt.Errorf("%w: expected record, got %s", ErrInvalidID, id.Type)
	}
	return s.get(ctx, id.ID)
}

func (s *Store) get(ctx context.Context, key string) (*StoredRecord, error) {
	var entry jetstream.KeyValueEntry
	err := s.retry(ctx, "get", func() error {
		var err error
		entry, err = s.kv.Get(ctx, key)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	var stored StoredRecord
	if err := json.Unmarshal(entry.Value(), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &stored, nil
}

// List returns every stored record, oldest first.
func (s *Store) List(ctx context.Context) ([]*StoredRecord, error) {
	var keys []string
	err := s.retry(ctx, "keys", func() error {
		var err error
		keys, err = s.kv.Keys(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list record keys: %w", err)
	}

	out := make([]*StoredRecord, 0, len(keys))
	for _, key := range keys {
		stored, err := s.get(ctx, key)
		if err != nil {
			s.logger.Warn("Skipped unreadable record", "key", key, "error", err)
			continue
		}
		out = append(out, stored)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StoredAt.Equal(out[j].StoredAt) {
			return out[i].StoredAt.Before(out[j].StoredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListByDocument returns the stored records of one document.
func (s *Store) ListByDocument(ctx context.Context, docID string) ([]*StoredRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*StoredRecord
	for _, stored := range all {
		if stored.DocumentID == docID {
			out = append(out, stored)
		}
	}
	return out, nil
}

// Delete removes a stored record.
func (s *Store) Delete(ctx context.Context, id EntityID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.retry(ctx, "delete", func() error {
		return s.kv.Delete(ctx, id.ID)
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
