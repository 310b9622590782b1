package main

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semchem/export"
	"github.com/c360studio/semchem/ingest"
	"github.com/c360studio/semchem/storage"
)

type kvEntry struct {
	jetstream.KeyValueEntry
	value []byte
}

func (e *kvEntry) Value() []byte { return e.value }

// fakeKV is an in-memory storage.KeyValue.
type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (f *fakeKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &kvEntry{value: v}, nil
}

func (f *fakeKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return uint64(len(f.data)), nil
}

func (f *fakeKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.data) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func TestWriteStored(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStoreWithKV(&fakeKV{data: make(map[string][]byte)})
	schemas, err := schemaRegistry()
	require.NoError(t, err)

	doc, err := ingest.Parse([]byte(paper))
	require.NoError(t, err)
	items, err := ingest.NewBuilder(schemas).Build(doc)
	require.NoError(t, err)
	for _, item := range items {
		_, err := store.Put(ctx, doc.ID, item.Record)
		require.NoError(t, err)
	}
	_, err = store.Put(ctx, "paper-2", items[1].Record)
	require.NoError(t, err)

	exp, err := export.New(export.FormatJSONL)
	require.NoError(t, err)
	var out bytes.Buffer
	n, err := writeStored(ctx, store, schemas, "", exp, &out, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
	assert.Contains(t, out.String(), `"document":"paper-2"`)

	out.Reset()
	n, err = writeStored(ctx, store, schemas, "paper-1", exp, &out, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotContains(t, out.String(), "paper-2")
	assert.Contains(t, out.String(), "MeltingPoint")
}

func TestRecordsCommandNeedsStorageURL(t *testing.T) {
	_, err := execute(t, "records")
	assert.ErrorContains(t, err, "storage.url")
}
