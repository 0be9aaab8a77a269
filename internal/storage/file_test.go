package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/sumit2409/Zenflow/internal/domain"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := openFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return s
}

func TestFileStore_InitializesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	_, err := openFile(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "accounts")
	assert.Contains(t, doc, "logs")
	assert.Contains(t, doc, "meta")
}

func TestFileStore_CreateAndGetAccount(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	acc, err := s.CreateAccount(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.False(t, acc.CreatedAt.IsZero())

	got, err := s.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash1", got.PasswordHash)

	_, err = s.GetAccount(ctx, "bob")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = s.CreateAccount(ctx, "alice", "hash2")
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestFileStore_ConcurrentRegistrationSingleWinner(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateAccount(ctx, "alice", "hash")
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		default:
			require.ErrorIs(t, err, ErrAccountExists)
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
}

func TestFileStore_UpsertLogOverwrites(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	entry := dom.LogEntry{Username: "alice", Date: "2024-01-01", Type: "steps", Value: 500}
	require.NoError(t, s.UpsertLog(ctx, entry))

	entry.Value = 800
	require.NoError(t, s.UpsertLog(ctx, entry))

	logs, err := s.ListLogs(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, dom.LogEntry{Username: "alice", Date: "2024-01-01", Type: "steps", Value: 800}, logs[0])
}

func TestFileStore_DistinctKeysStayDistinct(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	want := map[string]float64{}
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	types := []string{"pomodoro", "meditation", "steps"}
	for _, d := range dates {
		for _, typ := range types {
			v := float64(len(d) + len(typ))
			want[d+"/"+typ] = v
			require.NoError(t, s.UpsertLog(ctx, dom.LogEntry{Username: "alice", Date: d, Type: typ, Value: v}))
		}
	}

	logs, err := s.ListLogs(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, logs, len(want))
	for _, e := range logs {
		assert.Equal(t, want[e.Date+"/"+e.Type], e.Value)
	}

	// Other users see nothing.
	logs, err = s.ListLogs(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestFileStore_MetaReplaceNotMerge(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	meta, err := s.GetMeta(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, meta)

	require.NoError(t, s.SetMeta(ctx, "alice", map[string]any{"a": 1.0}))
	require.NoError(t, s.SetMeta(ctx, "alice", map[string]any{"b": 2.0}))

	meta, err = s.GetMeta(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 2.0}, meta)
}

func TestFileStore_ConcurrentSetMetaNoTornWrite(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	first := map[string]any{"x": 1.0}
	second := map[string]any{"y": 2.0}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, m := range []map[string]any{first, second} {
		wg.Add(1)
		go func(i int, m map[string]any) {
			defer wg.Done()
			errs[i] = s.SetMeta(ctx, "alice", m)
		}(i, m)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	meta, err := s.GetMeta(ctx, "alice")
	require.NoError(t, err)
	// One write wins wholesale; never a merge of both.
	if _, ok := meta["x"]; ok {
		assert.Equal(t, first, meta)
	} else {
		assert.Equal(t, second, meta)
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s, err := openFile(path)
	require.NoError(t, err)
	_, err = s.CreateAccount(ctx, "alice", "hash")
	require.NoError(t, err)
	require.NoError(t, s.UpsertLog(ctx, dom.LogEntry{Username: "alice", Date: "2024-01-01", Type: "steps", Value: 500}))

	reopened, err := openFile(path)
	require.NoError(t, err)
	_, err = reopened.GetAccount(ctx, "alice")
	require.NoError(t, err)
	logs, err := reopened.ListLogs(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestFileStore_CorruptFileFailsRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := openFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	ctx := context.Background()
	_, err = s.GetAccount(ctx, "alice")
	require.Error(t, err)
	_, err = s.ListLogs(ctx, "alice")
	require.Error(t, err)
	require.Error(t, s.SetMeta(ctx, "alice", map[string]any{"a": 1.0}))
}

func TestOpen_FallsBackToFileWithoutMongo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := Open(context.Background(), Options{FilePath: path})
	require.NoError(t, err)
	_, ok := store.(*FileStore)
	assert.True(t, ok)
}

func TestOpen_FallsBackToFileWhenMongoUnreachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	// Port 1 refuses connections; the bounded attempt fails and the selector
	// settles on the file backend, initializing its document.
	store, err := Open(context.Background(), Options{
		MongoURI:       "mongodb://127.0.0.1:1",
		MongoDB:        "zenflow",
		ConnectTimeout: 250 * time.Millisecond,
		FilePath:       path,
	})
	require.NoError(t, err)
	_, ok := store.(*FileStore)
	assert.True(t, ok)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
