package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	dom "github.com/sumit2409/Zenflow/internal/domain"
)

// FileStore implements Store over a single JSON document on disk. Every
// operation is read-entire-file, mutate, atomic rewrite, serialized behind
// one mutex. This does not scale past one process at low request volume;
// it exists so the server still works without MongoDB.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDoc struct {
	Accounts map[string]fileAccount                   `json:"accounts"`
	Logs     map[string]map[string]map[string]float64 `json:"logs"`
	Meta     map[string]map[string]any                `json:"meta"`
}

type fileAccount struct {
	PasswordHash string `json:"password"`
	Created      int64  `json:"created"` // unix millis
}

func openFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(emptyDoc()); err != nil {
			return nil, fmt.Errorf("create data file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	return s, nil
}

func emptyDoc() *fileDoc {
	return &fileDoc{
		Accounts: map[string]fileAccount{},
		Logs:     map[string]map[string]map[string]float64{},
		Meta:     map[string]map[string]any{},
	}
}

func (s *FileStore) load() (*fileDoc, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		// No automatic repair; the request that hits this fails.
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if doc.Accounts == nil {
		doc.Accounts = map[string]fileAccount{}
	}
	if doc.Logs == nil {
		doc.Logs = map[string]map[string]map[string]float64{}
	}
	if doc.Meta == nil {
		doc.Meta = map[string]map[string]any{}
	}
	return &doc, nil
}

func (s *FileStore) save(doc *fileDoc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (s *FileStore) CreateAccount(_ context.Context, username, passwordHash string) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return dom.Account{}, err
	}
	if _, ok := doc.Accounts[username]; ok {
		return dom.Account{}, ErrAccountExists
	}
	now := time.Now()
	doc.Accounts[username] = fileAccount{PasswordHash: passwordHash, Created: now.UnixMilli()}
	if err := s.save(doc); err != nil {
		return dom.Account{}, err
	}
	return dom.Account{Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *FileStore) GetAccount(_ context.Context, username string) (dom.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return dom.Account{}, err
	}
	acc, ok := doc.Accounts[username]
	if !ok {
		return dom.Account{}, ErrAccountNotFound
	}
	return dom.Account{
		Username:     username,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    time.UnixMilli(acc.Created),
	}, nil
}

func (s *FileStore) ListLogs(_ context.Context, username string) ([]dom.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := []dom.LogEntry{}
	for date, types := range doc.Logs[username] {
		for typ, value := range types {
			entries = append(entries, dom.LogEntry{Username: username, Date: date, Type: typ, Value: value})
		}
	}
	return entries, nil
}

func (s *FileStore) UpsertLog(_ context.Context, entry dom.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Logs[entry.Username] == nil {
		doc.Logs[entry.Username] = map[string]map[string]float64{}
	}
	if doc.Logs[entry.Username][entry.Date] == nil {
		doc.Logs[entry.Username][entry.Date] = map[string]float64{}
	}
	doc.Logs[entry.Username][entry.Date][entry.Type] = entry.Value
	return s.save(doc)
}

func (s *FileStore) GetMeta(_ context.Context, username string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	meta, ok := doc.Meta[username]
	if !ok || meta == nil {
		return map[string]any{}, nil
	}
	return meta, nil
}

func (s *FileStore) SetMeta(_ context.Context, username string, meta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if meta == nil {
		meta = map[string]any{}
	}
	doc.Meta[username] = meta
	return s.save(doc)
}

func (s *FileStore) Close(_ context.Context) error {
	return nil
}
