package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore is a file-based session store for CLI applications.
// Sessions are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns ~/.config/routetrace/sessions.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "routetrace", "sessions"), nil
}

// NewFileStore creates a new file-based session store.
// If baseDir is empty, DefaultDir is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	path := s.sessionPath(id)
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	if sess.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Write then rename so a crash never leaves a half-written session.
	path := s.sessionPath(sess.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.sessionPath(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		if now.After(sess.ExpiresAt) {
			os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

// =============================================================================
// CLI workspace
// =============================================================================

// WorkspaceID is the id of the single session the CLI works on.
const WorkspaceID = "workspace"

// Workspace wraps a FileStore around the CLI's single session. Its lifetime
// is long because the CLI has no login to renew it.
type Workspace struct {
	store *FileStore
	ttl   time.Duration
}

// WorkspaceTTL is the lifetime of the CLI workspace, refreshed on each save.
const WorkspaceTTL = 30 * 24 * time.Hour

// NewWorkspace opens the workspace stored in dir (DefaultDir when empty).
func NewWorkspace(dir string, ttl time.Duration) (*Workspace, error) {
	store, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = WorkspaceTTL
	}
	return &Workspace{store: store, ttl: ttl}, nil
}

// Load returns the workspace session. It returns ErrNotFound until a graph
// has been created with Save.
func (w *Workspace) Load(ctx context.Context) (*Session, error) {
	return w.store.Get(ctx, WorkspaceID)
}

// Save stores sess as the workspace, refreshing its expiry.
func (w *Workspace) Save(ctx context.Context, sess *Session) error {
	sess.ID = WorkspaceID
	sess.Touch(w.ttl)
	return w.store.Set(ctx, sess)
}

// Reset removes the workspace.
func (w *Workspace) Reset(ctx context.Context) error {
	return w.store.Delete(ctx, WorkspaceID)
}

// TTL returns the lifetime applied on Save.
func (w *Workspace) TTL() time.Duration { return w.ttl }

// Path returns the workspace file path.
func (w *Workspace) Path() string {
	return w.store.sessionPath(WorkspaceID)
}
