// Package history keeps a local log of generated commit messages.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxEntries is the default maximum number of history entries.
const DefaultMaxEntries = 1000

// ErrEntryNotFound is returned when an entry ID is not in the history.
var ErrEntryNotFound = errors.New("history entry not found")

// Entry is one generated commit message.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Message      string    `json:"message"`
	Repository   string    `json:"repository,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	DiffSummary  string    `json:"diff_summary"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	StopReason   string    `json:"stop_reason,omitempty"`
	InputTokens  int       `json:"input_tokens,omitempty"`
	OutputTokens int       `json:"output_tokens,omitempty"`
	Incomplete   bool      `json:"incomplete,omitempty"`
	Committed    bool      `json:"committed"`
}

// Manager defines the interface for history management.
type Manager interface {
	Save(entry *Entry) error
	MarkCommitted(id string) error
	List(limit int) ([]*Entry, error)
	Clear() error
}

// FileManager stores history as a JSON array in a single file.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a FileManager. Non-positive maxEntries uses DefaultMaxEntries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Save appends entry, filling in a UUID and timestamp when missing.
// The oldest entries are dropped once maxEntries is exceeded.
func (m *FileManager) Save(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := m.loadEntries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	if err := m.saveEntries(entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// MarkCommitted flags the entry with id as committed.
func (m *FileManager) MarkCommitted(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	for _, e := range entries {
		if e.ID == id {
			e.Committed = true
			return m.saveEntries(entries)
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// List returns the most recent entries, oldest first. A non-positive limit returns all.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil
	}
	return entries[len(entries)-limit:], nil
}

// Clear removes all entries.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveEntries([]*Entry{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// loadEntries reads the history file. A missing file is an empty history.
func (m *FileManager) loadEntries() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*Entry{}, nil
		}
		return nil, err
	}

	entries := []*Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return entries, nil
}

// saveEntries replaces the history file through a temp file and rename.
func (m *FileManager) saveEntries(entries []*Entry) error {
	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	// CreateTemp already uses 0600
	if err := os.Rename(tmp.Name(), m.filePath); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
