package lockout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
)

// stateFile is the on-disk shape. Epoch millis keeps the value format shared
// with the frontend's persisted state.
type stateFile struct {
	FailedAttempts    int   `json:"failed_attempts"`
	LockoutUntilMilli int64 `json:"lockout_until_ms,omitempty"`
}

// FileStore persists attempt state as a small JSON file. Writes go through a
// temp file and rename so a crash never leaves a half-written state behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path, creating parent directories as
// needed.
func NewFileStore(path string) (*FileStore, humane.Error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, humane.Wrap(err, "failed to create lockout state directory", "check permissions on the state directory")
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the state file.
func (f *FileStore) Path() string { return f.path }

// Load reads the persisted state. A missing file, unreadable file, or
// malformed content all recover as the zero state.
func (f *FileStore) Load() State {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return State{}
	}

	var raw stateFile
	if err := json.Unmarshal(data, &raw); err != nil {
		otelzap.L().Warn("corrupt lockout state file, resetting to zero")
		return State{}
	}

	if raw.FailedAttempts < 0 {
		return State{}
	}

	state := State{FailedCount: raw.FailedAttempts}
	if raw.LockoutUntilMilli > 0 {
		state.LockedUntil = time.UnixMilli(raw.LockoutUntilMilli)
	}
	return state
}

// Save writes the state atomically.
func (f *FileStore) Save(state State) error {
	raw := stateFile{FailedAttempts: state.FailedCount}
	if !state.LockedUntil.IsZero() {
		raw.LockoutUntilMilli = state.LockedUntil.UnixMilli()
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
