package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrz1836/relock/internal/errors"
)

// Holder identifies the owner of a lock file.
type Holder struct {
	ID         string    `json:"id"`
	PID        int       `json:"pid"`
	Host       string    `json:"host"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Age returns how long the holder has held the lock as of now.
func (h *Holder) Age(now time.Time) time.Duration {
	return now.Sub(h.AcquiredAt)
}

func newHolder(id string, now time.Time) Holder {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Holder{
		ID:         id,
		PID:        os.Getpid(),
		Host:       host,
		AcquiredAt: now.UTC(),
	}
}

// writeHolder replaces the file content with the record.
func writeHolder(f *os.File, h Holder) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal holder record: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("failed to write holder record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync lock file: %w", err)
	}
	return nil
}

// ReadHolder returns the holder record of the lock file at path.
// It returns ErrNoHolder when the lock is free.
func ReadHolder(path string) (*Holder, error) {
	f, err := os.Open(path) // #nosec G304 -- path is built by PathFor or supplied by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ErrNoHolder
	}

	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrLockFileCorrupted, err)
	}
	return &h, nil
}
