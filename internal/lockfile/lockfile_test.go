package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relock/internal/clock"
	relockerrors "github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/lockfile"
	"github.com/mrz1836/relock/internal/rmutex"
	"github.com/mrz1836/relock/internal/timetraits"
)

func openLock(t *testing.T, path string, opts ...lockfile.Option) *lockfile.Lock {
	t.Helper()

	l, err := lockfile.Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, l.Close())
	})
	return l
}

func TestPathFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lock    string
		want    string
		wantErr error
	}{
		{name: "simple name", lock: "deploy", want: filepath.Join("locks", "deploy.lock")},
		{name: "dash and underscore", lock: "db-migrate_1", want: filepath.Join("locks", "db-migrate_1.lock")},
		{name: "empty", lock: "", wantErr: relockerrors.ErrEmptyValue},
		{name: "traversal", lock: "../etc/passwd", wantErr: relockerrors.ErrPathTraversal},
		{name: "leading dash", lock: "-x", wantErr: relockerrors.ErrPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := lockfile.PathFor("locks", tt.lock)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_CreatesDirectoryAndFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "a.lock")

	l := openLock(t, path)

	assert.Equal(t, path, l.Path())
	assert.NotEmpty(t, l.ID())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestLock_ReentrantWritesHolderOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.lock")
	acquiredAt := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	l := openLock(t, path, lockfile.WithClock(clock.NewManual(acquiredAt)))

	require.NoError(t, l.Lock())
	require.NoError(t, l.Lock())

	h, err := lockfile.ReadHolder(path)
	require.NoError(t, err)
	assert.Equal(t, l.ID(), h.ID)
	assert.Equal(t, os.Getpid(), h.PID)
	assert.NotEmpty(t, h.Host)
	assert.True(t, acquiredAt.Equal(h.AcquiredAt))
	assert.Equal(t, time.Minute, h.Age(acquiredAt.Add(time.Minute)))

	// Inner unlock keeps the record.
	require.NoError(t, l.Unlock())
	_, err = lockfile.ReadHolder(path)
	require.NoError(t, err)

	require.NoError(t, l.Unlock())
	_, err = lockfile.ReadHolder(path)
	require.ErrorIs(t, err, relockerrors.ErrNoHolder)
}

func TestLock_ExcludesOtherHandles(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.lock")
	first := openLock(t, path)
	second := openLock(t, path)

	require.NoError(t, first.Lock())

	ok, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = second.LockTimeout(20 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Unlock())

	ok, err = second.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	h, err := lockfile.ReadHolder(path)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), h.ID)
	require.NoError(t, second.Unlock())
}

func TestTimedLock_AcquiresWhenOtherHandleReleases(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.lock")
	first := openLock(t, path)
	second := openLock(t, path, lockfile.WithPollInterval(time.Millisecond))

	locked := make(chan struct{})
	go func() {
		assert.NoError(t, first.Lock())
		close(locked)
		time.Sleep(20 * time.Millisecond)
		assert.NoError(t, first.Unlock())
	}()
	<-locked

	tr := timetraits.New[time.Time, time.Duration](clock.RealClock{}, nil)
	ok, err := lockfile.TimedLock(second, tr, rmutex.Until(tr.Add(tr.Now(), 5*time.Second)))
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestTimedLock_ExpiryReleasesInProcessMutex(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.lock")
	first := openLock(t, path)

	mc := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tr := timetraits.New[time.Time, time.Duration](mc, nil)
	probes := 0
	second := openLock(t, path, lockfile.WithYield(func() {
		probes++
		mc.Advance(time.Millisecond)
	}))

	require.NoError(t, first.Lock())

	ok, err := lockfile.TimedLock(second, tr, rmutex.Until(mc.Now().Add(3*time.Millisecond)))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, probes)

	require.NoError(t, first.Unlock())

	// The failed attempt left nothing held on second.
	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestTimedLock_InfiniteDeadline(t *testing.T) {
	t.Parallel()
	l := openLock(t, filepath.Join(t.TempDir(), "a.lock"))
	tr := timetraits.New[time.Time, time.Duration](clock.RealClock{}, nil)

	ok, err := lockfile.TimedLock(l, tr, rmutex.Forever[time.Time]())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, l.Unlock())
}

func TestLock_Misuse(t *testing.T) {
	t.Parallel()

	t.Run("unlock without holding panics", func(t *testing.T) {
		t.Parallel()
		l := openLock(t, filepath.Join(t.TempDir(), "a.lock"))
		assert.Panics(t, func() { _ = l.Unlock() })
	})

	t.Run("close while held panics", func(t *testing.T) {
		t.Parallel()
		l, err := lockfile.Open(filepath.Join(t.TempDir(), "a.lock"))
		require.NoError(t, err)
		require.NoError(t, l.Lock())

		assert.Panics(t, func() { _ = l.Close() })

		require.NoError(t, l.Unlock())
		require.NoError(t, l.Close())
	})

	t.Run("lock after close fails", func(t *testing.T) {
		t.Parallel()
		l, err := lockfile.Open(filepath.Join(t.TempDir(), "a.lock"))
		require.NoError(t, err)
		require.NoError(t, l.Close())

		require.ErrorIs(t, l.Lock(), relockerrors.ErrLockFailed)
	})
}

func TestReadHolder(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := lockfile.ReadHolder(filepath.Join(t.TempDir(), "missing.lock"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupted record", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.lock")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := lockfile.ReadHolder(path)
		require.ErrorIs(t, err, relockerrors.ErrLockFileCorrupted)
	})
}
