package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	BundleID string  `json:"bundle_id"`
	R2       float64 `json:"r2"`
}

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "cache"), time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewFileStore(t *testing.T) {
	_, err := NewFileStore("", time.Hour)
	require.ErrorIs(t, err, ErrNoDir)

	s, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, s.TTL())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab"), Key("a", "b"))
	assert.Len(t, Key("x"), 64)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newStore(t)
	key := Key("train", "seed=42")

	_, _, err := LoadJSON[report](s, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SaveJSON(s, key, report{BundleID: "01J", R2: 0.91}))
	got, entry, err := LoadJSON[report](s, key)
	require.NoError(t, err)
	assert.Equal(t, report{BundleID: "01J", R2: 0.91}, got)
	assert.Equal(t, key, entry.Key)
	assert.Equal(t, time.Hour, entry.ExpiresAt.Sub(entry.CreatedAt))

	require.NoError(t, s.Delete(key))
	require.NoError(t, s.Delete(key), "delete is idempotent")
	_, err = s.Get(key)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Expiry(t *testing.T) {
	s := newStore(t)
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set("k", json.RawMessage(`{"a":1}`)))

	s.now = func() time.Time { return base.Add(30 * time.Minute) }
	e, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, e.Age(s.now()))

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrExpired)
	_, statErr := os.Stat(s.path("k"))
	assert.True(t, os.IsNotExist(statErr), "expired entries are removed")
}

func TestFileStore_InvalidKey(t *testing.T) {
	s := newStore(t)
	require.ErrorIs(t, s.Set("", nil), ErrInvalidKey)
	_, err := s.Get("")
	require.ErrorIs(t, err, ErrInvalidKey)
	require.ErrorIs(t, s.Delete(""), ErrInvalidKey)
}

func TestFileStore_Clear(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Set("a", json.RawMessage(`1`)))
	require.NoError(t, s.Set("b/c", json.RawMessage(`2`)))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("keep"), 0o600))

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(s.Dir(), "notes.txt"))
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "3600", want: time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "12h", want: 12 * time.Hour},
		{in: "30s", wantErr: true},
		{in: "800h", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "30m", FormatDuration(30*time.Minute))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
	assert.Equal(t, "2d3h", FormatDuration(51*time.Hour))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour))
}
