package lockout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/easelgate/easelgate/pkg/models"
)

func intptr(v int) *int { return &v }

func TestDuration_StepFunction(t *testing.T) {
	tests := []struct {
		count int
		want  time.Duration
	}{
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 60 * time.Second},
		{4, 60 * time.Second},
		{5, 60 * time.Second},
		{6, 90 * time.Second},
		{8, 90 * time.Second},
		{9, 300 * time.Second},
		{20, 300 * time.Second},
	}

	prev := time.Duration(-1)
	for _, tt := range tests {
		got := Duration(tt.count)
		require.Equal(t, tt.want, got, "count %d", tt.count)
		require.GreaterOrEqual(t, got, prev, "duration must be non-decreasing")
		prev = got
	}
}

func TestController_SuccessClearsEverything(t *testing.T) {
	now := time.Now()
	c := NewController(nil, WithClock(func() time.Time { return now }))

	for i := 0; i < 9; i++ {
		c.RecordOutcome(403, nil, "login")
	}
	require.True(t, c.IsLockedOut())
	require.Equal(t, 9, c.FailedCount())

	c.RecordOutcome(200, &models.AuthResponse{Message: "Login successful"}, "login")
	require.False(t, c.IsLockedOut())
	require.Equal(t, 0, c.FailedCount())
}

func TestController_ThirdFailureLocksFor60s(t *testing.T) {
	now := time.Now()
	c := NewController(nil, WithClock(func() time.Time { return now }))

	c.RecordOutcome(403, nil, "login")
	c.RecordOutcome(403, nil, "login")
	require.False(t, c.IsLockedOut())

	c.RecordOutcome(403, nil, "login")
	require.True(t, c.IsLockedOut())
	require.Equal(t, 60*time.Second, c.Remaining())
	require.Equal(t, "Wait 60s", c.WaitMessage())
}

func TestController_ServerSyncOverwritesLocalState(t *testing.T) {
	now := time.Now()
	c := NewController(nil, WithClock(func() time.Time { return now }))

	c.RecordOutcome(403, nil, "login")
	c.RecordOutcome(403, &models.AuthResponse{
		Error:            "Too many failed attempts. Please wait 2 minutes and 5 seconds",
		FailedAttempts:   intptr(7),
		RemainingSeconds: intptr(125),
	}, "login")

	require.Equal(t, 7, c.FailedCount())
	require.Equal(t, 125*time.Second, c.Remaining())
	require.Equal(t, "Wait 2min 5s", c.WaitMessage())
}

func TestController_StatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCount int
	}{
		{"bad_request_counts", 400, 1},
		{"unauthorized_counts", 401, 1},
		{"forbidden_counts", 403, 1},
		{"server_error_counts", 500, 1},
		{"gateway_timeout_counts", 504, 1},
		{"no_content_does_not_count", 204, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(nil)
			c.RecordOutcome(tt.status, nil, "login")
			require.Equal(t, tt.wantCount, c.FailedCount())
		})
	}
}

func TestController_RemainingExpires(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := NewController(nil, WithClock(clock))

	for i := 0; i < 3; i++ {
		c.RecordOutcome(401, nil, "login")
	}
	require.True(t, c.IsLockedOut())

	now = now.Add(61 * time.Second)
	require.False(t, c.IsLockedOut())
	require.Equal(t, time.Duration(0), c.Remaining())
	require.Equal(t, "", c.WaitMessage())
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{0, ""},
		{-5 * time.Second, ""},
		{time.Second, "Wait 1s"},
		{59 * time.Second, "Wait 59s"},
		{60 * time.Second, "Wait 1min 0s"},
		{300 * time.Second, "Wait 5min 0s"},
		{125 * time.Second, "Wait 2min 5s"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatWait(tt.remaining))
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state", "lockout.json"))
	require.NoError(t, err)

	until := time.Now().Add(90 * time.Second).Truncate(time.Millisecond)
	require.NoError(t, store.Save(State{FailedCount: 6, LockedUntil: until}))

	got := store.Load()
	require.Equal(t, 6, got.FailedCount)
	require.True(t, got.LockedUntil.Equal(until))
}

func TestFileStore_CorruptStateFailsOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lockout.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	writeFile(t, path, `{"failed_attempts": "not a number"}`)
	require.Equal(t, State{}, store.Load())

	writeFile(t, path, `garbage`)
	require.Equal(t, State{}, store.Load())

	writeFile(t, path, `{"failed_attempts": -4}`)
	require.Equal(t, State{}, store.Load())
}

func TestController_RehydratesFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockout.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	now := time.Now()
	first := NewController(store, WithClock(func() time.Time { return now }))
	for i := 0; i < 6; i++ {
		first.RecordOutcome(403, nil, "login")
	}
	require.True(t, first.IsLockedOut())

	// A fresh controller over the same file sees the unexpired window.
	second := NewController(store, WithClock(func() time.Time { return now }))
	require.True(t, second.IsLockedOut())
	require.Equal(t, 6, second.FailedCount())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
