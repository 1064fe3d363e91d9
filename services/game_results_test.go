package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollPendingSlot(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	require.NoError(t, svc.Reset("dino"))

	res := svc.Poll("dino")
	assert.False(t, res.Completed)
	assert.Zero(t, res.CoinsEarned)
	assert.Zero(t, res.Score)
}

func TestPollMissingSlot(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	assert.Equal(t, PollResult{}, svc.Poll("dino"))
}

func TestPollGameMismatch(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	require.NoError(t, svc.Report("dino", 120, 4))

	assert.Equal(t, PollResult{}, svc.Poll("tetris"))

	// The dino result is still there for the right poller.
	res := svc.Poll("dino")
	assert.True(t, res.Completed)
	assert.Equal(t, 4, res.CoinsEarned)
	assert.Equal(t, 120, res.Score)
}

func TestPollStaleResult(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	require.NoError(t, svc.Report("dino", 50, 3))

	// One second past the freshness window.
	svc.now = func() time.Time { return time.Now().Add(5*time.Minute + time.Second) }
	assert.Equal(t, PollResult{}, svc.Poll("dino"))
}

func TestPollJustInsideWindow(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	require.NoError(t, svc.Report("dino", 50, 3))

	svc.now = func() time.Time { return time.Now().Add(4 * time.Minute) }
	assert.True(t, svc.Poll("dino").Completed)
}

func TestReportClampsCoins(t *testing.T) {
	svc := NewGameResultService(t.TempDir())

	require.NoError(t, svc.Report("dino", 900, 50))
	assert.Equal(t, 5, svc.Poll("dino").CoinsEarned)

	require.NoError(t, svc.Report("dino", 0, -3))
	assert.Equal(t, 0, svc.Poll("dino").CoinsEarned)
}

func TestPollReapsProcessHandleOnce(t *testing.T) {
	dir := t.TempDir()
	killer := &fakeKiller{}
	svc := NewGameResultService(dir)
	procs := NewGameProcessService(dir, svc)
	procs.killer = killer
	svc.Procs = procs

	procs.running["dino"] = 777
	require.NoError(t, svc.Report("dino", 42, 2))

	first := svc.Poll("dino")
	assert.True(t, first.Completed)
	assert.Equal(t, []int{777}, killer.signaled)
	_, running := procs.runningPID("dino")
	assert.False(t, running)

	// Retry is safe: same payload, no second kill.
	second := svc.Poll("dino")
	assert.Equal(t, first, second)
	assert.Equal(t, []int{777}, killer.signaled)
}

func TestPollAcceptsPythonTimestamps(t *testing.T) {
	dir := t.TempDir()
	svc := NewGameResultService(dir)

	// Game processes write the slot themselves, with zone-less stamps.
	record := map[string]any{
		"game":         "snake",
		"completed":    true,
		"coins_earned": 3,
		"score":        88,
		"timestamp":    time.Now().Format("2006-01-02T15:04:05.999999"),
	}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game_result.json"), data, 0o644))

	res := svc.Poll("snake")
	assert.True(t, res.Completed)
	assert.Equal(t, 3, res.CoinsEarned)
	assert.Equal(t, 88, res.Score)
}

func TestPollUnparseableTimestamp(t *testing.T) {
	dir := t.TempDir()
	svc := NewGameResultService(dir)

	data := []byte(`{"game":"dino","completed":true,"coins_earned":5,"score":1,"timestamp":"yesterday"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game_result.json"), data, 0o644))

	assert.Equal(t, PollResult{}, svc.Poll("dino"))
}

func TestPollCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	svc := NewGameResultService(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game_result.json"), []byte("{not json"), 0o644))

	assert.Equal(t, PollResult{}, svc.Poll("dino"))
}

func TestResetOverwritesCompletedResult(t *testing.T) {
	svc := NewGameResultService(t.TempDir())
	require.NoError(t, svc.Report("dino", 10, 5))
	require.True(t, svc.Poll("dino").Completed)

	require.NoError(t, svc.Reset("dino"))
	assert.False(t, svc.Poll("dino").Completed)
}
