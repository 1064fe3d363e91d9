package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKiller struct {
	signaled  []int
	forced    []int
	signalErr error
	forceErr  error
}

func (k *fakeKiller) Signal(pid int) error {
	k.signaled = append(k.signaled, pid)
	return k.signalErr
}

func (k *fakeKiller) ForceKill(pid int) error {
	k.forced = append(k.forced, pid)
	return k.forceErr
}

func newTestProcs(t *testing.T, launchers ...string) (*GameProcessService, *fakeKiller) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range launchers {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("print('hi')\n"), 0o644))
	}

	killer := &fakeKiller{}
	svc := NewGameProcessService(dir, NewGameResultService(dir))
	svc.Results.Procs = svc
	svc.killer = killer

	nextPid := 1000
	svc.spawn = func(launcherPath, dir string) (int, error) {
		nextPid++
		return nextPid, nil
	}
	return svc, killer
}

func TestDiscoverDerivesIDsAndSorts(t *testing.T) {
	svc, _ := newTestProcs(t,
		"launch_tetris_game.py",
		"launch_dino_game.py",
		"launch_mystery.py",
		"helper.py",
		"notes.txt",
	)

	games := svc.Discover()
	require.Len(t, games, 3)

	// Sorted by label: Chrome Dino, Mystery, Tetris.
	assert.Equal(t, "dino", games[0].ID)
	assert.Equal(t, "Chrome Dino", games[0].Label)
	assert.Equal(t, "launch_dino_game.py", games[0].Launcher)

	assert.Equal(t, "mystery", games[1].ID)
	assert.Equal(t, "Mystery", games[1].Label)
	assert.Equal(t, "Play the game", games[1].Description)

	assert.Equal(t, "tetris", games[2].ID)
}

func TestDiscoverMissingDir(t *testing.T) {
	svc := NewGameProcessService(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Empty(t, svc.Discover())
}

func TestLaunchUnknownGame(t *testing.T) {
	svc, _ := newTestProcs(t, "launch_dino_game.py")
	_, err := svc.Launch("tetris")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLaunchRecordsPidAndResetsSlot(t *testing.T) {
	svc, _ := newTestProcs(t, "launch_dino_game.py")

	pid, err := svc.Launch("dino")
	require.NoError(t, err)
	assert.Equal(t, 1001, pid)

	got, ok := svc.runningPID("dino")
	assert.True(t, ok)
	assert.Equal(t, pid, got)

	// The slot was reset to pending for this game.
	res := svc.Results.Poll("dino")
	assert.False(t, res.Completed)
}

func TestRelaunchOverwritesHandle(t *testing.T) {
	svc, _ := newTestProcs(t, "launch_dino_game.py")

	first, err := svc.Launch("dino")
	require.NoError(t, err)
	second, err := svc.Launch("dino")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, ok := svc.runningPID("dino")
	assert.True(t, ok)
	assert.Equal(t, second, got)
}

func TestLaunchSpawnFailureLeavesRegistryUntouched(t *testing.T) {
	svc, _ := newTestProcs(t, "launch_dino_game.py")
	svc.spawn = func(launcherPath, dir string) (int, error) {
		return 0, errors.New("exec format error")
	}

	_, err := svc.Launch("dino")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGameNotFound)

	_, ok := svc.runningPID("dino")
	assert.False(t, ok)
}

func TestTerminateByName(t *testing.T) {
	svc, killer := newTestProcs(t, "launch_dino_game.py")
	pid, err := svc.Launch("dino")
	require.NoError(t, err)

	killed, ok := svc.Terminate("dino", 0)
	assert.True(t, ok)
	assert.Equal(t, pid, killed)
	assert.Equal(t, []int{pid}, killer.signaled)
	assert.Empty(t, killer.forced)

	_, running := svc.runningPID("dino")
	assert.False(t, running)
}

func TestTerminateMissingTarget(t *testing.T) {
	svc, killer := newTestProcs(t, "launch_dino_game.py")

	killed, ok := svc.Terminate("dino", 0)
	assert.False(t, ok)
	assert.Zero(t, killed)
	assert.Empty(t, killer.signaled)
}

func TestTerminateExplicitPidTakesPrecedence(t *testing.T) {
	svc, killer := newTestProcs(t, "launch_dino_game.py")
	_, err := svc.Launch("dino")
	require.NoError(t, err)

	killed, ok := svc.Terminate("dino", 4242)
	assert.True(t, ok)
	assert.Equal(t, 4242, killed)
	assert.Equal(t, []int{4242}, killer.signaled)

	// The registered handle survives: it maps a different pid.
	_, running := svc.runningPID("dino")
	assert.True(t, running)
}

func TestTerminateFallsBackToForceKill(t *testing.T) {
	svc, killer := newTestProcs(t, "launch_dino_game.py")
	killer.signalErr = errors.New("no such process")
	pid, err := svc.Launch("dino")
	require.NoError(t, err)

	killed, ok := svc.Terminate("dino", 0)
	assert.True(t, ok)
	assert.Equal(t, pid, killed)
	assert.Equal(t, []int{pid}, killer.forced)
}

func TestTerminateBothPathsFail(t *testing.T) {
	svc, killer := newTestProcs(t, "launch_dino_game.py")
	killer.signalErr = errors.New("no such process")
	killer.forceErr = errors.New("still no such process")
	pid, err := svc.Launch("dino")
	require.NoError(t, err)

	killed, ok := svc.Terminate("dino", 0)
	assert.False(t, ok)
	assert.Equal(t, pid, killed)

	// The handle is still removed.
	_, running := svc.runningPID("dino")
	assert.False(t, running)
}
