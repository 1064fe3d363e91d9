package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrGameNotFound = errors.New("game not found")

const (
	launcherPrefix = "launch_"
	launcherSuffix = "_game"
)

// Friendly labels and descriptions for the bundled games. Anything else
// discovered on disk falls back to a title-cased id.
var gameLabels = map[string]string{
	"dino":   "Chrome Dino",
	"2048":   "2048",
	"tetris": "Tetris",
	"snake":  "Snake",
}

var gameDescriptions = map[string]string{
	"dino":   "Jump and dodge obstacles.",
	"2048":   "Combine tiles to reach 2048.",
	"tetris": "Stack blocks to clear lines.",
	"snake":  "Grow by eating, avoid walls.",
}

// GameDescriptor is the stable discovery contract: {id, label, description,
// launcher}, sorted by label.
type GameDescriptor struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Launcher    string `json:"launcher"`
}

// processKiller is the platform capability Terminate runs on: a graceful
// signal first, a forceful kill as fallback. Both may fail; failures are
// swallowed by the callers.
type processKiller interface {
	Signal(pid int) error
	ForceKill(pid int) error
}

type osKiller struct{}

func (osKiller) Signal(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}

func (osKiller) ForceKill(pid int) error {
	if runtime.GOOS == "windows" {
		return exec.Command("taskkill", "/PID", strconv.Itoa(pid), "/F", "/T").Run()
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

type spawnFunc func(launcherPath, dir string) (int, error)

func defaultSpawn(launcherPath, dir string) (int, error) {
	python := os.Getenv("PYTHON_BIN")
	if python == "" {
		python = "python"
	}
	cmd := exec.Command(python, launcherPath)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// The game runs on its own; Wait only reaps it when it exits.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

// GameProcessService owns the registry of running game processes, one handle
// per game name. A relaunch overwrites the previous handle without waiting
// for the old process to exit (last launch wins).
type GameProcessService struct {
	GamesDir string
	Results  *GameResultService

	killer processKiller
	spawn  spawnFunc

	mu      sync.Mutex
	running map[string]int
}

func NewGameProcessService(gamesDir string, results *GameResultService) *GameProcessService {
	return &GameProcessService{
		GamesDir: gamesDir,
		Results:  results,
		killer:   osKiller{},
		spawn:    defaultSpawn,
		running:  make(map[string]int),
	}
}

// Discover scans the games directory for launch_*.py entry points and
// derives a stable id from each filename by stripping the launch_ prefix and
// the optional _game suffix. Never fails: any scan error yields an empty
// list.
func (s *GameProcessService) Discover() []GameDescriptor {
	result := []GameDescriptor{}
	entries, err := os.ReadDir(s.GamesDir)
	if err != nil {
		return result
	}

	titler := cases.Title(language.English)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".py") || !strings.HasPrefix(lower, launcherPrefix) {
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		id := strings.TrimSuffix(base[len(launcherPrefix):], launcherSuffix)

		label, ok := gameLabels[id]
		if !ok {
			label = titler.String(id)
		}
		description, ok := gameDescriptions[id]
		if !ok {
			description = "Play the game"
		}

		result = append(result, GameDescriptor{
			ID:          id,
			Label:       label,
			Description: description,
			Launcher:    name,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Label) < strings.ToLower(result[j].Label)
	})
	return result
}

// Launch resets the shared result slot, spawns the game's launcher script
// detached from the request, and records the pid. A failed slot reset is
// logged, never propagated; a failed spawn is fatal to this call only and
// leaves the registry untouched.
func (s *GameProcessService) Launch(gameID string) (int, error) {
	launcher := ""
	for _, g := range s.Discover() {
		if g.ID == gameID {
			launcher = g.Launcher
			break
		}
	}
	if launcher == "" {
		return 0, ErrGameNotFound
	}

	if s.Results != nil {
		if err := s.Results.Reset(gameID); err != nil {
			log.Printf("⚠️  Failed to reset result slot for %s: %v", gameID, err)
		}
	}

	pid, err := s.spawn(filepath.Join(s.GamesDir, launcher), s.GamesDir)
	if err != nil {
		return 0, fmt.Errorf("failed to launch %s: %w", gameID, err)
	}

	s.mu.Lock()
	s.running[gameID] = pid
	s.mu.Unlock()
	return pid, nil
}

// Terminate stops a running game by explicit pid or by name lookup, pid
// taking precedence. It always removes every registry entry matching the
// target pid. Returns (0, false) when no target resolves, and false when
// both the graceful signal and the forceful kill fail.
func (s *GameProcessService) Terminate(gameID string, pid int) (int, bool) {
	target := pid
	if target == 0 && gameID != "" {
		s.mu.Lock()
		target = s.running[gameID]
		s.mu.Unlock()
	}
	if target == 0 {
		return 0, false
	}

	killed := s.kill(target)

	s.mu.Lock()
	for name, p := range s.running {
		if p == target {
			delete(s.running, name)
		}
	}
	s.mu.Unlock()

	return target, killed
}

// Reap removes the handle for gameID and best-effort terminates its process.
// Called by the result bridge after a successful completed-result read.
func (s *GameProcessService) Reap(gameID string) {
	s.mu.Lock()
	pid, ok := s.running[gameID]
	if ok {
		delete(s.running, gameID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if !s.kill(pid) {
		log.Printf("⚠️  Could not terminate finished game %s (pid %d)", gameID, pid)
	}
}

func (s *GameProcessService) kill(pid int) bool {
	if err := s.killer.Signal(pid); err != nil {
		if err := s.killer.ForceKill(pid); err != nil {
			return false
		}
	}
	return true
}

// runningPID reports the registered process for a game name.
func (s *GameProcessService) runningPID(gameID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.running[gameID]
	return pid, ok
}
