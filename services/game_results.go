package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	resultFileName = "game_result.json"

	// Completed results older than this are treated as expired for freshness
	// purposes; the record itself is never cleared.
	resultStaleness = 5 * time.Minute

	maxGameCoins = 5
)

// resultFile is the externalized result slot, shared with the game
// processes: they write the same JSON object directly.
type resultFile struct {
	Game        string `json:"game"`
	Completed   bool   `json:"completed"`
	CoinsEarned int    `json:"coins_earned"`
	Score       int    `json:"score"`
	Timestamp   string `json:"timestamp"`
}

// PollResult is the polling contract. A not-completed response carries
// zeroes only.
type PollResult struct {
	Completed   bool   `json:"completed"`
	CoinsEarned int    `json:"coins_earned"`
	Score       int    `json:"score"`
	Timestamp   string `json:"timestamp,omitempty"`
	Game        string `json:"game,omitempty"`
}

// GameResultService owns the singleton result slot: one record shared across
// all games, last writer wins. The slot lives as a JSON file in the games
// directory because externally spawned game processes write it directly.
type GameResultService struct {
	// Procs is consulted only to clean up a finished process handle after a
	// successful completed read. Set after construction.
	Procs *GameProcessService

	mu         sync.Mutex
	resultPath string
	now        func() time.Time
}

func NewGameResultService(gamesDir string) *GameResultService {
	return &GameResultService{
		resultPath: filepath.Join(gamesDir, resultFileName),
		now:        time.Now,
	}
}

// Reset writes a fresh pending record for gameID so polling cannot read a
// stale completed result from an earlier run.
func (s *GameResultService) Reset(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(resultFile{
		Game:      gameID,
		Completed: false,
		Timestamp: s.now().Format(time.RFC3339Nano),
	})
}

// Report overwrites the slot with a completed result. Coins are clamped to
// [0, 5], the only defense against an inflated client-submitted reward.
func (s *GameResultService) Report(gameID string, score, coinsEarned int) error {
	if coinsEarned < 0 {
		coinsEarned = 0
	}
	if coinsEarned > maxGameCoins {
		coinsEarned = maxGameCoins
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(resultFile{
		Game:        gameID,
		Completed:   true,
		CoinsEarned: coinsEarned,
		Score:       score,
		Timestamp:   s.now().Format(time.RFC3339Nano),
	})
}

// Poll reads the slot for gameID. It reports not-completed when the slot is
// missing, unreadable, for a different game, older than the staleness
// window, or still pending. On a completed read it reaps the lingering
// process handle; the record itself is kept, so an immediate second poll
// returns the same payload (safe to retry).
func (s *GameResultService) Poll(gameID string) PollResult {
	s.mu.Lock()
	record, err := s.read()
	s.mu.Unlock()

	empty := PollResult{}
	if err != nil {
		return empty
	}
	if record.Game != gameID {
		return empty
	}

	reported, err := parseResultTime(record.Timestamp)
	if err != nil {
		return empty
	}
	if s.now().Sub(reported) > resultStaleness {
		return empty
	}
	if !record.Completed {
		return empty
	}

	if s.Procs != nil {
		s.Procs.Reap(gameID)
	}

	return PollResult{
		Completed:   true,
		CoinsEarned: record.CoinsEarned,
		Score:       record.Score,
		Timestamp:   record.Timestamp,
		Game:        record.Game,
	}
}

func (s *GameResultService) write(record resultFile) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.resultPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(s.resultPath, data, 0o644)
}

func (s *GameResultService) read() (resultFile, error) {
	var record resultFile
	data, err := os.ReadFile(s.resultPath)
	if err != nil {
		return record, err
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, err
	}
	return record, nil
}

// parseResultTime accepts both our RFC3339 stamps and the zone-less ISO
// stamps the Python launchers write.
func parseResultTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
