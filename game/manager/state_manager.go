package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"metal-snake/game/types"
)

// Finished games kept in memory and on disk.
const maxHistory = 100

// GameRecord summarises one finished game.
type GameRecord struct {
	ID        string              `json:"id"`
	Score     int                 `json:"score"`
	Length    int                 `json:"length"`
	Cause     types.CollisionType `json:"cause"`
	StartTime time.Time           `json:"startTime"`
	EndTime   time.Time           `json:"endTime"`
}

// Duration is how long the game ran.
func (r GameRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

type GameStats struct {
	HighScore    int          `json:"highScore"`
	ScoreHistory []GameRecord `json:"scoreHistory"`
}

// StateManager owns the running score and the history of finished games.
// It is safe for concurrent use; spectators read it while the game ticks.
type StateManager struct {
	mu           sync.RWMutex
	score        int
	highScore    int
	scoreHistory []GameRecord
	filename     string
}

// NewStateManager keeps stats in memory only when filename is empty.
func NewStateManager(filename string) *StateManager {
	return &StateManager{
		scoreHistory: make([]GameRecord, 0),
		filename:     filename,
	}
}

// AddScore adds n to the running score and returns the new total.
func (sm *StateManager) AddScore(n int) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.score += n
	return sm.score
}

func (sm *StateManager) Score() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.score
}

func (sm *StateManager) ResetScore() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.score = 0
}

func (sm *StateManager) HighScore() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.highScore
}

// Record appends a finished game and persists the stats when a file is set.
func (sm *StateManager) Record(rec GameRecord) error {
	sm.mu.Lock()
	if rec.Score > sm.highScore {
		sm.highScore = rec.Score
	}
	sm.scoreHistory = append(sm.scoreHistory, rec)
	if len(sm.scoreHistory) > maxHistory {
		sm.scoreHistory = sm.scoreHistory[len(sm.scoreHistory)-maxHistory:]
	}
	sm.mu.Unlock()

	if sm.filename == "" {
		return nil
	}
	return sm.SaveStats()
}

// History returns a copy of the finished games, oldest first.
func (sm *StateManager) History() []GameRecord {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]GameRecord, len(sm.scoreHistory))
	copy(out, sm.scoreHistory)
	return out
}

func (sm *StateManager) Stats() GameStats {
	return GameStats{
		HighScore:    sm.HighScore(),
		ScoreHistory: sm.History(),
	}
}

func (sm *StateManager) SaveStats() error {
	if sm.filename == "" {
		return nil
	}
	data, err := json.MarshalIndent(sm.Stats(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sm.filename), 0755); err != nil {
		return fmt.Errorf("create stats directory: %w", err)
	}
	if err := os.WriteFile(sm.filename, data, 0644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	return nil
}

// LoadStats reads the stats file. A missing file leaves empty stats.
func (sm *StateManager) LoadStats() error {
	if sm.filename == "" {
		return nil
	}
	data, err := os.ReadFile(sm.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read stats file: %w", err)
	}

	var stats GameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("parse stats file %s: %w", sm.filename, err)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.highScore = stats.HighScore
	sm.scoreHistory = stats.ScoreHistory
	if sm.scoreHistory == nil {
		sm.scoreHistory = make([]GameRecord, 0)
	}
	return nil
}
