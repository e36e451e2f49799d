package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"metal-snake/game/types"
)

// Rewards
const (
	RewardFood    = 1.0
	RewardDeath   = -1.0
	RewardCloser  = 0.5
	RewardFarther = -0.3
)

type State struct {
	RelativeFoodDir [2]int  // Sign of the food offset from the head (x, y)
	FoodDistance    int     // Manhattan distance to food
	DangerDirs      [4]bool // Danger in each direction (up, right, down, left)
	Heading         Action  // Current heading, -1 while the snake stands still
}

type Action int

const (
	Up Action = iota
	Right
	Down
	Left
)

// NoAction marks a snake that has not started moving.
const NoAction Action = -1

var actions = [...]Action{Up, Right, Down, Left}

// Direction maps the action to a game heading.
func (a Action) Direction() types.Direction {
	switch a {
	case Up:
		return types.UP
	case Right:
		return types.RIGHT
	case Down:
		return types.DOWN
	case Left:
		return types.LEFT
	default:
		return types.NONE
	}
}

func ActionFromDirection(d types.Direction) Action {
	switch d {
	case types.UP:
		return Up
	case types.RIGHT:
		return Right
	case types.DOWN:
		return Down
	case types.LEFT:
		return Left
	default:
		return NoAction
	}
}

// Outcome of one tick as seen by the learner.
type Outcome int

const (
	Moved Outcome = iota
	Ate
	Died
)

type QTable map[string]map[Action]float64

type QLearning struct {
	mu             sync.RWMutex
	QTable         QTable
	LearningRate   float64
	Discount       float64
	Epsilon        float64
	InitialEpsilon float64
	MinEpsilon     float64
	EpsilonDecay   float64 // Per finished game
	TotalReward    float64
	GamesPlayed    int

	rng types.Rand
}

func NewQLearning(rng types.Rand) *QLearning {
	return &QLearning{
		QTable:         make(QTable),
		LearningRate:   0.1,
		Discount:       0.9,
		Epsilon:        0.5,
		InitialEpsilon: 0.5,
		MinEpsilon:     0.05,
		EpsilonDecay:   0.99,
		rng:            rng,
	}
}

// EndEpisode counts a finished game and decays exploration towards MinEpsilon.
func (q *QLearning) EndEpisode() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.GamesPlayed++
	q.Epsilon = math.Max(q.MinEpsilon, q.InitialEpsilon*math.Pow(q.EpsilonDecay, float64(q.GamesPlayed)))
}

// SaveQTable writes the table as indented JSON, creating parent directories.
func (q *QLearning) SaveQTable(filename string) error {
	q.mu.RLock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal q-table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create q-table dir: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write q-table: %w", err)
	}
	return nil
}

// LoadQTable replaces the table with the file contents. A missing file
// returns an error wrapping os.ErrNotExist.
func (q *QLearning) LoadQTable(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read q-table: %w", err)
	}

	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parse q-table %s: %w", filename, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.QTable = table
	return nil
}

// Size is the number of states seen so far.
func (q *QLearning) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.QTable)
}

func (q *QLearning) getStateKey(s State) string {
	return fmt.Sprintf("%d,%d|%d%d%d%d",
		s.RelativeFoodDir[0], s.RelativeFoodDir[1],
		boolToInt(s.DangerDirs[0]),
		boolToInt(s.DangerDirs[1]),
		boolToInt(s.DangerDirs[2]),
		boolToInt(s.DangerDirs[3]))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetAction is epsilon-greedy over the table.
func (q *QLearning) GetAction(state State) Action {
	q.mu.RLock()
	epsilon := q.Epsilon
	q.mu.RUnlock()

	// Exploration: random action
	if q.rng.Float64() < epsilon {
		return Action(q.rng.Intn(len(actions)))
	}

	// Exploitation: best known action
	return q.BestAction(state)
}

// BestAction returns the highest valued action, the first one on ties.
// Unknown states score every action 0.
func (q *QLearning) BestAction(state State) Action {
	q.mu.RLock()
	defer q.mu.RUnlock()

	values := q.QTable[q.getStateKey(state)]
	bestAction := Up
	bestValue := math.Inf(-1)
	for _, a := range actions {
		if v := values[a]; v > bestValue {
			bestValue = v
			bestAction = a
		}
	}
	return bestAction
}

// Value is the stored estimate for the state and action.
func (q *QLearning) Value(state State, action Action) float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.QTable[q.getStateKey(state)][action]
}

// Reward scores one transition.
func Reward(state, next State, outcome Outcome) float64 {
	switch outcome {
	case Died:
		return RewardDeath
	case Ate:
		return RewardFood
	}

	distanceChange := next.FoodDistance - state.FoodDistance
	if distanceChange < 0 {
		return RewardCloser
	} else if distanceChange > 0 {
		return RewardFarther
	}
	return 0
}

// Update applies the Q-learning rule to one transition and returns the reward.
// A death has no future value.
func (q *QLearning) Update(state State, action Action, nextState State, outcome Outcome) float64 {
	reward := Reward(state, nextState, outcome)
	stateKey := q.getStateKey(state)
	nextStateKey := q.getStateKey(nextState)

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.QTable[stateKey]; !exists {
		q.QTable[stateKey] = newActionValues()
	}
	if _, exists := q.QTable[nextStateKey]; !exists {
		q.QTable[nextStateKey] = newActionValues()
	}

	maxNextQ := 0.0
	if outcome != Died {
		maxNextQ = math.Inf(-1)
		for _, value := range q.QTable[nextStateKey] {
			if value > maxNextQ {
				maxNextQ = value
			}
		}
	}

	currentQ := q.QTable[stateKey][action]
	q.QTable[stateKey][action] = currentQ + q.LearningRate*(reward+q.Discount*maxNextQ-currentQ)
	q.TotalReward += reward
	return reward
}

func newActionValues() map[Action]float64 {
	values := make(map[Action]float64, len(actions))
	for _, a := range actions {
		values[a] = 0
	}
	return values
}
