package agent

import (
	"cmp"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/statespace"
)

const (
	winValue  = 1.0
	tieValue  = 0.5
	lossValue = 0.0

	// priorValue seeds every non-terminal board.
	priorValue = 0.5
)

// Config holds the learning parameters of one agent.
type Config struct {
	LearningRate float64 `yaml:"learning-rate" env-default:"0.1"`
	Epsilon      float64 `yaml:"epsilon" env-default:"0.01"`
}

func (that Config) Validate() error {
	if that.LearningRate <= 0 || that.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate %v not in (0, 1]", apperror.ErrInvalidParameter, that.LearningRate)
	}

	if that.Epsilon < 0 || that.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon %v not in [0, 1]", apperror.ErrInvalidParameter, that.Epsilon)
	}

	return nil
}

// ValueTable maps a board's key to the agent's estimate of winning from it.
type ValueTable map[entity.StateKey]float64

// Step is one trajectory entry. Greedy is nil until a move is chosen from Board.
type Step struct {
	Board  *entity.Board
	Greedy *bool
}

// greedyIndicator gates credit flowing back into the step. Only an
// exploratory move chosen by this agent blocks it; opponent moves and the
// final board leave Greedy unset and pass credit through.
func (that Step) greedyIndicator() float64 {
	if that.Greedy != nil && !*that.Greedy {
		return 0
	}

	return 1
}

type Option func(*Agent)

// WithRand sets the source of exploration and tie-breaking randomness.
func WithRand(rng *rand.Rand) Option {
	return func(that *Agent) {
		that.rng = rng
	}
}

// Agent is a tabular TD(0) learner with an epsilon-greedy policy.
type Agent struct {
	marker entity.Marker
	config Config
	rng    *rand.Rand

	trajectory []Step
	values     ValueTable
}

// New builds an agent and seeds its value table from the whole state space.
func New(marker entity.Marker, config Config, space *statespace.Space, opts ...Option) (*Agent, error) {
	if !marker.IsValid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidMarker, marker)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	agent := &Agent{
		marker: marker,
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint: gosec // exploration only
		values: make(ValueTable, space.Len()),
	}

	for _, opt := range opts {
		opt(agent)
	}

	agent.initializeValues(space)

	return agent, nil
}

func (that *Agent) initializeValues(space *statespace.Space) {
	space.Range(func(key entity.StateKey, entry statespace.Entry) bool {
		if !entry.Terminal {
			that.values[key] = priorValue
			return true
		}

		switch entry.Board.Winner() {
		case that.marker:
			that.values[key] = winValue
		case entity.None:
			that.values[key] = tieValue
		default:
			that.values[key] = lossValue
		}

		return true
	})
}

func (that *Agent) Marker() entity.Marker {
	return that.marker
}

// Reset clears the trajectory. Learned values are kept.
func (that *Agent) Reset() {
	that.trajectory = that.trajectory[:0]
}

// RecordTransition appends board to the trajectory with the greedy flag unset.
func (that *Agent) RecordTransition(board *entity.Board) {
	that.trajectory = append(that.trajectory, Step{Board: board})
}

type candidate struct {
	cell  int
	key   entity.StateKey
	value float64
}

// SelectAction picks a free cell of current. With probability epsilon the
// cell is uniform at random; otherwise it leads to the highest valued board,
// ties broken uniformly. The choice is marked on the trajectory's last step.
func (that *Agent) SelectAction(current *entity.Board) (int, error) {
	if len(that.trajectory) == 0 {
		return 0, apperror.ErrEmptyTrajectory
	}

	cells := current.EmptyCells()
	if len(cells) == 0 || current.IsTerminal() {
		return 0, apperror.ErrNoAvailableMoves
	}

	candidates := make([]candidate, 0, len(cells))
	for _, cell := range cells {
		child, err := current.Apply(that.marker, cell)
		if err != nil {
			return 0, fmt.Errorf("failed to evaluate cell %d: %w", cell, err)
		}

		candidates = append(candidates, candidate{cell: cell, key: child.Key()})
	}

	if that.rng.Float64() < that.config.Epsilon {
		that.markLast(false)
		return candidates[that.rng.Intn(len(candidates))].cell, nil
	}

	for i := range candidates {
		value, ok := that.values[candidates[i].key]
		if !ok {
			return 0, fmt.Errorf("%w: key %d", apperror.ErrStateNotFound, candidates[i].key)
		}

		candidates[i].value = value
	}

	// shuffle first so the stable sort leaves equal values in random order
	that.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.value, a.value)
	})

	that.markLast(true)

	return candidates[0].cell, nil
}

func (that *Agent) markLast(greedy bool) {
	that.trajectory[len(that.trajectory)-1].Greedy = &greedy
}

// Backup runs the backward TD(0) pass over the trajectory. Each update is
// written immediately, so earlier steps see already updated successors.
func (that *Agent) Backup() error {
	if len(that.trajectory) == 0 {
		return apperror.ErrEmptyTrajectory
	}

	for i := len(that.trajectory) - 2; i >= 0; i-- {
		current, next := that.trajectory[i], that.trajectory[i+1]

		currentValue, ok := that.values[current.Board.Key()]
		if !ok {
			return fmt.Errorf("%w: key %d", apperror.ErrStateNotFound, current.Board.Key())
		}

		nextValue, ok := that.values[next.Board.Key()]
		if !ok {
			return fmt.Errorf("%w: key %d", apperror.ErrStateNotFound, next.Board.Key())
		}

		tdError := (nextValue - currentValue) * current.greedyIndicator()
		that.values[current.Board.Key()] = currentValue + that.config.LearningRate*tdError
	}

	return nil
}

func (that *Agent) Value(key entity.StateKey) (float64, bool) {
	value, ok := that.values[key]
	return value, ok
}

// Values returns a copy of the value table.
func (that *Agent) Values() ValueTable {
	return maps.Clone(that.values)
}

// Trajectory returns a copy of the current trajectory.
func (that *Agent) Trajectory() []Step {
	return slices.Clone(that.trajectory)
}
