package selfplay

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-td/internal/agent"
	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/statespace"
)

// scriptedPlayer plays a fixed list of cells.
type scriptedPlayer struct {
	marker  entity.Marker
	cells   []int
	next    int
	history []*entity.Board
	resets  int
}

func (that *scriptedPlayer) Marker() entity.Marker {
	return that.marker
}

func (that *scriptedPlayer) Reset() {
	that.resets++
	that.next = 0
	that.history = nil
}

func (that *scriptedPlayer) RecordTransition(board *entity.Board) {
	that.history = append(that.history, board)
}

func (that *scriptedPlayer) SelectAction(_ *entity.Board) (int, error) {
	cell := that.cells[that.next]
	that.next++

	return cell, nil
}

func TestNew(t *testing.T) {
	space := newSpace(t)

	t.Run("Error on same markers", func(t *testing.T) {
		_, err := New(space, &scriptedPlayer{marker: entity.Cross}, &scriptedPlayer{marker: entity.Cross})
		assert.ErrorIs(t, err, apperror.ErrSameMarker)
	})

	t.Run("Error when noughts moves first", func(t *testing.T) {
		_, err := New(space, &scriptedPlayer{marker: entity.Noughts}, &scriptedPlayer{marker: entity.Cross})
		assert.ErrorIs(t, err, apperror.ErrInvalidMarker)
	})
}

func TestGame_Play(t *testing.T) {
	space := newSpace(t)
	ctx := context.Background()

	t.Run("Cross wins the top row", func(t *testing.T) {
		// Given: cross plays the top row while noughts plays the middle row
		cross := &scriptedPlayer{marker: entity.Cross, cells: []int{0, 1, 2}}
		noughts := &scriptedPlayer{marker: entity.Noughts, cells: []int{3, 4}}
		game, err := New(space, cross, noughts)
		require.NoError(t, err)

		// When: playing the episode
		result, err := game.Play(ctx)
		require.NoError(t, err)

		// Then: cross wins after five turns and both saw every board
		assert.Equal(t, entity.Cross, result.Winner)
		assert.Equal(t, 5, result.Turns)
		assert.False(t, result.IsTie())
		assert.Len(t, cross.history, 6)
		assert.Equal(t, cross.history, noughts.history)
		assert.Same(t, space.Root(), cross.history[0])
		assert.Equal(t, 1, cross.resets)
	})

	t.Run("Tie is reported without a winner", func(t *testing.T) {
		// Given: moves that fill the board without a line
		cross := &scriptedPlayer{marker: entity.Cross, cells: []int{0, 2, 3, 7, 8}}
		noughts := &scriptedPlayer{marker: entity.Noughts, cells: []int{1, 4, 5, 6}}
		game, err := New(space, cross, noughts)
		require.NoError(t, err)

		// When: playing the episode
		result, err := game.Play(ctx)
		require.NoError(t, err)

		// Then: nobody wins
		assert.True(t, result.IsTie())
		assert.Equal(t, entity.None, result.Winner)
		assert.Equal(t, 9, result.Turns)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: noughts tries the cell cross just took
		cross := &scriptedPlayer{marker: entity.Cross, cells: []int{0}}
		noughts := &scriptedPlayer{marker: entity.Noughts, cells: []int{0}}
		game, err := New(space, cross, noughts)
		require.NoError(t, err)

		// When: playing the episode
		_, err = game.Play(ctx)

		// Then: the illegal move aborts the episode
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Canceled context stops the episode", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		game, err := New(space, &scriptedPlayer{marker: entity.Cross}, &scriptedPlayer{marker: entity.Noughts})
		require.NoError(t, err)

		_, err = game.Play(canceled)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Learning agents always finish within nine turns", func(t *testing.T) {
		// Given: two exploring agents
		cross, err := agent.New(entity.Cross, agent.Config{LearningRate: 0.1, Epsilon: 0.3}, space, agent.WithRand(rand.New(rand.NewSource(1))))
		require.NoError(t, err)
		noughts, err := agent.New(entity.Noughts, agent.Config{LearningRate: 0.1, Epsilon: 0.3}, space, agent.WithRand(rand.New(rand.NewSource(2))))
		require.NoError(t, err)

		game, err := New(space, cross, noughts)
		require.NoError(t, err)

		for range 300 {
			// When: playing an episode and backing up
			result, err := game.Play(ctx)
			require.NoError(t, err)

			// Then: it ended on a terminal board within the bound
			assert.GreaterOrEqual(t, result.Turns, 5)
			assert.LessOrEqual(t, result.Turns, entity.CellCount)
			assert.True(t, result.Final.IsTerminal())
			assert.Equal(t, result.Final.Winner(), result.Winner)
			assert.Len(t, cross.Trajectory(), result.Turns+1)
			assert.Len(t, noughts.Trajectory(), result.Turns+1)

			require.NoError(t, cross.Backup())
			require.NoError(t, noughts.Backup())
		}
	})
}

func newSpace(t *testing.T) *statespace.Space {
	t.Helper()

	space, err := statespace.Enumerate()
	require.NoError(t, err)

	return space
}
