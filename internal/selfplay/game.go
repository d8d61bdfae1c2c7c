package selfplay

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/statespace"
)

// Player is anything that can take turns in an episode.
type Player interface {
	Marker() entity.Marker
	Reset()
	RecordTransition(board *entity.Board)
	SelectAction(current *entity.Board) (int, error)
}

// Result describes how an episode ended. Winner is entity.None for a tie.
type Result struct {
	Winner entity.Marker
	Turns  int
	Final  *entity.Board
}

func (that Result) IsTie() bool {
	return that.Winner == entity.None
}

// Game alternates two players over a shared state space.
type Game struct {
	space   *statespace.Space
	players [2]Player
}

// New pairs the players. The first one moves first and must hold cross,
// matching the order the state space was enumerated in.
func New(space *statespace.Space, first, second Player) (*Game, error) {
	if first.Marker() != entity.Cross {
		return nil, fmt.Errorf("%w: first player holds %s", apperror.ErrInvalidMarker, first.Marker().Name())
	}

	if second.Marker() != first.Marker().Opponent() {
		return nil, fmt.Errorf("%w: %s and %s", apperror.ErrSameMarker, first.Marker().Name(), second.Marker().Name())
	}

	return &Game{
		space:   space,
		players: [2]Player{first, second},
	}, nil
}

// Play runs one episode from the empty board until a terminal board is reached.
func (that *Game) Play(ctx context.Context) (Result, error) {
	current := that.space.Root()

	for _, player := range that.players {
		player.Reset()
		player.RecordTransition(current)
	}

	for turn := 0; ; turn++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("episode interrupted: %w", err)
		}

		player := that.players[turn%len(that.players)]

		cell, err := player.SelectAction(current)
		if err != nil {
			return Result{}, fmt.Errorf("%s failed to select action: %w", player.Marker().Name(), err)
		}

		next, err := current.Apply(player.Marker(), cell)
		if err != nil {
			return Result{}, fmt.Errorf("invalid turn: %w", err)
		}

		// terminal status comes from the precomputed space, never re-evaluated
		entry, ok := that.space.Lookup(next.Key())
		if !ok {
			return Result{}, fmt.Errorf("%w: key %d", apperror.ErrStateNotFound, next.Key())
		}

		current = entry.Board
		for _, p := range that.players {
			p.RecordTransition(current)
		}

		if entry.Terminal {
			return Result{
				Winner: current.Winner(),
				Turns:  turn + 1,
				Final:  current,
			}, nil
		}
	}
}
