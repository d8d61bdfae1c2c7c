package apperror

import "errors"

var (
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidMarker    = errors.New("invalid marker")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrEmptyTrajectory  = errors.New("trajectory is empty")
	ErrStateNotFound    = errors.New("state not found in state space")
	ErrSameMarker       = errors.New("players must hold complementary markers")
	ErrInvalidParameter = errors.New("invalid parameter")
)
