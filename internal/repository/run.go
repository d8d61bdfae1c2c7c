package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
)

const runKeyPrefix = "run:"

var ErrRunNotFound = errors.New("run not found")

type RunRepository interface {
	CreateOrUpdate(ctx context.Context, run *entity.Run) error
	GetByID(ctx context.Context, id string) (*entity.Run, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbRun struct {
	client *redis.Client
}

func NewRunRepository(client *redis.Client) RunRepository {
	return &dbRun{
		client: client,
	}
}

func (that *dbRun) CreateOrUpdate(ctx context.Context, run *entity.Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("could not marshal run: %w", err)
	}

	if err = that.client.Set(ctx, runKeyPrefix+run.ID, runJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set run: %w", err)
	}

	return nil
}

func (that *dbRun) GetByID(ctx context.Context, id string) (*entity.Run, error) {
	response, err := that.client.Get(ctx, runKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get run by id: %w", err)
	}

	var existingRun entity.Run
	if err = json.Unmarshal([]byte(response), &existingRun); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &existingRun, nil
}

func (that *dbRun) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, runKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete run by id: %w", err)
	}

	if deleted == 0 {
		return ErrRunNotFound
	}

	return nil
}

type discardRun struct{}

// NewDiscardRunRepository is used when no storage is configured. Reports
// only go to the log.
func NewDiscardRunRepository() RunRepository {
	return discardRun{}
}

func (discardRun) CreateOrUpdate(context.Context, *entity.Run) error {
	return nil
}

func (discardRun) GetByID(context.Context, string) (*entity.Run, error) {
	return nil, ErrRunNotFound
}

func (discardRun) DeleteByID(context.Context, string) error {
	return ErrRunNotFound
}
