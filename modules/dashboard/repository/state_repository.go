package repository

import (
	"context"

	"meetgrid/core/cache"
	"meetgrid/core/constants"
	"meetgrid/core/logger"
	"meetgrid/modules/dashboard/entity"
)

type StateRepositoryInterface interface {
	Load(ctx context.Context) (*entity.State, error)
	SaveRemoved(ctx context.Context, ids []string) error
	SaveEdited(ctx context.Context, edited map[string]entity.EventOverride) error
}

// StateRepository keeps the dashboard document under two JSON keys.
type StateRepository struct {
	cache cache.Cache
}

func NewStateRepository(c cache.Cache) *StateRepository {
	return &StateRepository{cache: c}
}

func (r *StateRepository) Load(ctx context.Context) (*entity.State, error) {
	state := &entity.State{Removed: []string{}, Edited: map[string]entity.EventOverride{}}

	if _, err := cache.GetJSON(ctx, r.cache, constants.CacheKeyRemovedEventIDs, &state.Removed); err != nil {
		logger.Error("Repo:LoadRemoved:Error:", err)
		return nil, err
	}
	if _, err := cache.GetJSON(ctx, r.cache, constants.CacheKeyEditedEvents, &state.Edited); err != nil {
		logger.Error("Repo:LoadEdited:Error:", err)
		return nil, err
	}
	if state.Removed == nil {
		state.Removed = []string{}
	}
	if state.Edited == nil {
		state.Edited = map[string]entity.EventOverride{}
	}
	return state, nil
}

func (r *StateRepository) SaveRemoved(ctx context.Context, ids []string) error {
	if err := cache.SetJSON(ctx, r.cache, constants.CacheKeyRemovedEventIDs, ids); err != nil {
		logger.Error("Repo:SaveRemoved:Error:", err)
		return err
	}
	return nil
}

func (r *StateRepository) SaveEdited(ctx context.Context, edited map[string]entity.EventOverride) error {
	if err := cache.SetJSON(ctx, r.cache, constants.CacheKeyEditedEvents, edited); err != nil {
		logger.Error("Repo:SaveEdited:Error:", err)
		return err
	}
	return nil
}
