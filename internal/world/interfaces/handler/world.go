package handler

import (
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/entity"
	"context"
)

// WorldAPI 接口层依赖的应用服务能力，由 app.WorldService 实现。
type WorldAPI interface {
	Generate(ctx context.Context, cmd app.GenerateCmd) (entity.WorldState, error)
	Get(ctx context.Context, id entity.WorldID) (entity.WorldState, error)
	Rename(ctx context.Context, id entity.WorldID, name string) (entity.WorldState, error)
}

var _ WorldAPI = (*app.WorldService)(nil)
