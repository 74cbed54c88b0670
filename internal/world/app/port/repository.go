package port

import (
	"context"

	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/errx"
)

// ErrWorldNotFound 仓储里没有该世界。
var ErrWorldNotFound = errx.ErrNotFound.WithData("resource", "world")

type WorldRepository interface {
	LoadWorld(ctx context.Context, id entity.WorldID) (*entity.World, error)
	Save(ctx context.Context, s *entity.WorldPersistSnapshot) error
}
