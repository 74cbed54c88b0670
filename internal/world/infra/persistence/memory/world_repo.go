package memory

import (
	"context"
	"sync"

	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/entity"
)

// WorldRepository 进程内仓储，保存每个世界最新版本的快照。
type WorldRepository struct {
	mu     sync.RWMutex
	worlds map[entity.WorldID]*entity.WorldPersistSnapshot
}

func NewWorldRepository() *WorldRepository {
	return &WorldRepository{worlds: make(map[entity.WorldID]*entity.WorldPersistSnapshot)}
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.worlds[id]
	if !ok {
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	}
	return entity.HydrateWorld(s.State), nil
}

// Save 旧版本不覆盖新版本。
func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.worlds[s.State.WorldID]; ok && cur.Version > s.Version {
		return nil
	}
	r.worlds[s.State.WorldID] = s
	return nil
}

func (r *WorldRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}
