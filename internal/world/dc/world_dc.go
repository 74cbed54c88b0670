package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	defaultFlushEvery = 3 * time.Second
	retryBackoff      = 200 * time.Millisecond
)

// WorldDC 已生成世界的写回缓存：读先走内存，脏世界由 Flush 打快照，后台 writer 落库。
//
// 约束：
// - 同一世界只保留最新版本的待写快照
// - 写库失败重排当前快照，若已有更高版本则丢弃旧的
// - 快照写成功且世界仍干净时移出缓存，之后的读回源仓储
// - 只读加载的干净世界在下一次 Flush 时移出
// - Close 先 Flush 再等 writer 把待写快照写完
type WorldDC struct {
	repo       port.WorldRepository
	logger     logx.Logger
	flushEvery time.Duration

	mu      sync.Mutex
	worlds  map[entity.WorldID]*entity.World
	dirty   map[entity.WorldID]struct{}
	pending map[entity.WorldID]*entity.WorldPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewWorldDC(repo port.WorldRepository, logger logx.Logger, flushEvery time.Duration) *WorldDC {
	if logger == nil {
		logger = logx.Nop()
	}
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	d := &WorldDC{
		repo:       repo,
		logger:     logger,
		flushEvery: flushEvery,
		worlds:     make(map[entity.WorldID]*entity.World),
		dirty:      make(map[entity.WorldID]struct{}),
		pending:    make(map[entity.WorldID]*entity.WorldPersistSnapshot),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Put 登记一个新世界（通常是脏的），下一次 Flush 会落库。
func (d *WorldDC) Put(w *entity.World) {
	if w == nil {
		return
	}
	d.mu.Lock()
	d.worlds[w.ID()] = w
	if w.Dirty() {
		d.dirty[w.ID()] = struct{}{}
	}
	d.mu.Unlock()
}

// Load 先查缓存，未命中再查仓储并缓存。
func (d *WorldDC) Load(ctx context.Context, id entity.WorldID) (*entity.World, error) {
	d.mu.Lock()
	w, ok := d.worlds[id]
	d.mu.Unlock()
	if ok {
		return w, nil
	}
	if d.repo == nil {
		return nil, errors.New("world repository is nil")
	}
	w, err := d.repo.LoadWorld(ctx, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	if cached, ok := d.worlds[id]; ok {
		w = cached
	} else {
		d.worlds[id] = w
	}
	d.mu.Unlock()
	return w, nil
}

// Rename 在缓存里改名并标脏，返回改名后的视图。
func (d *WorldDC) Rename(ctx context.Context, id entity.WorldID, name string) (entity.WorldState, error) {
	w, err := d.Load(ctx, id)
	if err != nil {
		return entity.WorldState{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	// Load 与加锁之间世界可能已被移出缓存，改名必须落在缓存里的那一份上。
	if cached, ok := d.worlds[id]; ok {
		w = cached
	} else {
		d.worlds[id] = w
	}
	w.Rename(name)
	if w.Dirty() {
		d.dirty[id] = struct{}{}
	}
	return w.State(), nil
}

// State 在锁内导出世界视图，调用方拿到的是副本。
func (d *WorldDC) State(ctx context.Context, id entity.WorldID) (entity.WorldState, error) {
	w, err := d.Load(ctx, id)
	if err != nil {
		return entity.WorldState{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return w.State(), nil
}

// Flush 给脏世界打快照并交给 writer，不等待落库；顺带移出没有待写快照的干净世界。
func (d *WorldDC) Flush(ctx context.Context) error {
	if d.repo == nil {
		return errors.New("world repository is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	queued := 0
	for id := range d.dirty {
		delete(d.dirty, id)
		w, ok := d.worlds[id]
		if !ok {
			continue
		}
		d.version++
		s, ok := w.BuildPersistSnapshot(d.version)
		if !ok {
			continue
		}
		w.ClearDirty()
		if cur, ok := d.pending[id]; !ok || cur.Version < s.Version {
			d.pending[id] = s
		}
		queued++
	}
	for id, w := range d.worlds {
		d.evictLocked(id, w)
	}
	d.mu.Unlock()
	if queued > 0 {
		d.signal()
	}
	return nil
}

func (d *WorldDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Cached 缓存中的世界数，测试与监控用。
func (d *WorldDC) Cached() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.worlds)
}

// Pending 待写快照数，测试与监控用。
func (d *WorldDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *WorldDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// evictLocked 调用方持有 d.mu。
func (d *WorldDC) evictLocked(id entity.WorldID, w *entity.World) {
	if w.Dirty() {
		return
	}
	if _, queued := d.pending[id]; queued {
		return
	}
	delete(d.worlds, id)
}

func (d *WorldDC) saved(id entity.WorldID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.worlds[id]; ok {
		d.evictLocked(id, w)
	}
}

func (d *WorldDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *WorldDC) popPending() *entity.WorldPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, s := range d.pending {
		delete(d.pending, id)
		return s
	}
	return nil
}

func (d *WorldDC) requeueOnError(s *entity.WorldPersistSnapshot) {
	d.mu.Lock()
	id := s.State.WorldID
	if cur, ok := d.pending[id]; !ok || cur.Version < s.Version {
		d.pending[id] = s
	}
	d.mu.Unlock()
}

func (d *WorldDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending draining=true 时（关闭中）失败不再重试，避免 Close 卡死。
func (d *WorldDC) consumePending(draining bool) {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Save(context.Background(), s); err != nil {
			d.logger.Error("world snapshot save failed",
				zap.Int64("world_id", int64(s.State.WorldID)),
				zap.Uint64("version", s.Version),
				zap.Error(err),
			)
			if draining {
				continue
			}
			d.requeueOnError(s)
			select {
			case <-d.stop:
				d.consumePending(true)
				return
			case <-time.After(retryBackoff):
			}
			continue
		}
		d.saved(s.State.WorldID)
	}
}
