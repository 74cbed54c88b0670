package app

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/shared/serverconfig"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
	"Wayfarer/modules/kit/tracex"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxWorldNameLen = 64

// Generator 把一次生成交给 actor 运行时。
type Generator interface {
	Generate(ctx context.Context, req *messages.GenerateWorld) (*service.Result, error)
}

// WorldStore 由 dc.WorldDC 实现。
type WorldStore interface {
	Put(w *entity.World)
	State(ctx context.Context, id entity.WorldID) (entity.WorldState, error)
	Rename(ctx context.Context, id entity.WorldID, name string) (entity.WorldState, error)
	Flush(ctx context.Context) error
}

type IDGenerator func() (int64, error)

type SeedSource func() int64

type GenerateCmd struct {
	Width    int
	Height   int
	ReqID    string // 为空时自动分配，日志里记作 session_id
	Seed     *int64 // 为空时按名字哈希，名字也为空则随机
	Name     string
	Progress func(message string, percent int)
}

type WorldService struct {
	gen      Generator
	store    WorldStore
	catalogs *entity.Catalogs
	cfg      serverconfig.GenerationConfig
	nextID   IDGenerator
	seeds    SeedSource
	log      logx.Logger
}

func NewWorldService(gen Generator, store WorldStore, catalogs *entity.Catalogs, cfg serverconfig.GenerationConfig, nextID IDGenerator, log logx.Logger) *WorldService {
	if log == nil {
		log = logx.Nop()
	}
	return &WorldService{
		gen:      gen,
		store:    store,
		catalogs: catalogs,
		cfg:      cfg.Normalize(),
		nextID:   nextID,
		seeds:    func() int64 { return rand.Int64N(1000000) },
		log:      log,
	}
}

// WithSeedSource 替换随机种子来源（测试用）。
func (s *WorldService) WithSeedSource(src SeedSource) *WorldService {
	if src != nil {
		s.seeds = src
	}
	return s
}

// Generate 生成一个世界并登记到缓存。求解器重启次数耗尽时改用确定性兜底布局。
func (s *WorldService) Generate(ctx context.Context, cmd GenerateCmd) (entity.WorldState, error) {
	name := strings.TrimSpace(cmd.Name)
	if utf8.RuneCountInString(name) > maxWorldNameLen {
		return entity.WorldState{}, ErrWorldNameInvalid.WithData("len", utf8.RuneCountInString(name))
	}
	width := s.cfg.ClampSide(cmd.Width)
	height := s.cfg.ClampSide(cmd.Height)
	seed := s.pickSeed(cmd.Seed, name)
	reqID := cmd.ReqID
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx = tracex.WithSessionID(ctx, reqID)

	res, err := s.gen.Generate(ctx, &messages.GenerateWorld{
		GenerationBaseMessage: messages.GenerationBaseMessage{ReqID: reqID},
		Width:                 width,
		Height:                height,
		Seed:                  seed,
		Progress:              cmd.Progress,
	})
	if err != nil {
		if !errors.Is(err, service.ErrGenerationFailed) {
			return entity.WorldState{}, err
		}
		s.log.WithContext(ctx).Warn("solver exhausted restarts, using fallback layout",
			zap.Int64("seed", seed),
			zap.Int("width", width),
			zap.Int("height", height),
		)
		res, err = service.FallbackLayout(s.catalogs, width, height, seed, service.FallbackOptions{})
		if err != nil {
			return entity.WorldState{}, ErrInternalServer.WithReason(ReasonFallbackFail).WithCause(err)
		}
		if cmd.Progress != nil {
			cmd.Progress("fallback layout", 100)
		}
	}

	if name == "" {
		name = service.NameWorld(s.catalogs, res.Terrain, res.Locations, seed)
	}
	id, err := s.nextID()
	if err != nil {
		return entity.WorldState{}, ErrInternalServer.WithReason(ReasonWorldIDAlloc).WithCause(err)
	}

	state := res.State()
	state.WorldID = entity.WorldID(id)
	state.Name = name
	state.CreatedAt = time.Now()
	world := entity.NewWorld(state.WorldID, state)
	out := world.State()
	s.store.Put(world)
	if err := s.store.Flush(ctx); err != nil {
		// 落库失败不影响本次返回，writer 会重试
		s.log.WithContext(ctx).Error("world flush failed", zap.Int64("world_id", id), zap.Error(err))
	}

	s.log.WithContext(ctx).Info("world generated",
		zap.Int64("world_id", id),
		zap.String("name", name),
		zap.Int64("seed", seed),
		zap.Bool("fallback", state.Fallback),
		zap.Int("restarts", state.Restarts),
	)
	return out, nil
}

func (s *WorldService) Get(ctx context.Context, id entity.WorldID) (entity.WorldState, error) {
	return s.store.State(ctx, id)
}

func (s *WorldService) Rename(ctx context.Context, id entity.WorldID, name string) (entity.WorldState, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxWorldNameLen {
		return entity.WorldState{}, ErrWorldNameInvalid.WithData("len", utf8.RuneCountInString(name))
	}
	return s.store.Rename(ctx, id, name)
}

func (s *WorldService) pickSeed(seed *int64, name string) int64 {
	switch {
	case seed != nil:
		return *seed
	case name != "":
		return service.SeedFromString(name)
	default:
		return s.seeds()
	}
}
