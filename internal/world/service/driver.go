package service

import (
	"context"
	"fmt"

	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/errx"
	"Wayfarer/modules/kit/logx"

	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateSeeding
	StateStepping
	StateContradicted
	StatePlacingLocations
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeding:
		return "seeding"
	case StateStepping:
		return "stepping"
	case StateContradicted:
		return "contradicted"
	case StatePlacingLocations:
		return "placing_locations"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	DefaultMaxRestarts   = 100
	DefaultProgressEvery = 5
)

// ProgressFunc 同步回调，percent 取 0..100；回调里的 panic 会被吞掉。
type ProgressFunc func(message string, percent int)

type Options struct {
	Width         int
	Height        int
	Seed          int64
	MaxRestarts   int
	Boost         float64
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.MaxRestarts <= 0 {
		o.MaxRestarts = DefaultMaxRestarts
	}
	if !(o.Boost > 0) {
		o.Boost = DefaultBoost
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

// Driver 生成状态机，一个会话的唯一修改者，不加锁。
//
// Idle -> Seeding -> Stepping(自循环) -> PlacingLocations -> Complete
// Stepping -> Contradicted -> Seeding(重启) | Failed(重启次数耗尽)
type Driver struct {
	catalogs *entity.Catalogs
	opts     Options
	rng      RandomSource
	logger   logx.Logger
	progress ProgressFunc

	state    State
	session  *Session
	lastErr  error // 最近一次可恢复的冲突
	err      error // 终止错误
	canceled bool
}

// NewDriver 在任何生成开始前校验配置，非法返回 ErrConfiguration，不分配网格。
// rng 为空时按 opts.Seed 建 PCG 随机流；logger 为空时丢弃日志。
func NewDriver(catalogs *entity.Catalogs, opts Options, rng RandomSource, logger logx.Logger, progress ProgressFunc) (*Driver, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrConfiguration.
			WithData("width", opts.Width).
			WithData("height", opts.Height).
			WithCause(fmt.Errorf("grid size must be positive, got %dx%d", opts.Width, opts.Height))
	}
	if catalogs == nil {
		return nil, configurationError(fmt.Errorf("catalogs is nil"))
	}
	// 拷贝一份再校验，多个 Driver 共享同一份目录时互不影响
	own, err := entity.NewCatalogs(catalogs.Terrains, catalogs.Locations, catalogs.Templates)
	if err != nil {
		return nil, configurationError(err)
	}
	opts = opts.withDefaults()
	if rng == nil {
		rng = NewRandomSource(opts.Seed)
	}
	if logger == nil {
		logger = logx.Nop()
	}
	session := newSession(opts.Seed)
	return &Driver{
		catalogs: own,
		opts:     opts,
		rng:      rng,
		logger:   logger.With(zap.String("session_id", session.ID), zap.Int64("seed", opts.Seed)),
		progress: progress,
		state:    StateIdle,
		session:  session,
	}, nil
}

func (d *Driver) State() State {
	return d.state
}

func (d *Driver) Session() *Session {
	return d.session
}

// Done 到达 Complete 或 Failed，或者已被取消。
func (d *Driver) Done() bool {
	return d.canceled || d.state == StateComplete || d.state == StateFailed
}

// Err 返回终止错误（失败或取消），未终止为 nil。
func (d *Driver) Err() error {
	return d.err
}

// Cancel 协作式取消：只在两步之间生效，不会打断一次坍缩或传播。
func (d *Driver) Cancel(cause error) {
	if d.Done() {
		return
	}
	d.canceled = true
	d.err = ErrGenerationCanceled.WithData("steps", d.session.Steps).WithCause(cause)
	d.logger.Info("generation canceled", zap.Stringer("state", d.state), zap.Int("steps", d.session.Steps))
}

// Step 执行恰好一次离散转移：一次坍缩+传播、一次重启、或一次地点放置+连通。
func (d *Driver) Step() error {
	if d.canceled {
		return d.err
	}
	switch d.state {
	case StateIdle:
		d.state = StateSeeding
		d.report("seeding", 0)
	case StateSeeding:
		d.seed()
	case StateStepping:
		d.stepOnce()
	case StateContradicted:
		d.restart()
	case StatePlacingLocations:
		d.placeLocations()
	case StateComplete:
		return nil
	case StateFailed:
		return d.err
	}
	if d.state == StateFailed {
		return d.err
	}
	return nil
}

// Run 循环 Step 直到结束；ctx 只在两步之间检查。
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	for !d.Done() {
		if err := ctx.Err(); err != nil {
			d.Cancel(err)
			break
		}
		if err := d.Step(); err != nil {
			return nil, err
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	res, _ := d.Result()
	return res, nil
}

// Result 只有 Complete 时才有结果。
func (d *Driver) Result() (*Result, bool) {
	if d.state != StateComplete || d.canceled {
		return nil, false
	}
	s := d.session
	return &Result{
		SessionID: s.ID,
		Seed:      s.Seed,
		Width:     d.opts.Width,
		Height:    d.opts.Height,
		Terrain:   s.Grid.Terrain(),
		Locations: s.Placed,
		Graph:     s.Graph,
		Steps:     s.Steps,
		Restarts:  s.Restarts,
		Templates: s.Templates,
	}, true
}

func (d *Driver) seed() {
	grid, err := entity.NewWorldGrid(d.opts.Width, d.opts.Height, d.catalogs)
	if err != nil {
		// 构造时已校验过，走到这里说明目录被改坏
		d.fail(configurationError(err))
		return
	}
	d.session.Grid = grid
	d.session.Templates = SeedTemplates(grid, d.catalogs.Templates, d.rng)
	for _, t := range d.session.Templates {
		d.logger.Debug("template applied", zap.String("template", t.ID), zap.Int("x", t.Origin.X), zap.Int("y", t.Origin.Y))
	}
	d.state = StateStepping
}

func (d *Driver) stepOnce() {
	s := d.session
	if limit := d.opts.Width * d.opts.Height * 2; s.Attempts > limit {
		d.contradict(ErrContradiction.WithData("attempts", s.Attempts).WithData("limit", limit))
		return
	}
	cell, ok := s.Grid.SelectLowestEntropyCell(d.rng)
	if !ok {
		d.state = StatePlacingLocations
		d.report("placing locations", 90)
		return
	}
	if err := CollapseCell(s.Grid, cell, d.catalogs, d.rng, d.opts.Boost); err != nil {
		d.logger.Error("selected cell has no valid option", zap.Int("x", cell.Pos.X), zap.Int("y", cell.Pos.Y))
		d.contradict(err)
		return
	}
	if err := Propagate(s.Grid, cell, d.catalogs); err != nil {
		d.contradict(err)
		return
	}
	s.Steps++
	s.Attempts++
	if s.Steps%d.opts.ProgressEvery == 0 {
		total := d.opts.Width * d.opts.Height
		done := s.Grid.CollapsedCount()
		d.report(fmt.Sprintf("collapsed %d/%d cells", done, total), 5+done*80/total)
	}
}

func (d *Driver) contradict(err error) {
	d.lastErr = err
	d.state = StateContradicted
	fields := []zap.Field{zap.String("code", string(errx.CodeOf(err))), zap.Int("restarts", d.session.Restarts)}
	if x, ok := errx.DataOf(err, "x"); ok {
		fields = append(fields, zap.Any("x", x))
	}
	if y, ok := errx.DataOf(err, "y"); ok {
		fields = append(fields, zap.Any("y", y))
	}
	d.logger.Debug("contradiction", fields...)
}

func (d *Driver) restart() {
	s := d.session
	if s.Restarts >= d.opts.MaxRestarts {
		d.fail(ErrGenerationFailed.WithData("restarts", s.Restarts).WithCause(d.lastErr))
		return
	}
	s.Restarts++
	s.reset()
	d.state = StateSeeding
	d.report(fmt.Sprintf("restarting after contradiction (%d)", s.Restarts), 0)
}

func (d *Driver) placeLocations() {
	s := d.session
	s.Placed = PlaceLocations(s.Grid, d.catalogs.Locations, d.rng)
	s.Graph = BuildConnectivity(s.Placed)
	d.state = StateComplete
	d.logger.Info("generation complete",
		zap.Int("steps", s.Steps),
		zap.Int("restarts", s.Restarts),
		zap.Int("locations", len(s.Placed)),
	)
	d.report("complete", 100)
}

func (d *Driver) fail(err error) {
	d.err = err
	d.state = StateFailed
	logx.ReportSysErrorWithLoggerContext(context.Background(), d.logger, logx.NewSysLog("world.generate", err))
}

// report 回调不得影响会话：panic 被恢复并丢弃。
func (d *Driver) report(message string, percent int) {
	if d.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("progress callback panicked", zap.Any("panic", r))
		}
	}()
	d.progress(message, percent)
}
