package main

import (
	"Wayfarer/internal/shared/gameconfig/theme"
	"Wayfarer/internal/shared/logs"
	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/serverconfig"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/interfaces/handler/http/dto"
	"Wayfarer/internal/world/render"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	width   int
	height  int
	seed    int64
	name    string
	theme   string
	preview bool
	verbose bool

	issueToken string
	tokenTTL   time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("worldgen", pflag.ContinueOnError)
	fs.IntVar(&o.width, "width", 10, "grid width")
	fs.IntVar(&o.height, "height", 10, "grid height")
	fs.Int64Var(&o.seed, "seed", -1, "generation seed; negative derives it from --name or picks one at random")
	fs.StringVar(&o.name, "name", "", "world name, also hashed into the seed when --seed is negative")
	fs.StringVar(&o.theme, "theme", "", "theme file (yaml/json); empty uses the built-in fantasy theme")
	fs.BoolVar(&o.preview, "preview", false, "draw the world in the terminal instead of printing JSON")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log solver progress to stderr")
	fs.StringVar(&o.issueToken, "issue-token", "", "print a world:write token for this subject (needs JWT_SECRET) and exit")
	fs.DurationVar(&o.tokenTTL, "token-ttl", security.DefaultTokenTTL, "lifetime of the issued token")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.width <= 0 || o.height <= 0 {
		return o, fmt.Errorf("width and height must be positive, got %dx%d", o.width, o.height)
	}
	if o.seed < 0 {
		if o.name != "" {
			o.seed = service.SeedFromString(o.name)
		} else {
			o.seed = rand.Int64N(1000000)
		}
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 返回进程退出码；所有 defer 在退出前执行。
func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	fail := func(err error) int {
		fmt.Fprintln(stderr, "worldgen:", err)
		return 1
	}

	if o.issueToken != "" {
		token, err := security.Award(o.issueToken, []string{security.ScopeWorldWrite}, o.tokenTTL)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, token)
		return 0
	}

	// 不开 -v 时全局 logger 保持 Nop
	if o.verbose {
		if err := logs.Init("worldgen", serverconfig.LogConfig{Level: "debug", Dev: true}); err != nil {
			return fail(err)
		}
	}
	defer logs.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	th, err := theme.Load(o.theme)
	if err != nil {
		return fail(err)
	}
	catalogs, err := th.Catalogs()
	if err != nil {
		return fail(err)
	}

	world, err := generate(ctx, catalogs, o, logs.Kit())
	if err != nil {
		return fail(err)
	}

	if o.preview {
		if err := preview(catalogs, world); err != nil {
			return fail(err)
		}
		return 0
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.FromWorldState(world)); err != nil {
		return fail(err)
	}
	return 0
}

// generate 直接驱动求解器；重启耗尽时退回确定性布局。
func generate(ctx context.Context, catalogs *entity.Catalogs, o options, logger logx.Logger) (entity.WorldState, error) {
	progress := func(msg string, pct int) {
		logger.Debug("progress", zap.String("message", msg), zap.Int("percent", pct))
	}
	d, err := service.NewDriver(catalogs, service.Options{Width: o.width, Height: o.height, Seed: o.seed}, nil, logger, progress)
	if err != nil {
		return entity.WorldState{}, err
	}
	res, err := d.Run(ctx)
	if errors.Is(err, service.ErrGenerationFailed) {
		logger.Warn("solver exhausted restarts, using fallback layout", zap.Error(err))
		res, err = service.FallbackLayout(catalogs, o.width, o.height, o.seed, service.FallbackOptions{})
	}
	if err != nil {
		return entity.WorldState{}, err
	}

	st := res.State()
	st.Name = o.name
	if st.Name == "" {
		st.Name = service.NameWorld(catalogs, res.Terrain, res.Locations, o.seed)
	}
	st.CreatedAt = time.Now()
	return st, nil
}

func preview(catalogs *entity.Catalogs, world entity.WorldState) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	r := render.NewRenderer(render.NewPalette(catalogs, world.Seed), render.NewLocationOverlay(catalogs, world.Locations))
	r.Draw(screen, world)
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			r.Draw(screen, world)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		case nil:
			return nil
		}
	}
}
