package main

import (
	"Wayfarer/internal/shared/gameconfig/theme"
	"Wayfarer/internal/shared/logs"
	"Wayfarer/internal/shared/serverconfig"
	transporthttp "Wayfarer/internal/shared/transport/http"
	"Wayfarer/internal/shared/transport/ws"
	"Wayfarer/internal/shared/utils"
	worldactor "Wayfarer/internal/world/actor"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/dc"
	"Wayfarer/internal/world/interfaces"
	"Wayfarer/internal/world/service"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("world", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	genCfg := serverconfig.Conf.Generation
	th, err := theme.Load(genCfg.Theme)
	if err != nil {
		logs.Fatal("load theme failed", zap.String("theme", genCfg.Theme), zap.Error(err))
	}
	catalogs, err := th.Catalogs()
	if err != nil {
		logs.Fatal("invalid theme catalogs", zap.String("theme", th.Name), zap.Error(err))
	}

	nodeID, err := utils.NodeIDFromEnv()
	if err != nil {
		logs.Fatal("read node id failed", zap.Error(err))
	}
	idNode, err := utils.NewIDNode(nodeID)
	if err != nil {
		logs.Fatal("create id node failed", zap.Error(err))
	}

	baseLogger := logs.Kit()
	repo, closeRepo, err := openRepository(context.Background(), serverconfig.Conf, baseLogger)
	if err != nil {
		logs.Fatal("open world repository failed", zap.String("persistence", serverconfig.Conf.Persistence), zap.Error(err))
	}
	defer closeRepo()

	worldCfg := serverconfig.Conf.WorldServer
	worldDC := dc.NewWorldDC(repo, baseLogger, time.Duration(worldCfg.FlushEveryS)*time.Second)
	runtime := worldactor.NewRuntime(catalogs, service.Options{
		MaxRestarts:   genCfg.MaxRestarts,
		Boost:         genCfg.Boost,
		ProgressEvery: genCfg.ProgressEvery,
	}, worldDC, baseLogger, time.Duration(worldCfg.AskTimeoutS)*time.Second)

	worldService := app.NewWorldService(runtime, worldDC, catalogs, genCfg, idNode.Next, baseLogger)
	worldModule := interfaces.New(worldService, baseLogger)

	httpCfg := serverconfig.Conf.HTTPServer
	host := httpCfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, httpCfg.Port)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(worldModule)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		worldModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}
	wsServer := ws.NewServer(wsRouter, baseLogger)
	httpServer.Group().GET("/worlds/ws", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("world server listening", zap.String("addr", addr), zap.String("theme", th.Name))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("world server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	runtime.Shutdown()
	if err := worldDC.Flush(shutdownCtx); err != nil {
		logs.Error("final world flush failed", zap.Error(err))
	}
	if err := worldDC.Close(shutdownCtx); err != nil {
		logs.Error("world dc close failed", zap.Error(err))
	}
}
