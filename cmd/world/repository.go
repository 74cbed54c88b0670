package main

import (
	sharedmysql "Wayfarer/internal/shared/infrastructure/db"
	sharedmongo "Wayfarer/internal/shared/infrastructure/mongo"
	"Wayfarer/internal/shared/serverconfig"
	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/infra/persistence/memory"
	worldmongo "Wayfarer/internal/world/infra/persistence/mongodb"
	worldmysql "Wayfarer/internal/world/infra/persistence/mysql"
	"Wayfarer/modules/kit/logx"
	"context"
	"fmt"
	"strings"
)

// openRepository 按 persistence 选择存储；返回的 close 总是可调用。
func openRepository(ctx context.Context, conf serverconfig.Config, log logx.Logger) (port.WorldRepository, func(), error) {
	switch strings.ToLower(strings.TrimSpace(conf.Persistence)) {
	case "", "memory":
		return memory.NewWorldRepository(), func() {}, nil
	case "mongodb", "mongo":
		client, db, err := sharedmongo.Open(ctx, conf.MongoDB, log)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return worldmongo.NewWorldRepository(db), closeFn, nil
	case "mysql":
		gdb, closeDB, err := sharedmysql.Open(ctx, conf.MySQL, log)
		if err != nil {
			return nil, func() {}, err
		}
		repo := worldmysql.NewWorldRepository(gdb)
		if err := repo.AutoMigrate(); err != nil {
			_ = closeDB()
			return nil, func() {}, err
		}
		return repo, func() { _ = closeDB() }, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown persistence %q", conf.Persistence)
	}
}
