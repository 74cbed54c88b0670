package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Wayfarer/internal/shared/serverconfig"
	"Wayfarer/modules/kit/logx"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	defaultDatabase = "wayfarer"
	defaultTimeout  = 3 * time.Second
)

var ErrURIEmpty = errors.New("mongodb uri is empty")

// Open 连接并 ping 主节点。uri 可能带口令，不写进日志。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, log logx.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, ErrURIEmpty
	}
	if log == nil {
		log = logx.Nop()
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = defaultDatabase
	}
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetAppName("wayfarer"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info("open mongodb success", zap.String("database", dbName))
	return client, client.Database(dbName), nil
}
