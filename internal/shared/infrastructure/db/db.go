package db

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"Wayfarer/internal/shared/logs"
	"Wayfarer/internal/shared/serverconfig"
	"Wayfarer/modules/kit/logx"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultCharset = "utf8mb4"
	slowQuery      = 200 * time.Millisecond
	connMaxLife    = 30 * time.Minute
)

// DSN 用驱动自带的 Config 拼，避免密码里的特殊字符破坏格式。
func DSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = defaultCharset
	}
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.DBName
	c.ParseTime = true
	c.Loc = time.Local
	c.Params = map[string]string{"charset": charset}
	return c.FormatDSN()
}

// Open 建连并 ping；返回的 close 关闭底层连接池。
func Open(ctx context.Context, cfg serverconfig.MySQLConfig, log logx.Logger) (*gorm.DB, func() error, error) {
	if log == nil {
		log = logx.Nop()
	}
	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logs.NewGormLogger(logger.Warn, slowQuery),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql %s/%s: %w", cfg.Host, cfg.DBName, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(connMaxLife)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping mysql: %w", err)
	}

	log.Info("open mysql success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
	)
	return gdb, sqlDB.Close, nil
}
