package serverconfig

import (
	"Wayfarer/internal/shared/config"
	"os"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load() {
	cfgPath := os.Getenv("WAYFARER_CONFIG")
	if cfgPath == "" {
		cfgPath = defaultConfigRelPath
	}
	config.Load(cfgPath, &Conf)
	Conf.Generation = Conf.Generation.Normalize()
	// 环境变量优先；未设置时回填配置中的 jwt_secret，兼容本地开发。
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}
