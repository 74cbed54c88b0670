package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// reloadMu 串行化热更新回调，避免两次文件事件交叉写同一个 out。
var reloadMu sync.Mutex

func load(configPath string, out any, watch bool, opts ...viper.DecoderConfigOption) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := v.Unmarshal(out, opts...); err != nil {
		return fmt.Errorf("viper unmarshal %s: %w", configPath, err)
	}

	if watch {
		// todo 热更新只覆盖 out 本身，已经取走的副本不会感知变化
		v.OnConfigChange(func(e fsnotify.Event) {
			reloadMu.Lock()
			defer reloadMu.Unlock()
			log.Println("配置文件变更:", e.Name)
			if err := v.Unmarshal(out, opts...); err != nil {
				log.Println("配置热更新失败:", err)
			}
		})
		v.WatchConfig()
	}
	return nil
}

// Decode 从内存中的配置内容反序列化，format 为 viper 支持的类型（yaml/json/toml...）。
func Decode(raw []byte, format string, out any, opts ...viper.DecoderConfigOption) error {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return err
	}
	return v.Unmarshal(out, opts...)
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
