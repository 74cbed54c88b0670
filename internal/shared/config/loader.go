package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load 解析配置路径并把内容反序列化到 out，失败直接 panic（只在进程启动时调用）。
//
// 约定：
// 1) cfgName 为绝对路径直接使用；
// 2) 相对路径先按当前目录拼接，不存在则从当前目录向上逐级查找同名相对路径。
func Load(cfgName string, out any, opts ...viper.DecoderConfigOption) {
	path, err := Resolve(cfgName)
	if err != nil {
		panic(err)
	}
	if err := load(path, out, true, opts...); err != nil {
		panic(err)
	}
}

// Read 与 Load 相同，但不监听文件变更，错误以返回值给出。
func Read(cfgName string, out any, opts ...viper.DecoderConfigOption) error {
	path, err := Resolve(cfgName)
	if err != nil {
		return err
	}
	return load(path, out, false, opts...)
}

func Resolve(cfgName string) (string, error) {
	if cfgName == "" {
		return "", fmt.Errorf("config name is empty")
	}
	if filepath.IsAbs(cfgName) {
		return cfgName, nil
	}
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigUpward(curDir, cfgName)
}

func findConfigUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", rel, startDir)
		}
		dir = parent
	}
}
