package theme

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"Wayfarer/internal/shared/config"
	"Wayfarer/internal/world/entity"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultName 内置主题。
const DefaultName = "fantasy"

//go:embed fantasy.yml
var fantasyRaw []byte

// Theme 一套地形/地点/模板配置；Label/Colors/Emoji 只给展示层用。
type Theme struct {
	Name        string                `mapstructure:"name"`
	Description string                `mapstructure:"description"`
	Terrains    []entity.TerrainKind  `mapstructure:"terrains"`
	Locations   []entity.LocationKind `mapstructure:"locations"`
	Templates   []entity.Template     `mapstructure:"templates"`
}

// Catalogs 校验并生成生成器使用的不可变配置包。
func (t *Theme) Catalogs() (*entity.Catalogs, error) {
	return entity.NewCatalogs(t.Terrains, t.Locations, t.Templates)
}

// Load name 为空或 fantasy 时用内置主题，否则按文件路径读取（yaml/json，向上查找相对路径）。
func Load(name string) (*Theme, error) {
	if name == "" || strings.EqualFold(name, DefaultName) {
		return Fantasy()
	}
	t := &Theme{}
	if err := config.Read(name, t, decodeHook()); err != nil {
		return nil, fmt.Errorf("load theme %s: %w", name, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if _, err := t.Catalogs(); err != nil {
		return nil, fmt.Errorf("theme %s: %w", t.Name, err)
	}
	return t, nil
}

func Fantasy() (*Theme, error) {
	t := &Theme{}
	if err := config.Decode(fantasyRaw, "yaml", t, decodeHook()); err != nil {
		return nil, fmt.Errorf("decode builtin theme: %w", err)
	}
	return t, nil
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		placementHook,
		mapstructure.StringToSliceHookFunc(","),
	))
}

var placementType = reflect.TypeOf(entity.PlacementMode(""))

// placementHook 允许配置里写 top_left / TOP-LEFT 等写法。
func placementHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != placementType || from.Kind() != reflect.String {
		return data, nil
	}
	return entity.ParsePlacementMode(reflect.ValueOf(data).String())
}
