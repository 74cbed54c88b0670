package config

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `mapstructure:"name"`
	Width int    `mapstructure:"width"`
}

func TestRead_相对路径向上查找(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "configs", "conf.yml"), []byte("name: realm\nwidth: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(deep)

	var got sample
	if err := Read("configs/conf.yml", &got); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Name != "realm" || got.Width != 10 {
		t.Fatalf("got=%+v", got)
	}
}

func TestRead_文件不存在返回错误(t *testing.T) {
	t.Chdir(t.TempDir())
	var got sample
	if err := Read("configs/missing.yml", &got); err == nil {
		t.Fatalf("期望返回错误")
	}
}

func TestDecode_内存JSON(t *testing.T) {
	var got sample
	if err := Decode([]byte(`{"name":"x","width":8}`), "json", &got); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Width != 8 {
		t.Fatalf("got=%+v", got)
	}
}
