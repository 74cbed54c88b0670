package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Wayfarer/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func TestInit_按应用名写文件(t *testing.T) {
	dir := t.TempDir()
	if err := Init("world", serverconfig.LogConfig{FileDir: dir, Level: "debug"}); err != nil {
		t.Fatalf("err=%v", err)
	}
	Info("first", zap.Int("n", 1))
	Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "world.log"))
	if err != nil {
		t.Fatalf("ReadFile err=%v", err)
	}
	if !strings.Contains(string(raw), `"msg":"first"`) {
		t.Fatalf("文件内容=%s", raw)
	}
}

func TestInit_非法级别回退(t *testing.T) {
	if err := Init("test", serverconfig.LogConfig{Level: "not-a-level"}); err != nil {
		t.Fatalf("非法级别应回退 info, err=%v", err)
	}
	if Logger() == nil || Kit() == nil {
		t.Fatalf("期望全局 logger 可用")
	}
	if Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatalf("回退后不应输出 debug")
	}
}
