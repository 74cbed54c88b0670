package serverconfig

import "testing"

func TestGenerationConfig_Normalize_回填默认值(t *testing.T) {
	g := GenerationConfig{}.Normalize()
	if g.MinSide != DefaultMinSide || g.MaxSide != DefaultMaxSide {
		t.Fatalf("side got=[%d,%d]", g.MinSide, g.MaxSide)
	}
	if g.MaxRestarts != DefaultMaxRestarts || g.Boost != DefaultBoost || g.ProgressEvery != DefaultProgressEvery {
		t.Fatalf("got=%+v", g)
	}
}

func TestGenerationConfig_ClampSide(t *testing.T) {
	g := GenerationConfig{}.Normalize()
	if got := g.ClampSide(3); got != 8 {
		t.Fatalf("got=%d", got)
	}
	if got := g.ClampSide(40); got != 12 {
		t.Fatalf("got=%d", got)
	}
	if got := g.ClampSide(10); got != 10 {
		t.Fatalf("got=%d", got)
	}
}
