package service

import (
	"strings"
	"testing"

	"Wayfarer/internal/world/entity"
)

func TestSeedFromString(t *testing.T) {
	cases := map[string]int64{
		"":   0,
		"a":  97,
		"ab": 97*31 + 98,
	}
	for in, want := range cases {
		if got := SeedFromString(in); got != want {
			t.Fatalf("SeedFromString(%q)=%d want=%d", in, got, want)
		}
	}
	long := SeedFromString("The Whispering Realm of the Glass Rivers")
	if long < 0 || long >= 1000000 {
		t.Fatalf("种子应落在 [0,1000000), got=%d", long)
	}
	if long != SeedFromString("The Whispering Realm of the Glass Rivers") {
		t.Fatalf("同名应得到同一种子")
	}
}

func TestNameWorld_使用主导地形且不影响生成随机流(t *testing.T) {
	c := fantasyLikeCatalogs(t)
	terrain := [][]entity.TerrainID{{"water", "water"}, {"water", "meadow"}}
	name := NameWorld(c, terrain, nil, 9)
	if !strings.Contains(name, "Glass Rivers") {
		t.Fatalf("名字应包含主导地形标签, got=%q", name)
	}
	if again := NameWorld(c, terrain, nil, 9); again != name {
		t.Fatalf("同一种子名字应一致: %q vs %q", name, again)
	}

	placed := []entity.PlacedLocation{{Kind: "wharf"}}
	for seed := int64(0); seed < 20; seed++ {
		if n := NameWorld(c, terrain, placed, seed); n == "" {
			t.Fatalf("seed=%d 名字为空", seed)
		}
	}
}
