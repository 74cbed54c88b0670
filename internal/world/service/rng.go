package service

import "math/rand/v2"

// RandomSource 一次生成会话唯一的随机流。
//
// 约束：单消费者；模板、平局、坍缩、地点的所有随机决策按调用顺序从这里取数。
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

type pcgSource struct {
	r *rand.Rand
}

// NewRandomSource 用 PCG 建一个可复现的随机流。
func NewRandomSource(seed int64) RandomSource {
	return &pcgSource{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

func (s *pcgSource) Float64() float64 {
	return s.r.Float64()
}

// IntN n <= 0 时返回 0，不 panic。
func (s *pcgSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}
