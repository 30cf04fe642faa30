package service

import (
	"math/rand"
	"time"
)

// Roller 随机源，Intn 返回 [0, n)
type Roller interface {
	Intn(n int) int
}

// NewRoller 以当前时间为种子的随机源
func NewRoller() Roller {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// cutPoint 掷 1..100 落在 (上一档, upTo] 区间时命中 tier
type cutPoint struct {
	upTo int
	tier string
}

var (
	// 一级奖池：50% / 30% / 14% / 6%
	firstCuts = []cutPoint{{50, "level1"}, {80, "level2"}, {94, "level3"}, {100, "level4"}}
	// 二级奖池：80% / 14% / 6%
	secondCuts = []cutPoint{{80, "level1"}, {94, "level2"}, {100, "level3"}}
)

// roll 掷一次 1..100
func roll(r Roller) int {
	return r.Intn(100) + 1
}

func resolve(cuts []cutPoint, n int) string {
	for _, c := range cuts {
		if n <= c.upTo {
			return c.tier
		}
	}
	return cuts[len(cuts)-1].tier
}
