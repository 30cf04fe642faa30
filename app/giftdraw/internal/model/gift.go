package model

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Tier 奖池层级键
type Tier string

const (
	Level1 Tier = "level1"
	Level2 Tier = "level2"
	Level3 Tier = "level3"
	Level4 Tier = "level4"
)

var (
	// FirstTiers 一级奖池
	FirstTiers = []Tier{Level1, Level2, Level3, Level4}
	// SecondTiers 二级奖池
	SecondTiers = []Tier{Level1, Level2, Level3}
)

func containsTier(tiers []Tier, t Tier) bool {
	for _, v := range tiers {
		if v == t {
			return true
		}
	}
	return false
}

// ValidateTiers 校验一级、二级层级键
func ValidateTiers(first, second Tier) error {
	if !containsTier(FirstTiers, first) {
		return errors.Wrapf(ErrInvalidTier, "first tier %q", first)
	}
	if !containsTier(SecondTiers, second) {
		return errors.Wrapf(ErrInvalidTier, "second tier %q", second)
	}
	return nil
}

// Gift 奖品
type Gift struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Bucket 一个 (一级, 二级) 组合下的奖品集合
type Bucket map[string]*Gift

// Names 返回奖品名（排序后）
func (b Bucket) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inventory 奖品库存：一级 -> 二级 -> 奖品名 -> 奖品
type Inventory map[Tier]map[Tier]Bucket

// NewInventory 创建 4x3 空库存骨架
func NewInventory() Inventory {
	inv := make(Inventory, len(FirstTiers))
	inv.Normalize()
	return inv
}

// Normalize 补齐缺失的层级，使其始终是完整的 4x3 骨架
func (inv Inventory) Normalize() {
	for _, first := range FirstTiers {
		seconds := inv[first]
		if seconds == nil {
			seconds = make(map[Tier]Bucket, len(SecondTiers))
			inv[first] = seconds
		}
		for _, second := range SecondTiers {
			if seconds[second] == nil {
				seconds[second] = make(Bucket)
			}
		}
	}
}

// Bucket 返回指定组合的奖品集合，组合不存在时返回 nil
func (inv Inventory) Bucket(first, second Tier) Bucket {
	seconds, ok := inv[first]
	if !ok {
		return nil
	}
	return seconds[second]
}

// Lookup 查找奖品
func (inv Inventory) Lookup(first, second Tier, name string) (*Gift, bool) {
	gift, ok := inv.Bucket(first, second)[name]
	return gift, ok
}

// Add 添加奖品，已存在则累加数量；count <= 0 按 1 处理
func (inv Inventory) Add(first, second Tier, name string, count int) (*Gift, error) {
	if err := ValidateTiers(first, second); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 1
	}

	inv.Normalize()
	bucket := inv[first][second]
	if gift, ok := bucket[name]; ok {
		gift.Count += count
		return gift, nil
	}

	gift := &Gift{Name: name, Count: count}
	bucket[name] = gift
	return gift, nil
}

// SetCount 管理员直接设置数量
// 奖品不存在时返回 false
func (inv Inventory) SetCount(first, second Tier, name string, count int) (bool, error) {
	if err := ValidateTiers(first, second); err != nil {
		return false, err
	}
	if count <= 0 {
		return false, errors.Wrapf(ErrInvalidCount, "count %d", count)
	}

	gift, ok := inv.Lookup(first, second, name)
	if !ok {
		return false, nil
	}
	gift.Count = count
	return true, nil
}

// Decrement 扣减数量，扣减后不得为负
func (inv Inventory) Decrement(first, second Tier, name string, n int) (bool, error) {
	if err := ValidateTiers(first, second); err != nil {
		return false, err
	}

	gift, ok := inv.Lookup(first, second, name)
	if !ok {
		return false, nil
	}
	if gift.Count-n < 0 {
		return false, errors.Wrapf(ErrNegativeCount, "gift %q has %d, need %d", name, gift.Count, n)
	}
	gift.Count -= n
	return true, nil
}

// Remove 删除奖品并返回被删除的记录
func (inv Inventory) Remove(first, second Tier, name string) (*Gift, bool, error) {
	if err := ValidateTiers(first, second); err != nil {
		return nil, false, err
	}

	bucket := inv.Bucket(first, second)
	gift, ok := bucket[name]
	if !ok {
		return nil, false, nil
	}
	delete(bucket, name)
	return gift, true, nil
}

// Names 按层级顺序列出全部奖品名
func (inv Inventory) Names() []string {
	var names []string
	for _, first := range FirstTiers {
		for _, second := range SecondTiers {
			bucket := inv.Bucket(first, second)
			for _, name := range bucket.Names() {
				if gift := bucket[name]; gift != nil {
					names = append(names, gift.Name)
				}
			}
		}
	}
	return names
}
