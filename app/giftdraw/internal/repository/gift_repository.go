package repository

import (
	"context"

	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/dao"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// GiftRepository 奖品库存仓储
type GiftRepository interface {
	Inventory(ctx context.Context) (model.Inventory, error)
	// Update 读取整个库存交给 fn 修改，fn 返回 true 时写回；fn 出错或返回 false 时不写入
	Update(ctx context.Context, fn func(inv model.Inventory) (bool, error)) (bool, error)
	Add(ctx context.Context, first, second model.Tier, name string, count int) (*model.Gift, error)
	SetCount(ctx context.Context, first, second model.Tier, name string, count int) (bool, error)
	Decrement(ctx context.Context, first, second model.Tier, name string, n int) (bool, error)
	Delete(ctx context.Context, first, second model.Tier, name string) (*model.Gift, bool, error)
}

type giftRepositoryImpl struct {
	store  dao.Store
	logger logger.Logger
}

// NewGiftRepository 创建奖品仓储
func NewGiftRepository(store dao.Store, l logger.Logger) GiftRepository {
	return &giftRepositoryImpl{
		store:  store,
		logger: l.Named("repository.gift"),
	}
}

func (r *giftRepositoryImpl) Inventory(ctx context.Context) (model.Inventory, error) {
	return r.store.LoadInventory(ctx)
}

func (r *giftRepositoryImpl) Update(ctx context.Context, fn func(inv model.Inventory) (bool, error)) (bool, error) {
	inv, err := r.store.LoadInventory(ctx)
	if err != nil {
		return false, err
	}
	changed, err := fn(inv)
	if err != nil || !changed {
		return false, err
	}
	if err := r.store.SaveInventory(ctx, inv); err != nil {
		return false, err
	}
	return true, nil
}

func (r *giftRepositoryImpl) Add(ctx context.Context, first, second model.Tier, name string, count int) (*model.Gift, error) {
	if err := model.ValidateTiers(first, second); err != nil {
		return nil, err
	}

	var gift *model.Gift
	_, err := r.Update(ctx, func(inv model.Inventory) (bool, error) {
		var err error
		gift, err = inv.Add(first, second, name, count)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "gift added", "first", first, "second", second, "name", name, "count", gift.Count)
	return gift, nil
}

func (r *giftRepositoryImpl) SetCount(ctx context.Context, first, second model.Tier, name string, count int) (bool, error) {
	if err := model.ValidateTiers(first, second); err != nil {
		return false, err
	}

	ok, err := r.Update(ctx, func(inv model.Inventory) (bool, error) {
		return inv.SetCount(first, second, name, count)
	})
	if ok {
		r.logger.InfoContext(ctx, "gift count set", "first", first, "second", second, "name", name, "count", count)
	}
	return ok, err
}

func (r *giftRepositoryImpl) Decrement(ctx context.Context, first, second model.Tier, name string, n int) (bool, error) {
	return r.Update(ctx, func(inv model.Inventory) (bool, error) {
		return inv.Decrement(first, second, name, n)
	})
}

func (r *giftRepositoryImpl) Delete(ctx context.Context, first, second model.Tier, name string) (*model.Gift, bool, error) {
	var deleted *model.Gift
	ok, err := r.Update(ctx, func(inv model.Inventory) (bool, error) {
		gift, ok, err := inv.Remove(first, second, name)
		deleted = gift
		return ok, err
	})
	if err != nil || !ok {
		return nil, false, err
	}
	r.logger.InfoContext(ctx, "gift deleted", "first", first, "second", second, "name", name)
	return deleted, true, nil
}
