package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/metrics"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/repository"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// Outcome 抽奖结果
type Outcome string

const (
	OutcomeNoPrize     Outcome = "no_prize"    // 奖池为空
	OutcomeUnavailable Outcome = "unavailable" // 抽中的奖品数量为 0
	OutcomeWon         Outcome = "won"
)

// DrawResult 一次抽奖的结果
type DrawResult struct {
	Outcome Outcome
	First   model.Tier
	Second  model.Tier
	Gift    *model.Gift // OutcomeNoPrize 时为 nil
}

// UserService 普通用户服务：抽奖与查看奖品
type UserService struct {
	logger   logger.Logger
	operator Operator
	users    repository.UserRepository
	gifts    repository.GiftRepository
	roller   Roller
	metrics  *metrics.Metrics
}

// NewUserService 创建普通用户服务，操作者必须是已启用的普通用户
func NewUserService(
	ctx context.Context,
	operator Operator,
	users repository.UserRepository,
	gifts repository.GiftRepository,
	roller Roller,
	m *metrics.Metrics,
	l logger.Logger,
) (*UserService, error) {
	if _, err := authorize(ctx, users, operator, model.RoleNormal); err != nil {
		return nil, err
	}
	return &UserService{
		logger:   l.Named("service.user"),
		operator: operator,
		users:    users,
		gifts:    gifts,
		roller:   roller,
		metrics:  m,
	}, nil
}

func (s *UserService) guard(ctx context.Context) (context.Context, error) {
	if _, err := authorize(ctx, s.users, s.operator, model.RoleNormal); err != nil {
		s.logger.WarnContext(ctx, "user check failed", "operator", s.operator, "error", err)
		return ctx, err
	}
	return logger.WithOperator(ctx, string(s.operator)), nil
}

// Draw 抽奖
//  1. 两次独立掷 1..100，分别确定一级、二级奖池
//  2. 奖池为空：未中奖，不写入
//  3. 在奖池中等概率选一个奖品（与数量无关），数量为 0：奖品已抽完，不写入
//  4. 否则按奖池中的键扣减一个，先写奖品库存，再把同一个键追加到用户记录
func (s *UserService) Draw(ctx context.Context) (*DrawResult, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	result := &DrawResult{
		First:  model.Tier(resolve(firstCuts, roll(s.roller))),
		Second: model.Tier(resolve(secondCuts, roll(s.roller))),
	}

	var won string
	_, err = s.gifts.Update(ctx, func(inv model.Inventory) (bool, error) {
		bucket := inv.Bucket(result.First, result.Second)
		names := bucket.Names()
		if len(names) == 0 {
			result.Outcome = OutcomeNoPrize
			return false, nil
		}

		key := names[s.roller.Intn(len(names))]
		gift := bucket[key]
		if gift.Count == 0 {
			result.Outcome = OutcomeUnavailable
			result.Gift = &model.Gift{Name: key, Count: gift.Count}
			return false, nil
		}

		// 写库存前确认用户仍在，两次写入之间只剩 I/O 可能失败
		if _, ok, err := s.users.Get(ctx, string(s.operator)); err != nil {
			return false, err
		} else if !ok {
			return false, errors.Wrapf(model.ErrUserNotFound, "username %s", s.operator)
		}

		ok, err := inv.Decrement(result.First, result.Second, key, 1)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, errors.Newf("gift %q vanished from %s/%s", key, result.First, result.Second)
		}
		won = key
		result.Outcome = OutcomeWon
		result.Gift = &model.Gift{Name: key, Count: gift.Count}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeWon {
		ok, err := s.users.AppendGift(ctx, string(s.operator), won)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(model.ErrUserNotFound, "username %s", s.operator)
		}
	}

	s.metrics.RecordDraw(string(result.Outcome), string(result.First))
	s.logger.InfoContext(ctx, "draw finished",
		"outcome", result.Outcome,
		"first", result.First,
		"second", result.Second,
		"gift", giftName(result.Gift),
	)
	return result, nil
}

// ListGiftNames 全部奖品名
func (s *UserService) ListGiftNames(ctx context.Context) ([]string, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}
	inv, err := s.gifts.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	return inv.Names(), nil
}

// Profile 操作者自己的记录
func (s *UserService) Profile(ctx context.Context) (*model.User, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}
	u, ok, err := s.users.Get(ctx, string(s.operator))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(model.ErrUserNotFound, "username %s", s.operator)
	}
	return u, nil
}

func giftName(g *model.Gift) string {
	if g == nil {
		return ""
	}
	return g.Name
}
