package service

import (
	"context"

	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/repository"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// AdminService 管理员服务：用户管理与奖品库存维护
type AdminService struct {
	logger   logger.Logger
	operator Operator
	users    repository.UserRepository
	gifts    repository.GiftRepository
}

// NewAdminService 创建管理员服务，操作者必须是已启用的管理员
func NewAdminService(
	ctx context.Context,
	operator Operator,
	users repository.UserRepository,
	gifts repository.GiftRepository,
	l logger.Logger,
) (*AdminService, error) {
	if _, err := authorize(ctx, users, operator, model.RoleAdmin); err != nil {
		return nil, err
	}
	return &AdminService{
		logger:   l.Named("service.admin"),
		operator: operator,
		users:    users,
		gifts:    gifts,
	}, nil
}

func (s *AdminService) guard(ctx context.Context) (context.Context, error) {
	if _, err := authorize(ctx, s.users, s.operator, model.RoleAdmin); err != nil {
		s.logger.WarnContext(ctx, "admin check failed", "operator", s.operator, "error", err)
		return ctx, err
	}
	return logger.WithOperator(ctx, string(s.operator)), nil
}

// AddUser 新建用户
func (s *AdminService) AddUser(ctx context.Context, username string, role model.Role) (*model.User, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, username, role)
}

// ToggleActive 切换用户启用状态，用户不存在时返回 false
func (s *AdminService) ToggleActive(ctx context.Context, username string) (bool, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return false, err
	}
	return s.users.ToggleActive(ctx, username)
}

// ChangeRole 修改用户角色，用户不存在时返回 false
func (s *AdminService) ChangeRole(ctx context.Context, username string, role model.Role) (bool, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return false, err
	}
	return s.users.ChangeRole(ctx, username, role)
}

// ListUsers 全部用户
func (s *AdminService) ListUsers(ctx context.Context) (model.Users, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// AddGift 添加奖品，count <= 0 按 1 处理，已存在则累加
func (s *AdminService) AddGift(ctx context.Context, first, second model.Tier, name string, count int) (*model.Gift, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}
	return s.gifts.Add(ctx, first, second, name, count)
}

// SetGiftCount 覆盖奖品数量，奖品不存在时返回 false
func (s *AdminService) SetGiftCount(ctx context.Context, first, second model.Tier, name string, count int) (bool, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return false, err
	}
	return s.gifts.SetCount(ctx, first, second, name, count)
}

// DeleteGift 删除奖品并返回被删除的记录，奖品不存在时返回 false
func (s *AdminService) DeleteGift(ctx context.Context, first, second model.Tier, name string) (*model.Gift, bool, error) {
	ctx, err := s.guard(ctx)
	if err != nil {
		return nil, false, err
	}
	return s.gifts.Delete(ctx, first, second, name)
}

// Inventory 完整库存
func (s *AdminService) Inventory(ctx context.Context) (model.Inventory, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.gifts.Inventory(ctx)
}
