package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/repository"
)

// Operator 发起操作的用户名
type Operator string

// authorize 读取用户表并按 不存在 -> 停用 -> 角色不符 的顺序校验操作者
// 不缓存结果，每次调用都重新读取
func authorize(ctx context.Context, users repository.UserRepository, operator Operator, role model.Role) (*model.User, error) {
	u, ok, err := users.Get(ctx, string(operator))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(model.ErrUserNotFound, "username %s", operator)
	}
	if !u.Active {
		return nil, errors.Wrapf(model.ErrUserInactive, "username %s", operator)
	}
	if u.Role != role {
		return nil, errors.Wrapf(model.ErrForbidden, "username %s is %s, need %s", operator, u.Role, role)
	}
	return u, nil
}
