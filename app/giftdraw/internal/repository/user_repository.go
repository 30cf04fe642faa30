package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/dao"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// UserRepository 用户表仓储
// 每个写操作都是一次 读全表 -> 校验 -> 修改 -> 写全表，失败时不写入
type UserRepository interface {
	Get(ctx context.Context, username string) (*model.User, bool, error)
	List(ctx context.Context) (model.Users, error)
	Create(ctx context.Context, username string, role model.Role) (*model.User, error)
	ChangeRole(ctx context.Context, username string, role model.Role) (bool, error)
	ToggleActive(ctx context.Context, username string) (bool, error)
	AppendGift(ctx context.Context, username string, gift string) (bool, error)
	Delete(ctx context.Context, username string) (*model.User, bool, error)
}

type userRepositoryImpl struct {
	store  dao.Store
	logger logger.Logger
}

// NewUserRepository 创建用户仓储
func NewUserRepository(store dao.Store, l logger.Logger) UserRepository {
	return &userRepositoryImpl{
		store:  store,
		logger: l.Named("repository.user"),
	}
}

// update 读取全表交给 fn 修改，fn 返回 true 时整表写回
func (r *userRepositoryImpl) update(ctx context.Context, fn func(users model.Users) (bool, error)) (bool, error) {
	users, err := r.store.LoadUsers(ctx)
	if err != nil {
		return false, err
	}
	changed, err := fn(users)
	if err != nil || !changed {
		return false, err
	}
	if err := r.store.SaveUsers(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepositoryImpl) Get(ctx context.Context, username string) (*model.User, bool, error) {
	users, err := r.store.LoadUsers(ctx)
	if err != nil {
		return nil, false, err
	}
	u, ok := users[username]
	return u, ok, nil
}

func (r *userRepositoryImpl) List(ctx context.Context) (model.Users, error) {
	return r.store.LoadUsers(ctx)
}

func (r *userRepositoryImpl) Create(ctx context.Context, username string, role model.Role) (*model.User, error) {
	if username == "" {
		return nil, errors.Wrap(model.ErrInvalidUsername, "missing username")
	}
	if !role.Valid() {
		return nil, errors.Wrapf(model.ErrInvalidRole, "role %q", role)
	}

	var created *model.User
	_, err := r.update(ctx, func(users model.Users) (bool, error) {
		if _, ok := users[username]; ok {
			return false, errors.Wrapf(model.ErrUserExists, "username %s", username)
		}
		created = model.NewUser(username, role)
		users[username] = created
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "user created", "username", username, "role", role)
	return created, nil
}

func (r *userRepositoryImpl) ChangeRole(ctx context.Context, username string, role model.Role) (bool, error) {
	if !role.Valid() {
		return false, errors.Wrapf(model.ErrInvalidRole, "role %q", role)
	}

	ok, err := r.update(ctx, func(users model.Users) (bool, error) {
		u, ok := users[username]
		if !ok {
			return false, nil
		}
		u.Role = role
		u.Touch()
		return true, nil
	})
	if ok {
		r.logger.InfoContext(ctx, "user role changed", "username", username, "role", role)
	}
	return ok, err
}

func (r *userRepositoryImpl) ToggleActive(ctx context.Context, username string) (bool, error) {
	var active bool
	ok, err := r.update(ctx, func(users model.Users) (bool, error) {
		u, ok := users[username]
		if !ok {
			return false, nil
		}
		u.Active = !u.Active
		u.Touch()
		active = u.Active
		return true, nil
	})
	if ok {
		r.logger.InfoContext(ctx, "user active toggled", "username", username, "active", active)
	}
	return ok, err
}

// AppendGift 记录用户获得的奖品
func (r *userRepositoryImpl) AppendGift(ctx context.Context, username string, gift string) (bool, error) {
	return r.update(ctx, func(users model.Users) (bool, error) {
		u, ok := users[username]
		if !ok {
			return false, nil
		}
		u.Gift = append(u.Gift, gift)
		return true, nil
	})
}

// Delete 删除用户并返回被删除的记录（命令行未使用）
func (r *userRepositoryImpl) Delete(ctx context.Context, username string) (*model.User, bool, error) {
	var deleted *model.User
	ok, err := r.update(ctx, func(users model.Users) (bool, error) {
		u, ok := users[username]
		if !ok {
			return false, nil
		}
		deleted = u
		delete(users, username)
		return true, nil
	})
	if err != nil || !ok {
		return nil, false, err
	}
	r.logger.InfoContext(ctx, "user deleted", "username", username)
	return deleted, true, nil
}
