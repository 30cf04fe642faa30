package model

import (
	"github.com/cockroachdb/errors"
)

// 业务错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("giftdraw: user not found")

	// ErrUserInactive 用户已停用
	ErrUserInactive = errors.New("giftdraw: user inactive")

	// ErrForbidden 角色不允许此操作
	ErrForbidden = errors.New("giftdraw: permission denied")

	// ErrUserExists 用户名已存在
	ErrUserExists = errors.New("giftdraw: user already exists")

	// ErrInvalidUsername 用户名为空
	ErrInvalidUsername = errors.New("giftdraw: invalid username")

	// ErrInvalidRole 角色不在允许范围内
	ErrInvalidRole = errors.New("giftdraw: invalid role")

	// ErrInvalidTier 奖池层级不存在
	ErrInvalidTier = errors.New("giftdraw: invalid tier")

	// ErrInvalidCount 管理员设置的数量必须为正数
	ErrInvalidCount = errors.New("giftdraw: invalid gift count")

	// ErrNegativeCount 扣减后数量为负
	ErrNegativeCount = errors.New("giftdraw: gift count can not be negative")

	// ErrNotFile 存储路径不是文件
	ErrNotFile = errors.New("giftdraw: storage path is not a file")

	// ErrNotJSON 存储文件不是 json
	ErrNotJSON = errors.New("giftdraw: storage file is not json")
)

// IsPermissionError 是否为鉴权失败（不存在、停用、角色不符）
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrForbidden)
}

// IsValidationError 是否为参数校验失败
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidTier) ||
		errors.Is(err, ErrInvalidCount)
}
