package model

import (
	"math"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

// Roles 允许的角色集合
var Roles = []Role{RoleAdmin, RoleNormal}

// Valid 角色是否在允许范围内
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TimeLayout 时间戳展示格式
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp UNIX 秒（带小数），与 user.json 中的数值格式保持一致
type Timestamp float64

// Now 当前时间戳
func Now() Timestamp {
	return FromTime(time.Now())
}

// FromTime 从 time.Time 转换
func FromTime(t time.Time) Timestamp {
	return Timestamp(float64(t.UnixNano()) / float64(time.Second))
}

// Time 转换为本地时间
func (ts Timestamp) Time() time.Time {
	sec, frac := math.Modf(float64(ts))
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// String 按 TimeLayout 格式化
func (ts Timestamp) String() string {
	return ts.Time().Format(TimeLayout)
}

// User 用户记录
type User struct {
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	Active     bool      `json:"active"`
	CreateTime Timestamp `json:"create_time"`
	UpdateTime Timestamp `json:"update_time"`
	Gift       []string  `json:"gift"`
}

// NewUser 创建新用户（默认启用，奖品列表为空）
func NewUser(username string, role Role) *User {
	now := Now()
	return &User{
		Username:   username,
		Role:       role,
		Active:     true,
		CreateTime: now,
		UpdateTime: now,
		Gift:       []string{},
	}
}

// Touch 刷新更新时间
func (u *User) Touch() {
	u.UpdateTime = Now()
}

// Users 用户表，以用户名为键
type Users map[string]*User
