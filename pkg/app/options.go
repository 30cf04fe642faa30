package app

import (
	"github.com/google/uuid"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// Options 应用配置选项
type Options struct {
	ID     string
	Name   string
	Logger logger.Logger
}

// Option 定义配置函数
type Option func(*Options)

// DefaultOptions 返回默认配置，每次运行生成新的 ID
func DefaultOptions() Options {
	return Options{
		ID:     uuid.NewString(),
		Name:   AppName,
		Logger: logger.NewNoop(),
	}
}

// WithLogger 设置应用日志器
func WithLogger(l logger.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithID 设置运行 ID
func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

// WithName 设置应用名称
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}
