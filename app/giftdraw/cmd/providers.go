package main

import (
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/dao"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/metrics"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/repository"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/service"
	"github.com/lk2023060901/giftdraw/pkg/app"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// Runtime 一次运行所需的全部组件
type Runtime struct {
	App     *app.BaseApp
	Logger  logger.Logger
	Users   repository.UserRepository
	Gifts   repository.GiftRepository
	Metrics *metrics.Metrics
	Roller  service.Roller
}

// provideAppOptions 提供应用选项
func provideAppOptions(root *logger.BaseLogger) []app.Option {
	return []app.Option{
		app.WithName(app.AppName),
		app.WithLogger(root),
	}
}

// provideLogger 组件统一使用带 run_id 的应用日志
func provideLogger(a *app.BaseApp) logger.Logger {
	return a.AppLogger()
}

// provideStorageConfig 提供存储配置
func provideStorageConfig(cfg *Config) *dao.Config {
	return &cfg.Storage
}

// provideStore 打开存储，cleanup 负责关闭
func provideStore(cfg *dao.Config, l logger.Logger) (dao.Store, func(), error) {
	store, err := dao.New(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			l.Error("failed to close store", "error", err)
		}
	}
	return store, cleanup, nil
}

// provideMetricsConfig 提供指标配置
func provideMetricsConfig(cfg *Config) *metrics.Config {
	return &cfg.Metrics
}

// newRuntime 组装组件，指标在命令结束后由 BaseApp 写出
func newRuntime(
	baseApp *app.BaseApp,
	l logger.Logger,
	users repository.UserRepository,
	gifts repository.GiftRepository,
	m *metrics.Metrics,
	roller service.Roller,
) *Runtime {
	baseApp.AppendCloser(m)
	return &Runtime{
		App:     baseApp,
		Logger:  l,
		Users:   users,
		Gifts:   gifts,
		Metrics: m,
		Roller:  roller,
	}
}
