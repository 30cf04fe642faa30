//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/metrics"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/repository"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/service"
	"github.com/lk2023060901/giftdraw/pkg/app"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

func InitApp(cfg *Config, root *logger.BaseLogger) (*Runtime, func(), error) {
	panic(wire.Build(
		// 1. 基础框架 (BaseApp)
		provideAppOptions,
		app.ProviderSet,
		provideLogger,

		// 2. 存储
		provideStorageConfig,
		provideStore,

		// 3. 仓储
		repository.NewUserRepository,
		repository.NewGiftRepository,

		// 4. 指标
		provideMetricsConfig,
		metrics.New,

		// 5. 随机源
		service.NewRoller,

		// 6. 组装
		newRuntime,
	))
}
