package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lk2023060901/giftdraw/pkg/logger"
)

var (
	ErrAppAlreadyRunning = errors.New("application is already running")
)

// Command 一次性执行的命令
type Command func(ctx context.Context) error

// Closer 资源清理接口（存储、指标等）
type Closer interface {
	Close() error
}

// BaseApp 命令行应用的生命周期：执行一个命令，然后逆序清理资源
type BaseApp struct {
	opts    Options
	logger  logger.Logger
	closers []Closer

	mu      sync.Mutex
	started atomic.Bool
}

// NewBaseApp 创建 BaseApp
func NewBaseApp(opts ...Option) *BaseApp {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &BaseApp{
		opts:   o,
		logger: o.Logger.Named(o.Name).WithFields("run_id", o.ID),
	}
}

// ID 本次运行 ID
func (a *BaseApp) ID() string {
	return a.opts.ID
}

// AppLogger 获取应用主日志对象
func (a *BaseApp) AppLogger() logger.Logger {
	return a.logger
}

// AppendCloser 添加资源清理组件
func (a *BaseApp) AppendCloser(closer ...Closer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, closer...)
}

// Run 执行命令，收到 SIGINT/SIGTERM 时取消 context
// 无论命令成功与否都会关闭所有 Closer
func (a *BaseApp) Run(cmd Command) error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := GetInfo()
	a.logger.Debug("command starting",
		"version", info.Version,
		"commit", info.GitCommit,
		"go_version", info.GoVersion,
	)

	start := time.Now()
	err := cmd(ctx)
	if err != nil {
		a.logger.Debug("command failed", "error", err, "elapsed", time.Since(start))
	} else {
		a.logger.Debug("command finished", "elapsed", time.Since(start))
	}

	a.shutdown()
	return err
}

// shutdown 逆序关闭所有 Closer（LIFO）
func (a *BaseApp) shutdown() {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			a.logger.Error("failed to close component", "error", err)
		}
	}
	_ = a.logger.Sync()
}
