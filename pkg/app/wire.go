package app

import (
	"github.com/google/wire"
)

// ProviderSet 导出给 Wire 使用
var ProviderSet = wire.NewSet(
	NewBaseApp,
)

// MapCloser 将实现了 Close() error 的对象转换为 Closer
func MapCloser(c interface{ Close() error }) Closer {
	return closerWrapper{c}
}

// CloserFunc 函数形式的 Closer
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

type closerWrapper struct {
	obj interface{ Close() error }
}

func (w closerWrapper) Close() error {
	return w.obj.Close()
}
