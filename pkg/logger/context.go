package logger

import (
	"context"

	"go.uber.org/zap"
)

type operatorKey struct{}

// ContextFieldExtractor 从 context 提取字段的函数类型
type ContextFieldExtractor func(ctx context.Context) []zap.Field

// DefaultContextExtractor 提取 WithOperator 写入的操作者
func DefaultContextExtractor(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	if op, ok := ctx.Value(operatorKey{}).(string); ok && op != "" {
		return []zap.Field{zap.String("operator", op)}
	}
	return nil
}

// WithOperator 在 context 中记录当前操作者
func WithOperator(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, operatorKey{}, username)
}

// OperatorFrom 读取当前操作者
func OperatorFrom(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey{}).(string)
	return op
}
