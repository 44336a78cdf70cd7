package interfaces

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Module 是所有可启停组件（服务器、刷新器、指标收集器等）的公共接口。
type Module interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
}

// Logger 包装 logrus.Logger，在各模块之间共享。
type Logger struct {
	*logrus.Logger
}

// NewNopLogger 返回一个丢弃所有输出的日志记录器，测试和库调用方使用。
func NewNopLogger() *Logger {
	l := logrus.New()
	l.Out = io.Discard
	return &Logger{Logger: l}
}
