// Package retry 为一次性的 HTTP 请求提供有上限的重试。
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTooManyAttempts 表示请求失败次数达到上限。
var ErrTooManyAttempts = errors.New("HTTP 错误请求次数超过阈值")

// OnError 在每次尝试失败后被调用，attempt 从 1 开始。
type OnError func(attempt int, err error)

// Do 最多调用 fn attempts 次，直到 fn 不再返回错误。
// fn 只应在传输层失败时返回错误；拿到响应（无论状态码）即视为成功，由调用方自行判断状态码。
func Do[T any](ctx context.Context, attempts int, fn func() (T, error), onError OnError) (T, error) {
	var (
		zero    T
		lastErr error
	)
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err
		if onError != nil {
			onError(attempt, err)
		}
	}
	return zero, fmt.Errorf("%w: %v", ErrTooManyAttempts, lastErr)
}

// DefaultTimeout 是单次 HTTP 请求的默认超时时间。
const DefaultTimeout = 10 * time.Second

// Deadline 返回单次请求的截止时间：now+timeout 与 ctx 截止时间中较早的一个。
// timeout 小于等于 0 时使用 DefaultTimeout。
func Deadline(ctx context.Context, timeout time.Duration) time.Time {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}
