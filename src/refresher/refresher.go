// Package refresher 在后台定期预取 Cookie，使请求直播流时缓存中总有较新的 Cookie。
package refresher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lthibault/jitterbug"

	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
)

// 定义状态常量用于标记预取器的状态。
const (
	begin uint32 = iota
	pending
	running
	stopped
)

// Acquirer 获取一次 Cookie，结果由其自行缓存。
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// NewRefresher 根据实例配置创建预取器，并挂到实例上。
func NewRefresher(ctx context.Context) interfaces.Module {
	inst := instance.GetInstance(ctx)
	interval := time.Duration(0)
	if inst.Config.CookieMgmt.Enable {
		interval = time.Duration(inst.Config.CookieMgmt.RefreshInterval) * time.Second
	}
	r := New(inst.CookieManager.(Acquirer), interval, inst.Logger)
	inst.CookieRefresher = r
	return r
}

// New 创建预取器，interval 小于等于 0 时 Start 不做任何事。
func New(acquirer Acquirer, interval time.Duration, logger *interfaces.Logger) interfaces.Module {
	if logger == nil {
		logger = interfaces.NewNopLogger()
	}
	return &refresher{
		acquirer: acquirer,
		interval: interval,
		jitter:   jitterbug.Norm{Stdev: time.Second * 3},
		logger:   logger,
		stop:     make(chan struct{}),
		state:    begin,
	}
}

type refresher struct {
	acquirer Acquirer
	interval time.Duration
	jitter   jitterbug.Jitter
	logger   *interfaces.Logger

	state uint32
	stop  chan struct{}
}

// Start 启动预取器。
func (r *refresher) Start(ctx context.Context) error {
	// 1. 未配置间隔时不启动。
	if r.interval <= 0 {
		return nil
	}

	// 2. 使用原子操作检查并设置状态为 pending，重复启动直接返回。
	if !atomic.CompareAndSwapUint32(&r.state, begin, pending) {
		return nil
	}
	defer atomic.CompareAndSwapUint32(&r.state, pending, running)

	// 3. 立即预取一次，然后进入主循环。
	r.refresh(ctx)
	go r.run(ctx)
	r.logger.WithField("interval", r.interval.String()).Info("Cookie 预取已启动")
	return nil
}

// Close 停止预取器。
func (r *refresher) Close(ctx context.Context) {
	if !atomic.CompareAndSwapUint32(&r.state, running, stopped) {
		return
	}
	close(r.stop)
}

func (r *refresher) refresh(ctx context.Context) {
	if _, err := r.acquirer.Acquire(ctx); err != nil {
		r.logger.WithError(err).Debug("预取 Cookie 失败")
	}
}

// run 启动预取器的主循环。
func (r *refresher) run(ctx context.Context) {
	ticker := jitterbug.New(r.interval, r.jitter)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}
