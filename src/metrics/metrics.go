package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
)

const namespace = "bsh"

// result 标签的取值
const (
	resultResolved = "resolved"
	resultNotFound = "not_found"
	resultUpdated  = "updated"
	resultFailed   = "failed"
)

// 定义一些 Prometheus 指标的描述符
var (
	streamResolveTotal = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "stream", "resolve_total"),
		"stream url resolve results",
		[]string{"result"},
		nil,
	)
	mirrorErrorsTotal = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "mirror", "errors_total"),
		"failed mirror requests",
		[]string{"mirror"},
		nil,
	)
	cookieAcquireTotal = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cookie", "acquire_total"),
		"cookie acquire results",
		[]string{"result"},
		nil,
	)
	cookieCached = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cookie", "cached"),
		"whether a cookie is cached",
		nil,
		nil,
	)
)

// CookieCache 返回当前缓存的 Cookie。
type CookieCache interface {
	Cached() string
}

// collector 结构表示 Prometheus 指标收集器，计数来自事件。
type collector struct {
	lock         sync.Mutex
	resolve      map[string]float64
	mirrorErrors map[string]float64
	cookie       map[string]float64

	ed         events.Dispatcher
	cookies    CookieCache
	registerer prometheus.Registerer
}

// NewCollector 创建一个新的收集器实例
func NewCollector(ctx context.Context) interfaces.Module {
	inst := instance.GetInstance(ctx)
	var (
		ed      events.Dispatcher
		cookies CookieCache
	)
	if inst.EventDispatcher != nil {
		ed = inst.EventDispatcher.(events.Dispatcher)
	}
	if inst.CookieManager != nil {
		cookies = inst.CookieManager.(CookieCache)
	}
	return New(ed, cookies, prometheus.DefaultRegisterer)
}

// New 创建收集器，Start 时向 registerer 注册并订阅事件。
func New(ed events.Dispatcher, cookies CookieCache, registerer prometheus.Registerer) interfaces.Module {
	return &collector{
		resolve:      make(map[string]float64),
		mirrorErrors: make(map[string]float64),
		cookie:       make(map[string]float64),
		ed:           ed,
		cookies:      cookies,
		registerer:   registerer,
	}
}

func (c *collector) inc(m map[string]float64, label string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	m[label]++
}

func (c *collector) registryListeners() {
	if c.ed == nil {
		return
	}
	c.ed.AddEventListener(hook.StreamResolved, events.NewEventListener(func(*events.Event) {
		c.inc(c.resolve, resultResolved)
	}))
	c.ed.AddEventListener(hook.StreamNotFound, events.NewEventListener(func(*events.Event) {
		c.inc(c.resolve, resultNotFound)
	}))
	c.ed.AddEventListener(hook.MirrorFailed, events.NewEventListener(func(event *events.Event) {
		c.inc(c.mirrorErrors, event.Object.(hook.MirrorFailure).Mirror)
	}))
	c.ed.AddEventListener(cookiemgmt.CookieUpdated, events.NewEventListener(func(*events.Event) {
		c.inc(c.cookie, resultUpdated)
	}))
	c.ed.AddEventListener(cookiemgmt.CookieAcquireFailed, events.NewEventListener(func(*events.Event) {
		c.inc(c.cookie, resultFailed)
	}))
}

// bool2float64 将布尔值转换为浮点数（0 或 1）
func bool2float64(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Collect 收集 Prometheus 指标
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, result := range []string{resultResolved, resultNotFound} {
		ch <- prometheus.MustNewConstMetric(streamResolveTotal, prometheus.CounterValue, c.resolve[result], result)
	}
	for mirror, value := range c.mirrorErrors {
		ch <- prometheus.MustNewConstMetric(mirrorErrorsTotal, prometheus.CounterValue, value, mirror)
	}
	for _, result := range []string{resultUpdated, resultFailed} {
		ch <- prometheus.MustNewConstMetric(cookieAcquireTotal, prometheus.CounterValue, c.cookie[result], result)
	}
	if c.cookies != nil {
		ch <- prometheus.MustNewConstMetric(cookieCached, prometheus.GaugeValue, bool2float64(c.cookies.Cached() != ""))
	}
}

// Describe 描述 Prometheus 指标
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- streamResolveTotal
	ch <- mirrorErrorsTotal
	ch <- cookieAcquireTotal
	ch <- cookieCached
}

// Start 注册收集器并订阅事件
func (c *collector) Start(_ context.Context) error {
	if err := c.registerer.Register(c); err != nil {
		return err
	}
	c.registryListeners()
	return nil
}

// Close 关闭收集器
func (c *collector) Close(_ context.Context) {
	c.registerer.Unregister(c)
}
