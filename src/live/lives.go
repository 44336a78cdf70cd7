// Package live 定义直播平台的抽象，以及获取直播流地址所需的选项。
package live

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"
	"text/template"
	"time"

	"github.com/bluele/gcache"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/retry"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/selector"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/utils"
)

var m = make(map[string]Builder)

// Register 注册某个域名的构建器。
func Register(domain string, b Builder) {
	m[domain] = b
}

func getBuilder(domain string) (Builder, bool) {
	builder, ok := m[domain]
	return builder, ok
}

// Builder 根据房间地址构建 Live。
type Builder interface {
	Build(*url.URL, ...Option) (Live, error)
}

// CookieSource 返回本次请求应携带的 Cookie。
type CookieSource func(ctx context.Context) string

// Options 是构建 Live 时的选项。
type Options struct {
	Quality     int
	Mirrors     []configs.Mirror
	Patterns    []*regexp.Regexp
	Retry       int
	Timeout     time.Duration // 单次 HTTP 请求的超时时间
	PlayUrlTmpl *template.Template
	Selector    *selector.Selector
	Cookie      CookieSource
	Logger      *interfaces.Logger
	// OnMirrorError 在某个镜像请求失败时被调用，可为 nil。
	OnMirrorError func(mirror configs.Mirror, err error)
}

var (
	defaultsOnce    sync.Once
	defaultPlayTmpl *template.Template
	defaultPatterns []*regexp.Regexp
	defaultsErr     error
)

// loadDefaults 只编译一次默认模板与 CDN 白名单，之后的 Build 共用结果。
func loadDefaults() error {
	defaultsOnce.Do(func() {
		defaultPlayTmpl, defaultsErr = utils.ParseTemplate("play_url", configs.DefaultPlayUrlTmpl)
		if defaultsErr != nil {
			return
		}
		defaultPatterns, defaultsErr = CompilePatterns(configs.DefaultCdnPatterns)
	})
	return defaultsErr
}

// NewOptions 创建选项，未设置的字段使用默认配置。
func NewOptions(opts ...Option) (*Options, error) {
	if err := loadDefaults(); err != nil {
		return nil, err
	}
	options := &Options{
		Quality:     10000,
		Mirrors:     configs.NewConfig().Mirrors,
		Patterns:    defaultPatterns,
		Retry:       3,
		Timeout:     retry.DefaultTimeout,
		PlayUrlTmpl: defaultPlayTmpl,
		Cookie:      func(context.Context) string { return "" },
		Logger:      interfaces.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options, nil
}

// MustNewOptions 与 NewOptions 相同，出错时 panic。
func MustNewOptions(opts ...Option) *Options {
	options, err := NewOptions(opts...)
	if err != nil {
		panic(err)
	}
	return options
}

// Option 修改 Options。
type Option func(*Options)

// WithQuality 设置画质，小于等于 0 时保留原值。
func WithQuality(quality int) Option {
	return func(opts *Options) {
		if quality > 0 {
			opts.Quality = quality
		}
	}
}

// WithMirrors 设置直播流接口镜像。
func WithMirrors(mirrors []configs.Mirror) Option {
	return func(opts *Options) {
		opts.Mirrors = mirrors
	}
}

// WithPatterns 设置 CDN 白名单。
func WithPatterns(patterns []*regexp.Regexp) Option {
	return func(opts *Options) {
		opts.Patterns = patterns
	}
}

// WithRetry 设置 HTTP 请求尝试次数。
func WithRetry(retry int) Option {
	return func(opts *Options) {
		opts.Retry = retry
	}
}

// WithTimeout 设置单次 HTTP 请求的超时时间，小于等于 0 时保留原值。
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		if timeout > 0 {
			opts.Timeout = timeout
		}
	}
}

// WithPlayUrlTmpl 设置直播流接口模板。
func WithPlayUrlTmpl(tmpl *template.Template) Option {
	return func(opts *Options) {
		opts.PlayUrlTmpl = tmpl
	}
}

// WithSelector 设置筛选脚本。
func WithSelector(s *selector.Selector) Option {
	return func(opts *Options) {
		opts.Selector = s
	}
}

// WithCookieSource 设置 Cookie 来源。
func WithCookieSource(source CookieSource) Option {
	return func(opts *Options) {
		opts.Cookie = source
	}
}

// WithKVStringCookies 使用固定的 "k1=v1; k2=v2" 字符串作为 Cookie。
func WithKVStringCookies(cookies string) Option {
	normalized := utils.JoinCookies(utils.ParseCookieString(cookies))
	return WithCookieSource(func(context.Context) string { return normalized })
}

// WithMirrorErrorHandler 设置镜像请求失败时的回调。
func WithMirrorErrorHandler(fn func(mirror configs.Mirror, err error)) Option {
	return func(opts *Options) {
		opts.OnMirrorError = fn
	}
}

// WithLogger 设置日志记录器。
func WithLogger(logger *interfaces.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// CompilePatterns 编译 CDN 白名单。
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		reg, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("CDN 白名单 %q 无法编译: %w", p, err)
		}
		res = append(res, reg)
	}
	return res, nil
}

// OptionsFromConfig 将配置转换为 Live 选项，正则、模板与脚本在这里一次性编译。
func OptionsFromConfig(c *configs.Config) ([]Option, error) {
	patterns, err := CompilePatterns(c.CdnPatterns)
	if err != nil {
		return nil, err
	}
	tmpl, err := utils.ParseTemplate("play_url", c.PlayUrlTmpl)
	if err != nil {
		return nil, err
	}
	sel, err := selector.New(c.SelectorScript)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithQuality(c.Quality),
		WithMirrors(c.Mirrors),
		WithPatterns(patterns),
		WithRetry(c.HttpRetry),
		WithTimeout(time.Duration(c.HttpTimeout) * time.Second),
		WithPlayUrlTmpl(tmpl),
		WithSelector(sel),
	}, nil
}

// ID 是直播间的唯一标识。
type ID string

// Live 是一个直播间。
type Live interface {
	GetLiveId() ID
	GetRawUrl() string
	GetInfo(ctx context.Context) (*Info, error)
	// GetStreamUrls 返回通过筛选的直播流地址，按优先级排序。
	GetStreamUrls(ctx context.Context) ([]*url.URL, error)
	GetPlatformCNName() string
}

// WrappedLive 为 Live 增加房间信息缓存。
type WrappedLive struct {
	Live
	cache gcache.Cache
}

func newWrappedLive(live Live, cache gcache.Cache) Live {
	return &WrappedLive{
		Live:  live,
		cache: cache,
	}
}

func infoCacheKey(id ID) string {
	return "live:info:" + string(id)
}

// GetInfo 获取房间信息；获取失败时若有缓存，返回缓存的信息以及错误。
func (w *WrappedLive) GetInfo(ctx context.Context) (*Info, error) {
	i, err := w.Live.GetInfo(ctx)
	if err != nil {
		if w.cache != nil {
			if cached, err2 := w.cache.Get(infoCacheKey(w.GetLiveId())); err2 == nil {
				return cached.(*Info), err
			}
		}
		return nil, err
	}
	if w.cache != nil {
		_ = w.cache.Set(infoCacheKey(w.GetLiveId()), i)
	}
	return i, nil
}

// New 根据房间地址创建 Live。
func New(url *url.URL, cache gcache.Cache, opts ...Option) (Live, error) {
	builder, ok := getBuilder(url.Host)
	if !ok {
		return nil, ErrNotSupported
	}
	live, err := builder.Build(url, opts...)
	if err != nil {
		return nil, err
	}
	return newWrappedLive(live, cache), nil
}
