package cookiemgmt

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/utils"
)

const cacheKey = "cookiemgmt:cookie"

// Manager 决定每次请求直播流时携带的 Cookie，并在获取失败时回退到上一次的 Cookie。
type Manager interface {
	interfaces.Module
	// Acquire 返回本次应使用的 Cookie。出错时仍返回缓存的 Cookie，同时返回错误。
	Acquire(ctx context.Context) (string, error)
	// Cached 返回当前缓存的 Cookie。
	Cached() string
	// Status 返回最近一次获取的状态。
	Status() Status
	// Health 检查 Cookie 管理服务是否可用。
	Health(ctx context.Context) (string, error)
}

// Status 是 Cookie 获取状态的快照，Cookie 值已脱敏。
type Status struct {
	Enable     bool               `json:"enable"`
	Mode       configs.CookieMode `json:"mode"`
	Cookie     string             `json:"cookie"`
	DedeUserID string             `json:"DedeUserID,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at,omitempty"`
	LastError  string             `json:"last_error,omitempty"`
}

// AcquireResult 是 CookieUpdated 与 CookieAcquireFailed 事件携带的对象。
type AcquireResult struct {
	DedeUserID string
	Err        error
}

// NewManager 根据实例配置创建管理器，并挂到实例上。
func NewManager(ctx context.Context) Manager {
	inst := instance.GetInstance(ctx)
	opts := OptionsFromConfig(inst.Config)
	var ed events.Dispatcher
	if inst.EventDispatcher != nil {
		ed = inst.EventDispatcher.(events.Dispatcher)
	}
	m := New(opts, inst.Config.Cookie, inst.Cache, NewClient(opts, inst.Logger), ed, inst.Logger)
	inst.CookieManager = m
	return m
}

// New 创建管理器。seed 是初始 Cookie；cache 为 nil 时使用独立缓存；ed 可以为 nil。
func New(opts Options, seed string, cache gcache.Cache, client Client, ed events.Dispatcher, logger *interfaces.Logger) Manager {
	if cache == nil {
		cache = gcache.New(16).Simple().Build()
	}
	if logger == nil {
		logger = interfaces.NewNopLogger()
	}
	m := &manager{
		opts:   opts,
		client: client,
		cache:  cache,
		ed:     ed,
		logger: logger,
		intn:   rand.Intn,
	}
	if seed != "" {
		m.store(seed)
	}
	return m
}

type manager struct {
	lock   sync.Mutex
	opts   Options
	client Client
	cache  gcache.Cache
	ed     events.Dispatcher
	logger *interfaces.Logger

	// for test
	intn func(n int) int

	dedeUserID string
	updatedAt  time.Time
	lastErr    error
}

func (m *manager) Start(ctx context.Context) error {
	m.logger.WithFields(logrus.Fields{
		"enable": m.opts.Enable,
		"mode":   m.opts.Mode,
		"api":    m.opts.ApiUrl,
	}).Info("Cookie 管理已就绪")
	return nil
}

func (m *manager) Close(ctx context.Context) {}

func (m *manager) Cached() string {
	v, err := m.cache.Get(cacheKey)
	if err != nil {
		return ""
	}
	return v.(string)
}

func (m *manager) store(cookie string) {
	_ = m.cache.Set(cacheKey, cookie)
}

func (m *manager) Acquire(ctx context.Context) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.opts.Enable {
		// 未启用时默认配置没有 token，校验失败不算错误，只返回缓存。
		if err := m.opts.Validate(); err != nil {
			m.logger.WithError(err).Debug("Cookie 管理服务未启用且配置不完整")
		}
		return m.Cached(), nil
	}
	if err := m.opts.Validate(); err != nil {
		m.fail(err)
		return m.Cached(), err
	}

	cookie, dedeUserID, err := m.fetch(ctx)
	if err != nil {
		m.fail(err)
		return m.Cached(), err
	}

	m.store(cookie)
	m.dedeUserID = dedeUserID
	m.updatedAt = time.Now()
	m.lastErr = nil
	m.logger.WithFields(logrus.Fields{
		"DedeUserID": dedeUserID,
		"cookie":     utils.MaskCookie(cookie),
	}).Debug("已获取新的 Cookie")
	m.dispatch(CookieUpdated, AcquireResult{DedeUserID: dedeUserID})
	return cookie, nil
}

func (m *manager) fetch(ctx context.Context) (cookie, dedeUserID string, err error) {
	if m.opts.Mode == configs.CookieModeRandom {
		rc, err := m.client.RandomCookie(ctx)
		if err != nil {
			return "", "", err
		}
		return rc.HeaderString, rc.DedeUserID, nil
	}

	profiles, err := m.client.ListCookies(ctx)
	if err != nil {
		return "", "", err
	}
	if len(profiles) == 0 {
		return "", "", ErrNoValidCookie
	}
	profile := profiles[m.intn(len(profiles))]
	cookie, err = m.client.GetCookie(ctx, profile.DedeUserID)
	if err != nil {
		return "", "", err
	}
	return cookie, profile.DedeUserID, nil
}

func (m *manager) fail(err error) {
	m.lastErr = err
	entry := m.logger.WithError(err).WithField("cached", m.Cached() != "")
	if errors.Is(err, ErrNoValidCookie) || errors.Is(err, ErrNoCookieAvailable) {
		entry.Warn("没有可用的 Cookie，继续使用缓存")
	} else {
		entry.Error("cookie管理出错，继续使用缓存")
	}
	m.dispatch(CookieAcquireFailed, AcquireResult{Err: err})
}

func (m *manager) dispatch(typ events.EventType, obj AcquireResult) {
	if m.ed != nil {
		m.ed.DispatchEvent(events.NewEvent(typ, obj))
	}
}

func (m *manager) Status() Status {
	m.lock.Lock()
	defer m.lock.Unlock()
	s := Status{
		Enable:     m.opts.Enable,
		Mode:       m.opts.Mode,
		Cookie:     utils.MaskCookie(m.Cached()),
		DedeUserID: m.dedeUserID,
		UpdatedAt:  m.updatedAt,
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

func (m *manager) Health(ctx context.Context) (string, error) {
	if err := m.opts.Validate(); err != nil {
		return "", err
	}
	return m.client.Health(ctx)
}
