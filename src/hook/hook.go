// Package hook 是录播姬获取直播流地址时调用的钩子。
package hook

import (
	"context"
	"errors"
	"sync"

	"github.com/bluele/gcache"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/live"
	"github.com/yuhaohwang/bilistream-hook/src/live/bilibili"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
)

// CookieAcquirer 提供每次请求使用的 Cookie，出错时仍可返回可用的 Cookie。
type CookieAcquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// Hook 根据房间号获取直播流地址。
type Hook struct {
	config  *configs.Config
	cookies CookieAcquirer
	cache   gcache.Cache
	ed      events.Dispatcher
	logger  *interfaces.Logger

	once    sync.Once
	opts    []live.Option
	optsErr error
}

// NewHook 使用实例中的配置与模块创建钩子，并挂到实例上。
func NewHook(ctx context.Context) *Hook {
	inst := instance.GetInstance(ctx)
	var (
		cookies CookieAcquirer
		ed      events.Dispatcher
	)
	if inst.CookieManager != nil {
		cookies = inst.CookieManager.(CookieAcquirer)
	}
	if inst.EventDispatcher != nil {
		ed = inst.EventDispatcher.(events.Dispatcher)
	}
	h := New(inst.Config, cookies, inst.Cache, ed, inst.Logger)
	inst.Hook = h
	return h
}

// New 创建钩子。cookies、cache、ed 都可以为 nil。
func New(config *configs.Config, cookies CookieAcquirer, cache gcache.Cache, ed events.Dispatcher, logger *interfaces.Logger) *Hook {
	if logger == nil {
		logger = interfaces.NewNopLogger()
	}
	return &Hook{
		config:  config,
		cookies: cookies,
		cache:   cache,
		ed:      ed,
		logger:  logger,
	}
}

// prepare 编译配置中的白名单、模板与筛选脚本，只执行一次。
func (h *Hook) prepare() error {
	h.once.Do(func() {
		h.opts, h.optsErr = live.OptionsFromConfig(h.config)
	})
	return h.optsErr
}

func (h *Hook) Start(ctx context.Context) error {
	if err := h.prepare(); err != nil {
		return err
	}
	h.logger.WithFields(logrus.Fields{
		"mirrors":  len(h.config.Mirrors),
		"patterns": len(h.config.CdnPatterns),
	}).Info("直播流钩子已就绪")
	return nil
}

func (h *Hook) Close(ctx context.Context) {}

func (h *Hook) dispatch(typ events.EventType, obj interface{}) {
	if h.ed != nil {
		h.ed.DispatchEvent(events.NewEvent(typ, obj))
	}
}

// NewLive 构建房间对应的 Live。
// 只有开启 use_host_qn 且 qn 大于 0 时才使用调用方的画质，否则使用配置中的 quality。
func (h *Hook) NewLive(roomID string, qn int, extra ...live.Option) (live.Live, error) {
	if err := h.prepare(); err != nil {
		return nil, err
	}
	if !h.config.UseHostQn {
		qn = 0
	}
	u, err := bilibili.RoomUrl(roomID)
	if err != nil {
		return nil, err
	}
	opts := make([]live.Option, 0, len(h.opts)+len(extra)+3)
	opts = append(opts, h.opts...)
	opts = append(opts,
		live.WithQuality(qn),
		live.WithLogger(h.logger),
		live.WithMirrorErrorHandler(func(mirror configs.Mirror, err error) {
			h.dispatch(MirrorFailed, MirrorFailure{Mirror: mirror.Name, Err: err})
		}),
	)
	opts = append(opts, extra...)
	return live.New(u, h.cache, opts...)
}

// OnFetchStreamUrl 返回房间的第一个可用直播流地址。
// 没有可用地址时返回空字符串与 live.ErrNoStream。
func (h *Hook) OnFetchStreamUrl(ctx context.Context, roomID string, qn int) (string, error) {
	requestID := ""
	if id, err := uuid.NewV4(); err == nil {
		requestID = id.String()
	}
	logger := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"room":       roomID,
		"qn":         qn,
	})
	result := StreamResult{RequestID: requestID, RoomID: roomID, Qn: qn}

	// 1. 获取 Cookie，失败时使用缓存的 Cookie 继续。
	cookie := ""
	if h.cookies != nil {
		var err error
		cookie, err = h.cookies.Acquire(ctx)
		if err != nil {
			logger.WithError(err).Warn("获取 Cookie 失败，使用缓存的 Cookie")
		}
	}

	// 2. 构建直播间并请求所有镜像。
	l, err := h.NewLive(roomID, qn, live.WithCookieSource(func(context.Context) string { return cookie }))
	if err != nil {
		logger.WithError(err).Error("无法创建直播间")
		result.Err = err
		h.dispatch(StreamNotFound, result)
		return "", err
	}
	urls, err := l.GetStreamUrls(ctx)
	if err != nil {
		if errors.Is(err, live.ErrNoStream) {
			logger.Warn("没有符合条件的直播流")
		} else {
			logger.WithError(err).Error("获取直播流失败")
		}
		result.Err = err
		h.dispatch(StreamNotFound, result)
		return "", err
	}

	// 3. 返回优先级最高的地址。
	result.Url = urls[0].String()
	logger.WithField("url", result.Url).Info("已获取直播流")
	h.dispatch(StreamResolved, result)
	return result.Url, nil
}

// GetRoomInfo 获取房间信息。
func (h *Hook) GetRoomInfo(ctx context.Context, roomID string) (*live.Info, error) {
	l, err := h.NewLive(roomID, 0)
	if err != nil {
		return nil, err
	}
	return l.GetInfo(ctx)
}
