// Package bilibili 通过多个直播流接口镜像获取哔哩哔哩直播间的直播流地址。
package bilibili

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/yuhaohwang/requests"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/live"
	"github.com/yuhaohwang/bilistream-hook/src/live/internal"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/retry"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/utils"
)

const (
	domain = "live.bilibili.com"
	cnName = "哔哩哔哩"

	liveOrigin  = "https://live.bilibili.com"
	liveReferer = "https://live.bilibili.com/"
	roomInfoApi = "/room/v1/Room/get_info"
)

var (
	// ErrBadStatus 表示镜像返回了非 2xx 状态码。
	ErrBadStatus = errors.New("镜像返回了错误的状态码")
	// ErrApiCode 表示镜像返回的 code 不为 0。
	ErrApiCode = errors.New("镜像返回了错误")
	// ErrBadResponse 表示镜像返回的数据格式不正确。
	ErrBadResponse = errors.New("镜像返回的数据格式不正确")
)

func init() {
	live.Register(domain, new(builder))
}

type builder struct{}

func (b *builder) Build(url *url.URL, opt ...live.Option) (live.Live, error) {
	base, err := internal.NewBaseLive(url, opt...)
	if err != nil {
		return nil, err
	}
	l := &Live{BaseLive: base}
	if _, err := l.getRoomId(); err != nil {
		return nil, err
	}
	return l, nil
}

// RoomUrl 返回房间号对应的直播间地址。
func RoomUrl(roomID string) (*url.URL, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, live.ErrRoomUrlIncorrect
	}
	return url.Parse(liveOrigin + "/" + url.PathEscape(roomID))
}

type Live struct {
	internal.BaseLive
}

// getRoomId 从地址中解析房间号
func (l *Live) getRoomId() (string, error) {
	roomID := utils.Match1(`^/(\d+)/?$`, l.Url.Path)
	if roomID == "" {
		return "", live.ErrRoomUrlIncorrect
	}
	return roomID, nil
}

// playUrlParams 是渲染直播流接口模板时可用的字段。
type playUrlParams struct {
	Api    string
	RoomID string
	Qn     int
}

func (l *Live) logger() *logrus.Entry {
	return l.Options.Logger.WithFields(logrus.Fields{
		"host": domain,
		"room": l.Url.Path,
	})
}

// get 请求镜像接口，只有传输层错误才会重试。
func (l *Live) get(ctx context.Context, u string, opts ...requests.RequestOption) (*requests.Response, error) {
	return retry.Do(ctx, l.Options.Retry, func() (*requests.Response, error) {
		reqOpts := append([]requests.RequestOption{
			live.CommonUserAgent,
			requests.Deadline(retry.Deadline(ctx, l.Options.Timeout)),
		}, opts...)
		return requests.Get(u, reqOpts...)
	}, func(attempt int, err error) {
		l.logger().WithFields(logrus.Fields{
			"url":     u,
			"attempt": attempt,
		}).WithError(err).Debug("请求镜像失败")
	})
}

// parseResponse 检查状态码与 code 字段，返回 data 字段。
// code 缺失或不是数字时视为响应无效，非 0 时返回 ErrApiCode。
func parseResponse(resp *requests.Response) (gjson.Result, error) {
	body, err := resp.Bytes()
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return gjson.Result{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrBadResponse
	}
	code := gjson.GetBytes(body, "code")
	if code.Type != gjson.Number {
		return gjson.Result{}, fmt.Errorf("%w: code 字段缺失或不是数字", ErrBadResponse)
	}
	if code.Int() != 0 {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrApiCode, gjson.GetBytes(body, "message").String())
	}
	return gjson.GetBytes(body, "data"), nil
}

// fetchMirror 从单个镜像获取所有候选直播流地址
func (l *Live) fetchMirror(ctx context.Context, mirror configs.Mirror, roomID, cookie string) ([]string, error) {
	u, err := utils.RenderTemplate(l.Options.PlayUrlTmpl, playUrlParams{
		Api:    mirror.Url,
		RoomID: roomID,
		Qn:     l.Options.Quality,
	})
	if err != nil {
		return nil, err
	}
	resp, err := l.get(ctx, u, requests.Headers(map[string]interface{}{
		"Origin":  liveOrigin,
		"Referer": liveReferer,
		"Cookie":  cookie,
	}))
	if err != nil {
		return nil, err
	}
	data, err := parseResponse(resp)
	if err != nil {
		return nil, err
	}
	durl := data.Get("durl")
	if !durl.IsArray() {
		return nil, fmt.Errorf("%w: data.durl 不是数组", ErrBadResponse)
	}
	urls := make([]string, 0)
	for _, item := range durl.Array() {
		if u := item.Get("url"); u.Type == gjson.String && u.String() != "" {
			urls = append(urls, u.String())
		}
	}
	return urls, nil
}

// fetchAll 并发请求所有镜像，按镜像顺序合并结果，失败的镜像被跳过。
func (l *Live) fetchAll(ctx context.Context, roomID, cookie string) []string {
	results := make([][]string, len(l.Options.Mirrors))
	wg := sync.WaitGroup{}
	for i, mirror := range l.Options.Mirrors {
		wg.Add(1)
		go func(i int, mirror configs.Mirror) {
			defer wg.Done()
			urls, err := l.fetchMirror(ctx, mirror, roomID, cookie)
			if err != nil {
				l.logger().WithField("mirror", mirror.Name).WithError(err).Warn("镜像获取直播流失败")
				if l.Options.OnMirrorError != nil {
					l.Options.OnMirrorError(mirror, err)
				}
				return
			}
			results[i] = urls
		}(i, mirror)
	}
	wg.Wait()

	all := make([]string, 0)
	for _, urls := range results {
		all = append(all, urls...)
	}
	return all
}

// GetStreamUrls 获取直播流媒体URL
func (l *Live) GetStreamUrls(ctx context.Context) ([]*url.URL, error) {
	roomID, err := l.getRoomId()
	if err != nil {
		return nil, err
	}
	cookie := ""
	if l.Options.Cookie != nil {
		cookie = l.Options.Cookie(ctx)
	}

	candidates := l.fetchAll(ctx, roomID, cookie)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger().WithField("count", len(candidates)).Debug("获取到候选直播流")

	matched := filterUrls(candidates, l.Options.Patterns)
	matched, err = l.Options.Selector.Filter(matched)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, live.ErrNoStream
	}
	return utils.GenUrls(matched...)
}

// GetInfo 依次尝试各个镜像获取房间信息
func (l *Live) GetInfo(ctx context.Context) (*live.Info, error) {
	roomID, err := l.getRoomId()
	if err != nil {
		return nil, err
	}
	lastErr := live.ErrInternalError
	for _, mirror := range l.Options.Mirrors {
		u := strings.TrimSuffix(mirror.Url, "/") + roomInfoApi
		resp, err := l.get(ctx, u, requests.Query("room_id", roomID))
		if err != nil {
			lastErr = err
			continue
		}
		data, err := parseResponse(resp)
		if errors.Is(err, ErrApiCode) {
			return nil, live.ErrRoomNotExist
		}
		if err != nil {
			lastErr = err
			continue
		}
		return &live.Info{
			Live:     l,
			RoomID:   data.Get("room_id").Int(),
			HostName: data.Get("uid").String(),
			RoomName: data.Get("title").String(),
			Status:   data.Get("live_status").Int() == 1,
		}, nil
	}
	return nil, lastErr
}

// GetPlatformCNName 获取直播平台的中文名称
func (l *Live) GetPlatformCNName() string {
	return cnName
}
