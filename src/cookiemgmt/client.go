//go:generate mockgen -package mock -destination mock/mock.go github.com/yuhaohwang/bilistream-hook/src/cookiemgmt Client,Manager

// Package cookiemgmt 是 BilibiliCookieMgmt 服务的客户端，负责为直播流请求获取登录 Cookie。
package cookiemgmt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/yuhaohwang/requests"

	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/retry"
)

const (
	pathCookie       = "/api/cookie"
	pathRandomCookie = "/api/v1/cookies/random"
	pathHealth       = "/api/v1/health"

	acceptHeader = "application/json, text/plain, */*"
)

// Profile 是 Cookie 列表中的一个账号。
type Profile struct {
	DedeUserID    string `json:"DedeUserID"`
	CookieValid   bool   `json:"cookie_valid"`
	UpdateTime    int64  `json:"update_time,omitempty"`
	ExpireTime    int64  `json:"expire_time,omitempty"`
	RefreshStatus string `json:"refresh_status,omitempty"`
}

// RandomCookie 是随机接口返回的 Cookie。
type RandomCookie struct {
	DedeUserID   string `json:"DedeUserID"`
	HeaderString string `json:"header_string"`
}

// Client 封装 Cookie 管理服务的各个接口。
type Client interface {
	// ListCookies 返回所有 cookie_valid 为 true 的账号。
	ListCookies(ctx context.Context) ([]Profile, error)
	// GetCookie 返回指定账号的 Cookie 请求头字符串。
	GetCookie(ctx context.Context, dedeUserID string) (string, error)
	// RandomCookie 由服务端随机挑选一个可用 Cookie。
	RandomCookie(ctx context.Context) (*RandomCookie, error)
	// Health 返回服务的健康状态。
	Health(ctx context.Context) (string, error)
}

// NewClient 创建客户端。调用方需先通过 Options.Validate 校验配置。
func NewClient(opts Options, logger *interfaces.Logger) Client {
	if logger == nil {
		logger = interfaces.NewNopLogger()
	}
	return &client{opts: opts, logger: logger}
}

type client struct {
	opts   Options
	logger *interfaces.Logger
}

// get 发送 GET 请求并返回状态码与响应体，只有传输层错误才会重试。
func (c *client) get(ctx context.Context, path string, headers map[string]interface{}, queries map[string]string) (int, []byte, error) {
	u := c.opts.endpoint(path)
	h := map[string]interface{}{"accept": acceptHeader}
	for k, v := range headers {
		h[k] = v
	}
	if queries == nil {
		queries = map[string]string{}
	}
	resp, err := retry.Do(ctx, c.opts.Retry, func() (*requests.Response, error) {
		return requests.Get(u,
			requests.Headers(h),
			requests.Queries(queries),
			requests.Deadline(retry.Deadline(ctx, c.opts.Timeout)),
		)
	}, func(attempt int, err error) {
		c.logger.WithFields(logrus.Fields{
			"url":     u,
			"attempt": attempt,
		}).WithError(err).Warn("请求 Cookie 管理服务失败")
	})
	if err != nil {
		return 0, nil, err
	}
	body, err := resp.Bytes()
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// tokenHeader 是旧版列表接口使用的鉴权头。
func (c *client) tokenHeader() map[string]interface{} {
	return map[string]interface{}{"token": c.opts.Token}
}

// bearerHeader 是新版接口使用的鉴权头。
func (c *client) bearerHeader() map[string]interface{} {
	return map[string]interface{}{"Authorization": "Bearer " + c.opts.Token}
}

func isOK(code int) bool {
	return code >= 200 && code < 300
}

func parseBody(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrBadResponse
	}
	return gjson.ParseBytes(body), nil
}

func (c *client) ListCookies(ctx context.Context) ([]Profile, error) {
	code, body, err := c.get(ctx, pathCookie, c.tokenHeader(), nil)
	if err != nil {
		return nil, err
	}
	if !isOK(code) {
		return nil, &StatusError{Action: "获取cookie列表", StatusCode: code, Body: string(body)}
	}
	data, err := parseBody(body)
	if err != nil {
		return nil, err
	}
	if err := checkCookieList(data); err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0)
	for _, item := range data.Array() {
		if !item.Get("cookie_valid").Bool() {
			continue
		}
		profiles = append(profiles, Profile{
			DedeUserID:    item.Get("DedeUserID").String(),
			CookieValid:   true,
			UpdateTime:    item.Get("update_time").Int(),
			ExpireTime:    item.Get("expire_time").Int(),
			RefreshStatus: item.Get("refresh_status").String(),
		})
	}
	return profiles, nil
}

// checkCookieList 校验列表接口的响应结构。
func checkCookieList(data gjson.Result) error {
	if err := expectArray(data, "data"); err != nil {
		return err
	}
	for _, item := range data.Array() {
		if err := expectString(item.Get("DedeUserID"), "data.DedeUserID"); err != nil {
			return err
		}
		if err := expectBool(item.Get("cookie_valid"), "data.cookie_valid"); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) GetCookie(ctx context.Context, dedeUserID string) (string, error) {
	code, body, err := c.get(ctx, pathCookie, c.tokenHeader(), map[string]string{"DedeUserID": dedeUserID})
	if err != nil {
		return "", err
	}
	if !isOK(code) {
		return "", &StatusError{Action: "获取cookie", StatusCode: code, Body: string(body)}
	}
	data, err := parseBody(body)
	if err != nil {
		return "", err
	}
	if err := checkCookiesData(data); err != nil {
		return "", err
	}

	pairs := make([]string, 0)
	for _, cookie := range data.Get("cookie_info.cookies").Array() {
		pairs = append(pairs, cookie.Get("name").String()+"="+cookie.Get("value").String())
	}
	return strings.Join(pairs, "; "), nil
}

// checkCookiesData 校验单个账号接口的响应结构。
func checkCookiesData(data gjson.Result) error {
	code := data.Get("code")
	if !(code.Type == gjson.Number && code.Int() == 0) && !data.Get("cookie_info").Exists() {
		message := data.Get("message").String()
		if message == "" {
			message = data.Get("detail").String()
		}
		return fmt.Errorf("%w，%s", ErrRejected, message)
	}
	cookies := data.Get("cookie_info.cookies")
	if err := expectArray(cookies, "data.cookie_info.cookies"); err != nil {
		return err
	}
	for _, cookie := range cookies.Array() {
		if err := expectString(cookie.Get("name"), "cookie.name"); err != nil {
			return err
		}
		if err := expectString(cookie.Get("value"), "cookie.value"); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) RandomCookie(ctx context.Context) (*RandomCookie, error) {
	code, body, err := c.get(ctx, pathRandomCookie, c.bearerHeader(), map[string]string{"format": "simple"})
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrNoCookieAvailable
	}
	if !isOK(code) {
		return nil, &StatusError{Action: "获取随机cookie", StatusCode: code, Body: string(body)}
	}
	data, err := parseBody(body)
	if err != nil {
		return nil, err
	}
	if err := expectString(data.Get("DedeUserID"), "DedeUserID"); err != nil {
		return nil, err
	}
	headerString := data.Get("header_string")
	if err := expectString(headerString, "header_string"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(headerString.String()) == "" {
		return nil, ErrNoCookieAvailable
	}
	return &RandomCookie{
		DedeUserID:   data.Get("DedeUserID").String(),
		HeaderString: headerString.String(),
	}, nil
}

func (c *client) Health(ctx context.Context) (string, error) {
	code, body, err := c.get(ctx, pathHealth, c.bearerHeader(), nil)
	if err != nil {
		return "", err
	}
	if !isOK(code) {
		return "", &StatusError{Action: "健康检查", StatusCode: code, Body: string(body)}
	}
	if status := gjson.GetBytes(body, "status"); status.Exists() {
		return status.String(), nil
	}
	return "ok", nil
}
