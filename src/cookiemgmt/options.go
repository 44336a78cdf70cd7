package cookiemgmt

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
)

// Options 是 Cookie 管理客户端的配置。
type Options struct {
	Enable bool
	ApiUrl string
	Token  string
	Mode   configs.CookieMode
	// Retry 是每个请求在传输层失败时的最多尝试次数。
	Retry int
	// Timeout 是单次请求的超时时间，小于等于 0 时使用 retry.DefaultTimeout。
	Timeout time.Duration
}

// OptionsFromConfig 从应用配置中提取客户端配置。
func OptionsFromConfig(c *configs.Config) Options {
	return Options{
		Enable:  c.CookieMgmt.Enable,
		ApiUrl:  c.CookieMgmt.ApiUrl,
		Token:   c.CookieMgmt.Token,
		Mode:    c.CookieMgmt.Mode,
		Retry:   c.HttpRetry,
		Timeout: time.Duration(c.HttpTimeout) * time.Second,
	}
}

// Validate 校验 API 地址与 token。
func (o Options) Validate() error {
	if o.ApiUrl == "" {
		return ErrEmptyApiUrl
	}
	// 没有 scheme 的地址（如 127.0.0.1:18000）url.Parse 会报错，统一视为 scheme 错误。
	if !strings.HasPrefix(o.ApiUrl, "http://") && !strings.HasPrefix(o.ApiUrl, "https://") {
		return ErrBadApiScheme
	}
	u, err := url.Parse(o.ApiUrl)
	if err != nil {
		return fmt.Errorf("api_url无法解析: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrBadApiScheme
	}
	if o.Token == "" {
		return ErrEmptyToken
	}
	return nil
}

func (o Options) endpoint(path string) string {
	return strings.TrimRight(o.ApiUrl, "/") + path
}
