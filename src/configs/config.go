package configs

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig"
	"gopkg.in/yaml.v2"
)

// CookieMode 表示从 Cookie 管理服务获取 Cookie 的方式。
type CookieMode string

const (
	// CookieModeList 先拉取 Cookie 列表，随机挑选一个有效账号后再取其 Cookie。
	CookieModeList CookieMode = "list"
	// CookieModeRandom 直接由服务端随机返回一个可用 Cookie。
	CookieModeRandom CookieMode = "random"
)

// DefaultPlayUrlTmpl 是直播流地址接口的默认模板。
const DefaultPlayUrlTmpl = `{{ .Api | trimSuffix "/" }}/room/v1/Room/playUrl?cid={{ .RoomID }}&qn={{ .Qn }}&platform=web`

// RPC包含HTTP接口相关信息。
type RPC struct {
	Enable bool   `yaml:"enable"` // 是否启用HTTP接口
	Bind   string `yaml:"bind"`   // 绑定的地址和端口
}

var defaultRPC = RPC{
	Enable: false,
	Bind:   "127.0.0.1:8080",
}

// verify 验证RPC设置的有效性。
func (r *RPC) verify() error {
	if r == nil {
		return nil
	}
	if !r.Enable {
		return nil
	}
	if _, err := net.ResolveTCPAddr("tcp", r.Bind); err != nil {
		return err
	}
	return nil
}

// Log包含日志相关信息。
type Log struct {
	OutPutFolder string `yaml:"out_put_folder"` // 输出日志文件夹
	SaveLastLog  bool   `yaml:"save_last_log"`  // 是否保存最近一次运行的日志
	SaveEveryLog bool   `yaml:"save_every_log"` // 是否为每次运行保存日志
}

// Mirror 是一个直播流接口镜像。
type Mirror struct {
	Name string `yaml:"name"`
	Url  string `yaml:"url"`
}

// mirrorAlias 用于在配置中同时支持字符串和 Mirror 格式。
type mirrorAlias Mirror

// UnmarshalYAML 实现了 Mirror 的自定义反序列化。
func (m *Mirror) UnmarshalYAML(unmarshal func(interface{}) error) error {
	alias := mirrorAlias{}
	if err := unmarshal(&alias); err != nil {
		var url string
		if err = unmarshal(&url); err != nil {
			return err
		}
		alias.Url = url
	}
	if alias.Name == "" {
		alias.Name = alias.Url
	}
	*m = Mirror(alias)
	return nil
}

// NewMirrorsWithStrings 从字符串数组创建镜像列表。
func NewMirrorsWithStrings(strings []string) []Mirror {
	mirrors := make([]Mirror, len(strings))
	for index, url := range strings {
		mirrors[index] = Mirror{Name: url, Url: url}
	}
	return mirrors
}

// CookieMgmt 包含 Cookie 管理服务的连接信息。
type CookieMgmt struct {
	Enable          bool       `yaml:"enable"`           // 是否启用 Cookie 管理
	ApiUrl          string     `yaml:"api_url"`          // Cookie 管理 API 地址
	Token           string     `yaml:"token"`            // Cookie 管理 API token
	Mode            CookieMode `yaml:"mode"`             // 获取方式
	RefreshInterval int        `yaml:"refresh_interval"` // 后台预取间隔（秒），0 表示不预取
}

func (c *CookieMgmt) verify() error {
	switch c.Mode {
	case CookieModeList, CookieModeRandom:
	default:
		return fmt.Errorf("未知的 cookie 获取方式: %q", c.Mode)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval 不能小于0")
	}
	return nil
}

// Config包含所有配置信息。
type Config struct {
	File           string     `yaml:"-"`               // 配置文件路径
	RPC            RPC        `yaml:"rpc"`             // HTTP接口配置
	Debug          bool       `yaml:"debug"`           // 是否启用调试模式
	Log            Log        `yaml:"log"`             // 日志配置
	Mirrors        []Mirror   `yaml:"mirrors"`         // 直播流接口镜像
	CdnPatterns    []string   `yaml:"cdn_patterns"`    // CDN 地址白名单，顺序即优先级
	Quality        int        `yaml:"quality"`         // 默认画质
	UseHostQn      bool       `yaml:"use_host_qn"`     // 是否使用调用方传入的画质，否则始终使用 quality
	HttpRetry      int        `yaml:"http_retry"`      // HTTP 请求尝试次数
	HttpTimeout    int        `yaml:"http_timeout"`    // 单次 HTTP 请求超时秒数
	PlayUrlTmpl    string     `yaml:"play_url_tmpl"`   // 直播流接口模板
	SelectorScript string     `yaml:"selector_script"` // 可选的 JavaScript 筛选脚本
	Cookie         string     `yaml:"cookie"`          // 初始 Cookie，管理服务不可用时使用
	CookieMgmt     CookieMgmt `yaml:"cookie_mgmt"`     // Cookie 管理服务配置
}

// DefaultCdnPatterns 是默认的 CDN 白名单。
var DefaultCdnPatterns = []string{
	`^https?://[^/]*cn-gotcha04\.bilivideo\.com`,
	`^https?://[^/]*cn-gotcha04b\.bilivideo\.com`,
	`^https?://[^/]*cn-gotcha07\.bilivideo\.com`,
	`^https?://[^/]*cn-gotcha07b\.bilivideo\.com`,
	`^https?://[^/]*cn-gotcha09\.bilivideo\.com`,
	`^https?://[^/]*cn-gotcha09b\.bilivideo\.com`,
	`^https?://[^/]*ov-gotcha05\.bilivideo\.com`,
}

var defaultConfig = Config{
	RPC:   defaultRPC,
	Debug: false,
	Log: Log{
		OutPutFolder: "./",
		SaveLastLog:  true,
		SaveEveryLog: false,
	},
	Mirrors:     []Mirror{{Name: "local", Url: "https://api.live.bilibili.com"}},
	Quality:     10000,
	HttpRetry:   3,
	HttpTimeout: 10,
	PlayUrlTmpl: DefaultPlayUrlTmpl,
	CookieMgmt: CookieMgmt{
		Enable: false,
		ApiUrl: "http://127.0.0.1:18000",
		Mode:   CookieModeList,
	},
}

// NewConfig 创建新的Config对象。
func NewConfig() *Config {
	config := defaultConfig
	config.Mirrors = append([]Mirror(nil), defaultConfig.Mirrors...)
	config.CdnPatterns = append([]string(nil), DefaultCdnPatterns...)
	return &config
}

// Verify 验证配置的有效性。
func (c *Config) Verify() error {
	if c == nil {
		return fmt.Errorf("配置为空")
	}
	if err := c.RPC.verify(); err != nil {
		return err
	}
	if c.HttpRetry < 1 {
		return fmt.Errorf("http_retry 不能小于1")
	}
	if c.HttpTimeout < 1 {
		return fmt.Errorf("http_timeout 不能小于1")
	}
	if len(c.Mirrors) == 0 {
		return fmt.Errorf("至少需要配置一个直播流接口镜像")
	}
	for _, m := range c.Mirrors {
		if m.Url == "" {
			return fmt.Errorf("镜像 %q 的地址为空", m.Name)
		}
	}
	if len(c.CdnPatterns) == 0 {
		return fmt.Errorf("CDN 白名单为空，没有任何地址可以通过筛选")
	}
	for _, p := range c.CdnPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("CDN 白名单 %q 无法编译: %w", p, err)
		}
	}
	if _, err := template.New("play_url").Funcs(sprig.TxtFuncMap()).Parse(c.PlayUrlTmpl); err != nil {
		return fmt.Errorf("play_url_tmpl 无效: %w", err)
	}
	return c.CookieMgmt.verify()
}

// NewConfigWithBytes 使用字节数组创建Config对象。
func NewConfigWithBytes(b []byte) (*Config, error) {
	config := NewConfig()
	// 配置里出现的列表整体替换默认值，而不是逐项合并。
	config.Mirrors = nil
	config.CdnPatterns = nil
	if err := yaml.Unmarshal(b, config); err != nil {
		return nil, err
	}
	if len(config.Mirrors) == 0 {
		config.Mirrors = append([]Mirror(nil), defaultConfig.Mirrors...)
	}
	if len(config.CdnPatterns) == 0 {
		config.CdnPatterns = append([]string(nil), DefaultCdnPatterns...)
	}
	return config, nil
}

// NewConfigWithFile 使用文件创建Config对象。
func NewConfigWithFile(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件：%s", file)
	}
	config, err := NewConfigWithBytes(b)
	if err != nil {
		return nil, err
	}
	config.File = file
	return config, nil
}

// Marshal 将配置对象序列化并写回配置文件。
func (c *Config) Marshal() error {
	if c.File == "" {
		return errors.New("未设置配置文件路径")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.File, b, 0644)
}

// GetFilePath 获取配置文件路径。
func (c Config) GetFilePath() (string, error) {
	if c.File == "" {
		return "", errors.New("未设置配置文件路径")
	}
	return c.File, nil
}
