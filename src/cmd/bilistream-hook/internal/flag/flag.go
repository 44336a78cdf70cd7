package flag

import (
	"os"

	"github.com/alecthomas/kingpin"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/consts"
)

// 创建一个新的应用程序实例
var (
	app = kingpin.New(consts.AppName, "获取哔哩哔哩直播流地址的录播姬钩子。").Version(consts.AppVersion)

	// 调试模式标志
	Debug = app.Flag("debug", "启用调试模式。").Default("false").Bool()

	// 配置文件路径
	Conf = app.Flag("config", "配置文件路径。").Short('c').String()

	// 一次性模式：输出房间的直播流地址后退出
	Room = app.Flag("room", "房间号，输出直播流地址后退出。").Short('r').String()

	// 画质
	Qn = app.Flag("qn", "画质，0 表示使用配置中的画质；非 0 时覆盖配置。").Default("0").Int()

	// 启用RPC服务器标志
	RPC = app.Flag("enable-rpc", "启用RPC服务器。").Default("false").Bool()

	// RPC服务器绑定地址
	RPCBind = app.Flag("rpc-bind", "RPC服务器绑定地址").Default("127.0.0.1:8080").String()

	// 直播流接口镜像
	Mirrors = app.Flag("mirror", "直播流接口镜像，可以指定多次").Strings()

	// 初始 Cookie
	Cookie = app.Flag("cookie", "初始 Cookie，形如 \"SESSDATA=...; bili_jct=...\"").Default("").String()

	// Cookie 管理服务地址
	CookieApi = app.Flag("cookie-api", "Cookie 管理服务地址，设置后启用 Cookie 管理").Default("").String()

	// Cookie 管理服务 token
	CookieToken = app.Flag("cookie-token", "Cookie 管理服务 token").Default("").String()

	// Cookie 获取方式
	CookieMode = app.Flag("cookie-mode", "Cookie 获取方式，list 或 random").Default(string(configs.CookieModeList)).Enum(string(configs.CookieModeList), string(configs.CookieModeRandom))
)

func init() {
	// 解析命令行参数
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// GenConfigFromFlags 通过解析命令行参数生成配置信息。
func GenConfigFromFlags() *configs.Config {
	cfg := configs.NewConfig()
	cfg.RPC = configs.RPC{
		Enable: *RPC,
		Bind:   *RPCBind,
	}
	cfg.Debug = *Debug
	if len(*Mirrors) > 0 {
		cfg.Mirrors = configs.NewMirrorsWithStrings(*Mirrors)
	}
	cfg.Cookie = *Cookie
	if *CookieApi != "" {
		cfg.CookieMgmt.Enable = true
		cfg.CookieMgmt.ApiUrl = *CookieApi
	}
	cfg.CookieMgmt.Token = *CookieToken
	cfg.CookieMgmt.Mode = configs.CookieMode(*CookieMode)
	return cfg
}
