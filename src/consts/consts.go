package consts

import (
	"fmt"
	"os"
	"runtime"
)

// AppName 是应用程序的名称常量。
const AppName = "BiliStream-Hook"

// UserAgent 是请求直播流接口时携带的浏览器标识。
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/101.0.4951.54 Safari/537.36"

// Info 存储应用程序的信息。
type Info struct {
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
	BuildTime  string `json:"build_time"`
	GitHash    string `json:"git_hash"`
	Pid        int    `json:"pid"`
	Platform   string `json:"platform"`
	GoVersion  string `json:"go_version"`
}

var (
	// BuildTime 构建时通过 -ldflags 注入。
	BuildTime string
	// AppVersion 构建时通过 -ldflags 注入。
	AppVersion string
	// GitHash 构建时通过 -ldflags 注入。
	GitHash string
	// AppInfo 包含应用程序的信息。
	AppInfo = Info{
		AppName:    AppName,
		AppVersion: AppVersion,
		BuildTime:  BuildTime,
		GitHash:    GitHash,
		Pid:        os.Getpid(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		GoVersion:  runtime.Version(),
	}
)
