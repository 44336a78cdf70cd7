package instance

import (
	"sync"

	"github.com/bluele/gcache"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
)

// Instance 结构体包含了应用程序中的各种组件和配置信息。
type Instance struct {
	WaitGroup       sync.WaitGroup     // 等待各个后台模块退出
	Config          *configs.Config    // 应用程序的配置信息
	Logger          *interfaces.Logger // 共享的日志记录器
	Cache           gcache.Cache       // 缓存 Cookie 与房间信息
	Server          interfaces.Module  // HTTP 接口
	EventDispatcher interfaces.Module  // 事件分发器
	CookieManager   interfaces.Module  // Cookie 获取与回退
	CookieRefresher interfaces.Module  // 后台 Cookie 预取
	Hook            interfaces.Module  // 直播流地址获取钩子
}
