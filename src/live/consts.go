package live

import (
	"github.com/yuhaohwang/requests"

	"github.com/yuhaohwang/bilistream-hook/src/consts"
)

// CommonUserAgent 是请求直播平台接口时携带的浏览器标识。
var CommonUserAgent = requests.UserAgent(consts.UserAgent)
