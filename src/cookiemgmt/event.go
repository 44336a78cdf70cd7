package cookiemgmt

import "github.com/yuhaohwang/bilistream-hook/src/pkg/events"

// CookieUpdated 表示成功获取了新的 Cookie。
const CookieUpdated events.EventType = "CookieUpdated"

// CookieAcquireFailed 表示获取 Cookie 失败，已回退到缓存的 Cookie。
const CookieAcquireFailed events.EventType = "CookieAcquireFailed"
