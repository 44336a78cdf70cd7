package hook

import "github.com/yuhaohwang/bilistream-hook/src/pkg/events"

// StreamResolved 表示成功获取到直播流地址，事件对象为 StreamResult。
const StreamResolved events.EventType = "StreamResolved"

// StreamNotFound 表示没有获取到可用的直播流地址，事件对象为 StreamResult。
const StreamNotFound events.EventType = "StreamNotFound"

// MirrorFailed 表示某个镜像请求失败，事件对象为 MirrorFailure。
const MirrorFailed events.EventType = "MirrorFailed"

// StreamResult 是一次获取直播流地址的结果。
type StreamResult struct {
	RequestID string
	RoomID    string
	Qn        int
	Url       string
	Err       error
}

// MirrorFailure 描述一次失败的镜像请求。
type MirrorFailure struct {
	Mirror string
	Err    error
}
