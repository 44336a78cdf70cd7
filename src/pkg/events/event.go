package events

// EventType 表示事件类型。
type EventType string

// EventHandler 是事件处理函数。
type EventHandler func(event *Event)

// Event 是一次事件，Object 的具体类型由事件类型约定。
type Event struct {
	Type   EventType
	Object interface{}
}

// NewEvent 创建一个新的事件。
func NewEvent(eventType EventType, object interface{}) *Event {
	return &Event{eventType, object}
}

// EventListener 包装事件处理函数，按指针识别，便于移除。
type EventListener struct {
	Handler EventHandler
}

// NewEventListener 创建一个新的事件监听器。
func NewEventListener(handler EventHandler) *EventListener {
	return &EventListener{handler}
}
