package events

import (
	"context"
	"sync"

	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
)

// Dispatcher 按事件类型分发事件给已注册的监听器。
type Dispatcher interface {
	interfaces.Module
	AddEventListener(eventType EventType, listener *EventListener)
	RemoveEventListener(eventType EventType, listener *EventListener)
	RemoveAllEventListener(eventType EventType)
	DispatchEvent(event *Event)
}

// NewDispatcher 创建事件分发器；ctx 中有实例时同时挂到实例上。
func NewDispatcher(ctx context.Context) Dispatcher {
	ed := &dispatcher{
		saver: make(map[EventType][]*EventListener),
	}
	if inst := instance.GetInstance(ctx); inst != nil {
		inst.EventDispatcher = ed
	}
	return ed
}

type dispatcher struct {
	sync.RWMutex
	saver map[EventType][]*EventListener
}

func (e *dispatcher) Start(ctx context.Context) error {
	return nil
}

func (e *dispatcher) Close(ctx context.Context) {}

// AddEventListener 添加事件监听器，nil 监听器会被忽略。
func (e *dispatcher) AddEventListener(eventType EventType, listener *EventListener) {
	if listener == nil {
		return
	}
	e.Lock()
	defer e.Unlock()
	e.saver[eventType] = append(e.saver[eventType], listener)
}

// RemoveEventListener 移除事件监听器。
func (e *dispatcher) RemoveEventListener(eventType EventType, listener *EventListener) {
	e.Lock()
	defer e.Unlock()

	listeners := e.saver[eventType]
	kept := listeners[:0]
	for _, l := range listeners {
		if l != listener {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(e.saver, eventType)
		return
	}
	e.saver[eventType] = kept
}

// RemoveAllEventListener 移除指定事件类型的所有监听器。
func (e *dispatcher) RemoveAllEventListener(eventType EventType) {
	e.Lock()
	defer e.Unlock()
	delete(e.saver, eventType)
}

// DispatchEvent 在新的 goroutine 中按注册顺序调用监听器，不阻塞调用方。
func (e *dispatcher) DispatchEvent(event *Event) {
	if event == nil {
		return
	}

	e.RLock()
	hs := make([]*EventListener, len(e.saver[event.Type]))
	copy(hs, e.saver[event.Type])
	e.RUnlock()

	if len(hs) == 0 {
		return
	}
	go func() {
		for _, h := range hs {
			h.Handler(event)
		}
	}()
}
