package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yuhaohwang/bilistream-hook/src/instance"
)

const testEvent EventType = "Test"

func TestDispatcher(t *testing.T) {
	inst := new(instance.Instance)
	ed := NewDispatcher(instance.WithInstance(context.Background(), inst))
	assert.Same(t, ed, inst.EventDispatcher)

	var count int32
	l1 := NewEventListener(func(event *Event) {
		atomic.AddInt32(&count, int32(event.Object.(int)))
	})
	l2 := NewEventListener(func(event *Event) {
		atomic.AddInt32(&count, 10*int32(event.Object.(int)))
	})
	ed.AddEventListener(testEvent, l1)
	ed.AddEventListener(testEvent, l2)
	ed.AddEventListener(testEvent, nil)

	ed.DispatchEvent(NewEvent(testEvent, 1))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 11 }, time.Second, 10*time.Millisecond)

	ed.RemoveEventListener(testEvent, l2)
	ed.DispatchEvent(NewEvent(testEvent, 1))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 12 }, time.Second, 10*time.Millisecond)

	ed.RemoveAllEventListener(testEvent)
	ed.DispatchEvent(NewEvent(testEvent, 1))
	ed.DispatchEvent(nil)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(12), atomic.LoadInt32(&count))
}
