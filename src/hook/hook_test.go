package hook_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt/mock"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/live"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
)

const streamUrl = "https://d1--cn-gotcha04.bilivideo.com/live-bvc/1/live_1.flv"

type recorder struct {
	lock   sync.Mutex
	events []*events.Event
}

func (r *recorder) listen(ed events.Dispatcher, types ...events.EventType) {
	for _, typ := range types {
		ed.AddEventListener(typ, events.NewEventListener(func(event *events.Event) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.events = append(r.events, event)
		}))
	}
}

func (r *recorder) find(typ events.EventType) *events.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, e := range r.events {
		if e.Type == typ {
			return e
		}
	}
	return nil
}

func newConfig(t *testing.T, handler http.HandlerFunc) *configs.Config {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := configs.NewConfig()
	cfg.Mirrors = configs.NewMirrorsWithStrings([]string{server.URL})
	return cfg
}

func TestHook_OnFetchStreamUrl(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cookies := mock.NewMockManager(ctrl)
	cookies.EXPECT().Acquire(gomock.Any()).Return("SESSDATA=cached", errors.New("cookie service down"))

	cfg := newConfig(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SESSDATA=cached", r.Header.Get("Cookie"))
		assert.Equal(t, "10000", r.URL.Query().Get("qn"))
		assert.Equal(t, "23058", r.URL.Query().Get("cid"))
		_, _ = fmt.Fprintf(w, `{"code":0,"data":{"durl":[{"url":"https://other.example.com/a.flv"},{"url":%q}]}}`, streamUrl)
	})
	ed := events.NewDispatcher(context.Background())
	rec := &recorder{}
	rec.listen(ed, hook.StreamResolved, hook.StreamNotFound)

	h := hook.New(cfg, cookies, nil, ed, nil)
	require.NoError(t, h.Start(context.Background()))

	u, err := h.OnFetchStreamUrl(context.Background(), "23058", 0)
	require.NoError(t, err)
	assert.Equal(t, streamUrl, u)

	assert.Eventually(t, func() bool { return rec.find(hook.StreamResolved) != nil }, time.Second, 10*time.Millisecond)
	result := rec.find(hook.StreamResolved).Object.(hook.StreamResult)
	assert.Equal(t, "23058", result.RoomID)
	assert.Equal(t, streamUrl, result.Url)
	assert.NotEmpty(t, result.RequestID)
	assert.Nil(t, rec.find(hook.StreamNotFound))
}

func TestHook_OnFetchStreamUrl_NotFound(t *testing.T) {
	cfg := newConfig(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "150", r.URL.Query().Get("qn"))
		assert.Empty(t, r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"code":0,"data":{"durl":[{"url":"https://other.example.com/a.flv"}]}}`))
	})
	cfg.UseHostQn = true
	ed := events.NewDispatcher(context.Background())
	rec := &recorder{}
	rec.listen(ed, hook.StreamNotFound)

	h := hook.New(cfg, nil, nil, ed, nil)
	u, err := h.OnFetchStreamUrl(context.Background(), "1", 150)
	assert.ErrorIs(t, err, live.ErrNoStream)
	assert.Empty(t, u)

	assert.Eventually(t, func() bool { return rec.find(hook.StreamNotFound) != nil }, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, rec.find(hook.StreamNotFound).Object.(hook.StreamResult).Err, live.ErrNoStream)
}

func TestHook_HostQnIgnoredByDefault(t *testing.T) {
	cfg := newConfig(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10000", r.URL.Query().Get("qn"))
		_, _ = fmt.Fprintf(w, `{"code":0,"data":{"durl":[{"url":%q}]}}`, streamUrl)
	})
	require.False(t, cfg.UseHostQn)

	h := hook.New(cfg, nil, nil, nil, nil)
	u, err := h.OnFetchStreamUrl(context.Background(), "1", 80)
	require.NoError(t, err)
	assert.Equal(t, streamUrl, u)
}

func TestHook_MirrorFailed(t *testing.T) {
	cfg := newConfig(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})
	ed := events.NewDispatcher(context.Background())
	rec := &recorder{}
	rec.listen(ed, hook.MirrorFailed)

	h := hook.New(cfg, nil, nil, ed, nil)
	_, err := h.OnFetchStreamUrl(context.Background(), "1", 0)
	assert.ErrorIs(t, err, live.ErrNoStream)

	assert.Eventually(t, func() bool { return rec.find(hook.MirrorFailed) != nil }, time.Second, 10*time.Millisecond)
	failure := rec.find(hook.MirrorFailed).Object.(hook.MirrorFailure)
	assert.Equal(t, cfg.Mirrors[0].Name, failure.Mirror)
	assert.Error(t, failure.Err)
}

func TestHook_BadRoomAndConfig(t *testing.T) {
	h := hook.New(configs.NewConfig(), nil, nil, nil, nil)
	_, err := h.OnFetchStreamUrl(context.Background(), "not-a-room", 0)
	assert.ErrorIs(t, err, live.ErrRoomUrlIncorrect)

	cfg := configs.NewConfig()
	cfg.SelectorScript = "var x = 1"
	h = hook.New(cfg, nil, nil, nil, nil)
	assert.Error(t, h.Start(context.Background()))
	_, err = h.OnFetchStreamUrl(context.Background(), "1", 0)
	assert.Error(t, err)
}

func TestNewHook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inst := &instance.Instance{Config: configs.NewConfig()}
	inst.CookieManager = mock.NewMockManager(ctrl)
	ctx := instance.WithInstance(context.Background(), inst)
	events.NewDispatcher(ctx)

	h := hook.NewHook(ctx)
	assert.Same(t, h, inst.Hook)
}
