package cookiemgmt

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bluele/gcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
)

type fakeClient struct {
	profiles []Profile
	asked    []string
}

func (f *fakeClient) ListCookies(ctx context.Context) ([]Profile, error) {
	return f.profiles, nil
}

func (f *fakeClient) GetCookie(ctx context.Context, dedeUserID string) (string, error) {
	f.asked = append(f.asked, dedeUserID)
	return "DedeUserID=" + dedeUserID, nil
}

func (f *fakeClient) RandomCookie(ctx context.Context) (*RandomCookie, error) {
	return nil, ErrNoCookieAvailable
}

func (f *fakeClient) Health(ctx context.Context) (string, error) {
	return "ok", nil
}

func TestManager_PicksRandomProfile(t *testing.T) {
	client := &fakeClient{profiles: []Profile{{DedeUserID: "a"}, {DedeUserID: "b"}, {DedeUserID: "c"}}}
	opts := Options{Enable: true, ApiUrl: "http://127.0.0.1", Token: "t", Mode: configs.CookieModeList}
	m := New(opts, "", nil, client, nil, nil).(*manager)

	bounds := make([]int, 0)
	m.intn = func(n int) int {
		bounds = append(bounds, n)
		return 2
	}
	cookie, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DedeUserID=c", cookie)
	assert.Equal(t, []int{3}, bounds)
	assert.Equal(t, []string{"c"}, client.asked)
}

func TestManager_SharedCacheAndEvents(t *testing.T) {
	cache := gcache.New(8).LRU().Build()
	ed := events.NewDispatcher(context.Background())

	var updated, failed int32
	ed.AddEventListener(CookieUpdated, events.NewEventListener(func(event *events.Event) {
		assert.Equal(t, "x", event.Object.(AcquireResult).DedeUserID)
		atomic.AddInt32(&updated, 1)
	}))
	ed.AddEventListener(CookieAcquireFailed, events.NewEventListener(func(event *events.Event) {
		assert.ErrorIs(t, event.Object.(AcquireResult).Err, ErrNoCookieAvailable)
		atomic.AddInt32(&failed, 1)
	}))

	listOpts := Options{Enable: true, ApiUrl: "http://127.0.0.1", Token: "t", Mode: configs.CookieModeList}
	m := New(listOpts, "seed=1", cache, &fakeClient{profiles: []Profile{{DedeUserID: "x"}}}, ed, nil)
	_, err := m.Acquire(context.Background())
	require.NoError(t, err)

	v, err := cache.Get(cacheKey)
	require.NoError(t, err)
	assert.Equal(t, "DedeUserID=x", v)

	randomOpts := listOpts
	randomOpts.Mode = configs.CookieModeRandom
	m2 := New(randomOpts, "", cache, &fakeClient{}, ed, nil)
	cookie, err := m2.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrNoCookieAvailable)
	assert.Equal(t, "DedeUserID=x", cookie)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&updated) == 1 && atomic.LoadInt32(&failed) == 1
	}, time.Second, 10*time.Millisecond)
}
