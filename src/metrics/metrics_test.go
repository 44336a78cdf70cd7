package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
)

type staticCookie string

func (s staticCookie) Cached() string { return string(s) }

func TestCollector(t *testing.T) {
	ed := events.NewDispatcher(context.Background())
	registry := prometheus.NewRegistry()
	c := New(ed, staticCookie("SESSDATA=1"), registry)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close(context.Background())

	ed.DispatchEvent(events.NewEvent(hook.StreamResolved, hook.StreamResult{RoomID: "1"}))
	ed.DispatchEvent(events.NewEvent(hook.StreamNotFound, hook.StreamResult{RoomID: "1"}))
	ed.DispatchEvent(events.NewEvent(hook.StreamNotFound, hook.StreamResult{RoomID: "2"}))
	ed.DispatchEvent(events.NewEvent(hook.MirrorFailed, hook.MirrorFailure{Mirror: "local", Err: errors.New("boom")}))
	ed.DispatchEvent(events.NewEvent(cookiemgmt.CookieUpdated, cookiemgmt.AcquireResult{DedeUserID: "1"}))

	expected := `
# HELP bsh_stream_resolve_total stream url resolve results
# TYPE bsh_stream_resolve_total counter
bsh_stream_resolve_total{result="not_found"} 2
bsh_stream_resolve_total{result="resolved"} 1
# HELP bsh_mirror_errors_total failed mirror requests
# TYPE bsh_mirror_errors_total counter
bsh_mirror_errors_total{mirror="local"} 1
# HELP bsh_cookie_acquire_total cookie acquire results
# TYPE bsh_cookie_acquire_total counter
bsh_cookie_acquire_total{result="failed"} 0
bsh_cookie_acquire_total{result="updated"} 1
# HELP bsh_cookie_cached whether a cookie is cached
# TYPE bsh_cookie_cached gauge
bsh_cookie_cached 1
`
	assert.Eventually(t, func() bool {
		return testutil.GatherAndCompare(registry, strings.NewReader(expected)) == nil
	}, time.Second, 10*time.Millisecond)
}

func TestCollector_RegisterTwice(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, New(nil, nil, registry).Start(context.Background()))
	assert.Error(t, New(nil, nil, registry).Start(context.Background()))
}
