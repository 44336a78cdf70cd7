package servers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt"
	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt/mock"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
)

const streamUrl = "https://d1--cn-gotcha09.bilivideo.com/live-bvc/1/live_1.flv"

func newTestRouter(t *testing.T, mirror http.HandlerFunc) (http.Handler, *mock.MockManager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	server := httptest.NewServer(mirror)
	t.Cleanup(server.Close)

	cfg := configs.NewConfig()
	cfg.Mirrors = configs.NewMirrorsWithStrings([]string{server.URL})
	cfg.Cookie = "SESSDATA=abcdefgh"
	cfg.CookieMgmt.Token = "secret-token"
	cfg.UseHostQn = true

	m := mock.NewMockManager(ctrl)
	inst := &instance.Instance{
		Config:        cfg,
		Logger:        interfaces.NewNopLogger(),
		CookieManager: m,
	}
	inst.Hook = hook.New(cfg, m, nil, nil, inst.Logger)
	ctx := instance.WithInstance(context.Background(), inst)
	return initMux(ctx), m
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestGetStream(t *testing.T) {
	h, m := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "80", r.URL.Query().Get("qn"))
		_, _ = fmt.Fprintf(w, `{"code":0,"data":{"durl":[{"url":%q}]}}`, streamUrl)
	})
	m.EXPECT().Acquire(gomock.Any()).Return("SESSDATA=abcdefgh", nil)

	w := serve(t, h, http.MethodGet, "/api/rooms/1/stream?qn=80")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeJSON, w.Header().Get(contentType))
	assert.JSONEq(t, fmt.Sprintf(`{"url":%q}`, streamUrl), w.Body.String())
}

func TestGetStream_Errors(t *testing.T) {
	h, m := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"data":{"durl":[]}}`))
	})
	m.EXPECT().Acquire(gomock.Any()).Return("", nil).AnyTimes()

	w := serve(t, h, http.MethodGet, "/api/rooms/1/stream")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(http.StatusNotFound), gjson.Get(w.Body.String(), "err_no").Int())

	w = serve(t, h, http.MethodGet, "/api/rooms/abc/stream")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, h, http.MethodGet, "/api/rooms/1/stream?qn=high")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRoom(t *testing.T) {
	h, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"data":{"uid":9,"room_id":1,"title":"晚安","live_status":0}}`))
	})
	w := serve(t, h, http.MethodGet, "/api/rooms/1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "晚安", gjson.Get(body, "room_name").String())
	assert.False(t, gjson.Get(body, "status").Bool())
	assert.Equal(t, "https://live.bilibili.com/1", gjson.Get(body, "live_url").String())
}

func TestConfigEndpointsMaskSecrets(t *testing.T) {
	h, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	w := serve(t, h, http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "abcdefgh")
	assert.NotContains(t, w.Body.String(), "secret-token")

	w = serve(t, h, http.MethodGet, "/api/raw-config")
	require.Equal(t, http.StatusOK, w.Code)
	raw := gjson.Get(w.Body.String(), "config").String()
	assert.Contains(t, raw, "cookie_mgmt:")
	assert.NotContains(t, raw, "secret-token")

	w = serve(t, h, http.MethodGet, "/api/info")
	assert.Equal(t, "BiliStream-Hook", gjson.Get(w.Body.String(), "app_name").String())
}

func TestCookieEndpoints(t *testing.T) {
	h, m := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})
	status := cookiemgmt.Status{Enable: true, Mode: configs.CookieModeRandom, Cookie: "SESSDATA=ab***gh", DedeUserID: "42"}
	m.EXPECT().Status().Return(status).AnyTimes()

	w := serve(t, h, http.MethodGet, "/api/cookie")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", gjson.Get(w.Body.String(), "DedeUserID").String())
	assert.Equal(t, "random", gjson.Get(w.Body.String(), "mode").String())

	gomock.InOrder(
		m.EXPECT().Acquire(gomock.Any()).Return("SESSDATA=abcdefgh", nil),
		m.EXPECT().Acquire(gomock.Any()).Return("SESSDATA=abcdefgh", errors.New("boom")),
	)
	w = serve(t, h, http.MethodPost, "/api/cookie/refresh")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(t, h, http.MethodPost, "/api/cookie/refresh")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "boom", gjson.Get(w.Body.String(), "err_msg").String())
	assert.Equal(t, "42", gjson.Get(w.Body.String(), "data.DedeUserID").String())

	w = serve(t, h, http.MethodGet, "/api/cookie/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	gomock.InOrder(
		m.EXPECT().Health(gomock.Any()).Return("healthy", nil),
		m.EXPECT().Health(gomock.Any()).Return("", cookiemgmt.ErrEmptyToken),
	)
	w = serve(t, h, http.MethodGet, "/api/cookie/health")
	assert.Equal(t, "healthy", gjson.Get(w.Body.String(), "status").String())
	w = serve(t, h, http.MethodGet, "/api/cookie/health")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})
	w := serve(t, h, http.MethodGet, "/api/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
