package servers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v2"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/consts"
	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/live"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/utils"
)

// 获取应用程序信息
func getInfo(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, consts.AppInfo)
}

// maskConfig 返回隐藏了 Cookie 与 token 的配置副本。
func maskConfig(c *configs.Config) configs.Config {
	masked := *c
	masked.Cookie = utils.MaskCookie(c.Cookie)
	if masked.CookieMgmt.Token != "" {
		masked.CookieMgmt.Token = "***"
	}
	return masked
}

// 获取配置信息
func getConfig(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, maskConfig(instance.GetInstance(r.Context()).Config))
}

// 获取原始配置信息
func getRawConfig(writer http.ResponseWriter, r *http.Request) {
	b, err := yaml.Marshal(maskConfig(instance.GetInstance(r.Context()).Config))
	if err != nil {
		writeError(writer, http.StatusInternalServerError, err)
		return
	}
	writeJSON(writer, map[string]string{
		"config": string(b),
	})
}

// errStatus 将错误映射为 HTTP 状态码。
func errStatus(err error) int {
	switch {
	case errors.Is(err, live.ErrNoStream), errors.Is(err, live.ErrRoomNotExist):
		return http.StatusNotFound
	case errors.Is(err, live.ErrRoomUrlIncorrect):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// 获取直播流地址
func getStream(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	id := mux.Vars(r)["id"]

	qn := 0
	if s := r.URL.Query().Get("qn"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(writer, http.StatusBadRequest, err)
			return
		}
		qn = v
	}

	u, err := inst.Hook.(*hook.Hook).OnFetchStreamUrl(r.Context(), id, qn)
	if err != nil {
		writeError(writer, errStatus(err), err)
		return
	}
	writeJSON(writer, streamResp{Url: u})
}

// 获取房间信息，获取失败但有缓存时返回缓存的信息
func getRoom(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	id := mux.Vars(r)["id"]

	info, err := inst.Hook.(*hook.Hook).GetRoomInfo(r.Context(), id)
	if err != nil && info == nil {
		writeError(writer, errStatus(err), err)
		return
	}
	writeJSON(writer, info)
}

// 获取 Cookie 状态
func getCookie(writer http.ResponseWriter, r *http.Request) {
	m := instance.GetInstance(r.Context()).CookieManager.(cookiemgmt.Manager)
	writeJSON(writer, m.Status())
}

// 立即获取一次 Cookie
func refreshCookie(writer http.ResponseWriter, r *http.Request) {
	m := instance.GetInstance(r.Context()).CookieManager.(cookiemgmt.Manager)
	if _, err := m.Acquire(r.Context()); err != nil {
		writeJsonWithStatusCode(writer, http.StatusBadGateway, commonResp{
			ErrNo:  http.StatusBadGateway,
			ErrMsg: err.Error(),
			Data:   m.Status(),
		})
		return
	}
	writeJSON(writer, commonResp{
		Data: m.Status(),
	})
}

// 检查 Cookie 管理服务是否可用
func getCookieHealth(writer http.ResponseWriter, r *http.Request) {
	m := instance.GetInstance(r.Context()).CookieManager.(cookiemgmt.Manager)
	status, err := m.Health(r.Context())
	if err != nil {
		writeError(writer, http.StatusBadGateway, err)
		return
	}
	writeJSON(writer, map[string]string{
		"status": status,
	})
}
