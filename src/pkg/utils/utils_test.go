package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch1(t *testing.T) {
	assert.Equal(t, "123", Match1(`room/(\d+)`, "https://live.bilibili.com/room/123"))
	assert.Equal(t, "", Match1(`room/(\d+)`, "nothing"))
	assert.Equal(t, "", Match1(`(`, "bad regexp"))
}

func TestGetMd5String(t *testing.T) {
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", GetMd5String([]byte("abc")))
}

func TestGenUrls(t *testing.T) {
	urls, err := GenUrls("https://a.example.com/x", "http://b.example.com")
	require.NoError(t, err)
	assert.Equal(t, "a.example.com", urls[0].Host)
	assert.Equal(t, "b.example.com", urls[1].Host)

	_, err = GenUrls("http://[::1")
	assert.Error(t, err)
}

func TestRenderTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("t", `{{ .Api | trimSuffix "/" }}/x?cid={{ .ID }}`)
	require.NoError(t, err)
	s, err := RenderTemplate(tmpl, map[string]interface{}{"Api": "http://h/", "ID": 7})
	require.NoError(t, err)
	assert.Equal(t, "http://h/x?cid=7", s)

	_, err = ParseTemplate("t", "{{ .Api ")
	assert.Error(t, err)
}

func TestCookies(t *testing.T) {
	list := ParseCookieString(" SESSDATA=abc%2C1 ; bili_jct=xyz;broken; =nokey;DedeUserID=42")
	assert.Equal(t, []*http.Cookie{
		{Name: "SESSDATA", Value: "abc%2C1"},
		{Name: "bili_jct", Value: "xyz"},
		{Name: "DedeUserID", Value: "42"},
	}, list)
	assert.Equal(t, "SESSDATA=abc%2C1; bili_jct=xyz; DedeUserID=42", JoinCookies(list))
	assert.Equal(t, "", JoinCookies(nil))
}

func TestMaskCookie(t *testing.T) {
	assert.Equal(t, "SESSDATA=ab***21; uid=**", MaskCookie("SESSDATA=abcdef0121; uid=42"))
	assert.Equal(t, "", MaskCookie(""))
}
