package utils

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
)

// GetMd5String 计算字节切片的 MD5 十六进制字符串。
func GetMd5String(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Match1 返回正则表达式第一个分组的匹配结果，未匹配时返回空字符串。
func Match1(re, str string) string {
	reg, err := regexp.Compile(re)
	if err != nil {
		return ""
	}
	match := reg.FindStringSubmatch(str)
	if match == nil || len(match) < 2 {
		return ""
	}
	return match[1]
}

// GenUrls 将字符串解析为 URL 列表，任意一个解析失败即返回错误。
func GenUrls(strs ...string) ([]*url.URL, error) {
	urls := make([]*url.URL, 0, len(strs))
	for _, str := range strs {
		u, err := url.Parse(str)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// GetFuncMap 返回模板可用的函数：sprig 的全部文本函数，外加本项目的辅助函数。
func GetFuncMap() template.FuncMap {
	funcMap := sprig.TxtFuncMap()
	funcMap["maskCookie"] = MaskCookie
	return funcMap
}

// ParseTemplate 使用 GetFuncMap 中的函数解析模板。
func ParseTemplate(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(GetFuncMap()).Parse(text)
}

// RenderTemplate 渲染模板并返回去除首尾空白的结果。
func RenderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// ParseCookieString 将 "k1=v1; k2=v2" 形式的字符串解析为 Cookie 列表，忽略无法解析的片段。
func ParseCookieString(cookies string) []*http.Cookie {
	cookiesList := make([]*http.Cookie, 0)
	for _, pairStr := range strings.Split(cookies, ";") {
		pairs := strings.SplitN(pairStr, "=", 2)
		if len(pairs) != 2 {
			continue
		}
		name := strings.TrimSpace(pairs[0])
		if name == "" {
			continue
		}
		cookiesList = append(cookiesList, &http.Cookie{
			Name:  name,
			Value: strings.TrimSpace(pairs[1]),
		})
	}
	return cookiesList
}

// JoinCookies 将 Cookie 列表拼接为请求头使用的字符串。
func JoinCookies(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// MaskCookie 隐藏 Cookie 的值，仅保留前后各两个字符，用于日志和接口输出。
func MaskCookie(cookies string) string {
	list := ParseCookieString(cookies)
	for _, c := range list {
		if len(c.Value) <= 4 {
			c.Value = strings.Repeat("*", len(c.Value))
			continue
		}
		c.Value = c.Value[:2] + "***" + c.Value[len(c.Value)-2:]
	}
	return JoinCookies(list)
}
