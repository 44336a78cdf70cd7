package cookiemgmt

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyApiUrl 表示未配置 Cookie 管理 API 地址。
	ErrEmptyApiUrl = errors.New("api_url不能为空")
	// ErrBadApiScheme 表示 API 地址不是 http 或 https。
	ErrBadApiScheme = errors.New("api_url必须是http或https协议")
	// ErrEmptyToken 表示未配置 API token。
	ErrEmptyToken = errors.New("token 不能为空")
	// ErrNoValidCookie 表示 Cookie 列表中没有有效的账号。
	ErrNoValidCookie = errors.New("cookie列表为空，无法获取有效cookie")
	// ErrNoCookieAvailable 表示服务端没有可用的随机 Cookie。
	ErrNoCookieAvailable = errors.New("没有可用的 Cookie")
	// ErrRejected 表示服务端在响应体中返回了错误。
	ErrRejected = errors.New("获取cookie失败")
	// ErrBadResponse 表示响应体不是合法的 JSON。
	ErrBadResponse = errors.New("响应不是合法的 JSON")
)

// StatusError 表示 Cookie 管理服务返回了非 2xx 状态码。
type StatusError struct {
	Action     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s失败，status: %d, message: %s", e.Action, e.StatusCode, e.Body)
}

// ShapeError 表示响应中某个字段的类型与约定不符。
type ShapeError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *ShapeError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("%s 必须是%s", e.Field, e.Expected)
	}
	return fmt.Sprintf("%s 字段必须是%s，当前类型为%s", e.Field, e.Expected, e.Actual)
}

// typeOf 返回 JSON 值的类型名称，缺失的字段为 undefined。
func typeOf(r gjson.Result) string {
	if !r.Exists() {
		return "undefined"
	}
	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	default:
		if r.IsArray() {
			return "array"
		}
		return "object"
	}
}

func expectString(r gjson.Result, field string) error {
	if r.Type != gjson.String {
		return &ShapeError{Field: field, Expected: "字符串", Actual: typeOf(r)}
	}
	return nil
}

func expectBool(r gjson.Result, field string) error {
	if r.Type != gjson.True && r.Type != gjson.False {
		return &ShapeError{Field: field, Expected: "布尔值", Actual: typeOf(r)}
	}
	return nil
}

func expectArray(r gjson.Result, field string) error {
	if !r.IsArray() {
		return &ShapeError{Field: field, Expected: "数组"}
	}
	return nil
}
