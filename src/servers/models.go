package servers

// commonResp 结构体定义了通用的响应结构，用于返回 JSON 格式的响应数据。
type commonResp struct {
	ErrNo  int         `json:"err_no"`  // ErrNo 表示错误代码，用于标识请求的处理状态。
	ErrMsg string      `json:"err_msg"` // ErrMsg 包含了可选的错误消息，用于描述错误的详细信息。
	Data   interface{} `json:"data"`    // Data 包含响应的数据部分，可以是任何类型的数据。
}

// streamResp 是获取直播流地址的响应。
type streamResp struct {
	Url string `json:"url"`
}
