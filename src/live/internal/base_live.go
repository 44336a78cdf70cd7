package internal

import (
	"fmt"
	"net/url"

	"github.com/yuhaohwang/bilistream-hook/src/live"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/utils"
)

// BaseLive 是各平台 Live 的公共部分。
type BaseLive struct {
	Url     *url.URL
	LiveId  live.ID
	Options *live.Options
}

func genLiveId(url *url.URL) live.ID {
	return live.ID(utils.GetMd5String([]byte(fmt.Sprintf("%s%s", url.Host, url.Path))))
}

// NewBaseLive 创建 BaseLive，选项无效时返回错误。
func NewBaseLive(url *url.URL, opt ...live.Option) (BaseLive, error) {
	options, err := live.NewOptions(opt...)
	if err != nil {
		return BaseLive{}, err
	}
	return BaseLive{
		Url:     url,
		LiveId:  genLiveId(url),
		Options: options,
	}, nil
}

// GetLiveId 获取直播唯一标识符
func (a *BaseLive) GetLiveId() live.ID {
	return a.LiveId
}

// GetRawUrl 获取原始的房间地址
func (a *BaseLive) GetRawUrl() string {
	return a.Url.String()
}
