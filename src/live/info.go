package live

import (
	"encoding/json"
)

// Info 是房间的基本信息。
type Info struct {
	Live     Live
	RoomID   int64
	HostName string
	RoomName string
	Status   bool // 是否正在直播
}

// MarshalJSON 方法用于将 Info 序列化为接口返回的格式。
func (i *Info) MarshalJSON() ([]byte, error) {
	t := struct {
		Id             ID     `json:"id"`
		LiveUrl        string `json:"live_url"`
		PlatformCNName string `json:"platform_cn_name"`
		RoomID         int64  `json:"room_id"`
		HostName       string `json:"host_name"`
		RoomName       string `json:"room_name"`
		Status         bool   `json:"status"`
	}{
		RoomID:   i.RoomID,
		HostName: i.HostName,
		RoomName: i.RoomName,
		Status:   i.Status,
	}
	if i.Live != nil {
		t.Id = i.Live.GetLiveId()
		t.LiveUrl = i.Live.GetRawUrl()
		t.PlatformCNName = i.Live.GetPlatformCNName()
	}
	return json.Marshal(t)
}
