package types

// ApplicationImage 应用插图
type ApplicationImage struct {
	ID          int64  `json:"id"`
	FileName    string `json:"fileName"`
	FileBody    string `json:"fileBody,omitempty"` // base64
	LastUpdated int64  `json:"lastUpdated"`        // 毫秒
}

// IsBlank 名称与内容均为空
func (i *ApplicationImage) IsBlank() bool {
	return i == nil || (i.FileName == "" && i.FileBody == "")
}

// GeneralSettings 应用中心通用设置
type GeneralSettings struct {
	MaxFavoriteApps         int64             `json:"maxFavoriteApps"`
	DefaultApplicationImage *ApplicationImage `json:"defaultApplicationImage"`
}
