package types

// Application 应用
type Application struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	ImageFileID     *int64   `json:"imageFileId"`
	ImageFileName   string   `json:"imageFileName,omitempty"`
	ImageFileBody   string   `json:"imageFileBody,omitempty"` // base64
	Active          bool     `json:"active"`
	Mandatory       bool     `json:"mandatory"`
	System          bool     `json:"system"`
	ChangedManually bool     `json:"changedManually"`
	Permissions     []string `json:"permissions"`
}

// HasImageBody 是否携带插图内容
func (a *Application) HasImageBody() bool {
	return a.ImageFileBody != ""
}

// UserApplication 用户视角的应用
type UserApplication struct {
	Application
	Favorite bool   `json:"favorite"`
	Order    *int64 `json:"order"`
}

// ApplicationList 管理员视角的应用列表
type ApplicationList struct {
	Applications      []*Application `json:"applications"`
	TotalApplications int64          `json:"totalApplications"`
}

// UserApplicationList 用户视角的应用列表
type UserApplicationList struct {
	Applications      []*UserApplication `json:"applications"`
	TotalApplications int64              `json:"totalApplications"`
	CanAddFavorite    bool               `json:"canAddFavorite"`
}

// ApplicationOrder 收藏应用排序
type ApplicationOrder struct {
	ID    int64 `json:"id"`
	Order int64 `json:"order"`
}

// ListApplicationsRequest 应用列表请求
type ListApplicationsRequest struct {
	Offset  int    `query:"offset"`
	Limit   int    `query:"limit"`
	Keyword string `query:"keyword"`
}
