package model

// 设置作用域
const (
	SettingContextGlobal  = "GLOBAL"
	SettingScopeAppCenter = "APP_CENTER"
)

// 设置键
const (
	SettingMaxFavoriteApps   = "maxFavoriteApps"
	SettingDefaultAppImageID = "defaultAppImageId"
)

// Setting 标量设置
type Setting struct {
	BaseModel
	Context string `gorm:"size:100;uniqueIndex:uk_setting_key;not null" json:"context"`
	Scope   string `gorm:"size:100;uniqueIndex:uk_setting_key;not null" json:"scope"`
	Key     string `gorm:"column:setting_key;size:100;uniqueIndex:uk_setting_key;not null" json:"key"`
	Value   string `gorm:"type:text" json:"value"`
}

// TableName 表名
func (Setting) TableName() string {
	return "app_center_setting"
}
