package model

import "github.com/obsamadmin/app-center/common/types"

// ApplicationImage 应用插图
type ApplicationImage struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName  string         `gorm:"size:255" json:"fileName"`
	FileBody  []byte         `json:"-"`
	UpdatedAt types.DateTime `json:"updatedAt"`
}

// TableName 表名
func (ApplicationImage) TableName() string {
	return "app_center_image"
}
