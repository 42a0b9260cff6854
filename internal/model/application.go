package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/obsamadmin/app-center/common/utils"
)

// Application 应用模型
type Application struct {
	BaseModel
	Title           string     `gorm:"size:200;uniqueIndex;not null" json:"title"`
	URL             string     `gorm:"column:url;size:500;uniqueIndex;not null" json:"url"`
	Description     string     `gorm:"size:2000" json:"description"`
	ImageFileID     *int64     `gorm:"column:image_file_id" json:"imageFileId"`
	Active          bool       `gorm:"default:true" json:"active"`
	Mandatory       bool       `gorm:"default:false" json:"mandatory"`
	System          bool       `gorm:"column:is_system;default:false" json:"system"`
	ChangedManually bool       `gorm:"default:false" json:"changedManually"`
	Permissions     StringList `gorm:"type:text" json:"permissions"`
}

// TableName 表名
func (Application) TableName() string {
	return "app_center_application"
}

// StringList 以 JSON 数组存储的字符串列表
type StringList []string

// Value 实现driver.Valuer接口
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return utils.MarshalString([]string(l))
}

// Scan 实现sql.Scanner接口
func (l *StringList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("无法将 %T 转换为 StringList", value)
	}
	if raw == "" {
		*l = nil
		return nil
	}
	var list []string
	if err := utils.UnmarshalString(raw, &list); err != nil {
		return err
	}
	*l = list
	return nil
}
