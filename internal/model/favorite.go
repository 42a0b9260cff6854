package model

// FavoriteApplication 用户收藏应用
type FavoriteApplication struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID int64  `gorm:"uniqueIndex:uk_favorite_app_user;not null" json:"applicationId"`
	Username      string `gorm:"size:100;uniqueIndex:uk_favorite_app_user;index;not null" json:"username"`
	Order         *int64 `gorm:"column:app_order" json:"order"`
}

// TableName 表名
func (FavoriteApplication) TableName() string {
	return "app_center_favorite"
}
