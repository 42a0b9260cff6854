package model

// MembershipAnyType 任意成员类型
const MembershipAnyType = "*"

// UserMembership 用户组成员关系
type UserMembership struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string `gorm:"size:100;index;not null" json:"username"`
	GroupID        string `gorm:"size:255;not null" json:"groupId"`
	MembershipType string `gorm:"size:50;not null;default:'*'" json:"membershipType"`
}

// TableName 表名
func (UserMembership) TableName() string {
	return "app_center_membership"
}
