package model

// Int64Ptr 创建 int64 指针
func Int64Ptr(i int64) *int64 {
	return &i
}

// GetInt64 安全获取 int64 值
func GetInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
