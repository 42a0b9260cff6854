package utils

import (
	"strings"

	"github.com/duke-git/lancet/v2/strutil"
)

// IsEmpty 判断字符串是否为空（含空白）
func IsEmpty(s string) bool {
	return strutil.IsBlank(s)
}

// IsNotEmpty 判断字符串是否不为空
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// Trim 去除字符串两端空格
func Trim(s string) string {
	return strutil.Trim(s)
}

// ContainsIgnoreCase 忽略大小写判断是否包含子串
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
