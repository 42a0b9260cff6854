package utils

import (
	"github.com/duke-git/lancet/v2/slice"
)

// SliceFilter 过滤切片
func SliceFilter[T any](s []T, fn func(index int, item T) bool) []T {
	return slice.Filter(s, fn)
}

// SliceMap 映射切片
func SliceMap[T any, U any](s []T, fn func(index int, item T) U) []U {
	return slice.Map(s, fn)
}
