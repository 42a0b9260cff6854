package logic

import (
	"errors"
	"fmt"
)

// 错误定义，调用方使用 errors.Is 判断
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrAlreadyExists      = errors.New("already exists")
	ErrTitleAlreadyExists = fmt.Errorf("%w: an application with same title already exists", ErrAlreadyExists)
	ErrURLAlreadyExists   = fmt.Errorf("%w: an application with same URL already exists", ErrAlreadyExists)
	ErrStorage            = errors.New("storage failure")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

func storageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
