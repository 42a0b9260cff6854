package logic

import (
	"context"
	"strconv"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
	"github.com/obsamadmin/app-center/internal/types"

	"go.uber.org/zap"
)

// SettingLogic 应用中心设置逻辑
type SettingLogic struct {
	settings repository.SettingRepository
	images   *ImageLogic
}

// NewSettingLogic 创建设置逻辑
func NewSettingLogic(settings repository.SettingRepository, images *ImageLogic) *SettingLogic {
	return &SettingLogic{settings: settings, images: images}
}

// getInt64 读取整数设置，不存在或无法解析时返回 0
func (l *SettingLogic) getInt64(ctx context.Context, key string) (int64, error) {
	value, ok, err := l.settings.GetSetting(ctx, key)
	if err != nil {
		return 0, storageError(err)
	}
	if !ok || utils.IsEmpty(value) {
		return 0, nil
	}
	n, err := strconv.ParseInt(utils.Trim(value), 10, 64)
	if err != nil {
		logger.Warn("设置值不是整数", zap.String("key", key), zap.String("value", value))
		return 0, nil
	}
	return n, nil
}

// MaxFavorites 用户可收藏应用的上限，未设置时为 0
func (l *SettingLogic) MaxFavorites(ctx context.Context) (int64, error) {
	return l.getInt64(ctx, model.SettingMaxFavoriteApps)
}

// SetMaxFavorites n>0 时保存上限，否则移除设置
func (l *SettingLogic) SetMaxFavorites(ctx context.Context, n int64) error {
	if n > 0 {
		return storageError(l.settings.SetSetting(ctx, model.SettingMaxFavoriteApps, strconv.FormatInt(n, 10)))
	}
	return storageError(l.settings.RemoveSetting(ctx, model.SettingMaxFavoriteApps))
}

// DefaultImageID 默认插图ID，未设置时为 0
func (l *SettingLogic) DefaultImageID(ctx context.Context) (int64, error) {
	return l.getInt64(ctx, model.SettingDefaultAppImageID)
}

// SetDefaultImage 设置默认插图，名称与内容均为空时清除
func (l *SettingLogic) SetDefaultImage(ctx context.Context, img *types.ApplicationImage) (*types.ApplicationImage, error) {
	if img.IsBlank() {
		return nil, storageError(l.settings.RemoveSetting(ctx, model.SettingDefaultAppImageID))
	}

	// 覆盖已有的默认插图
	currentID, err := l.DefaultImageID(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := l.images.SaveImage(ctx, currentID, img.FileName, img.FileBody)
	if err != nil {
		return nil, err
	}

	if err := l.settings.SetSetting(ctx, model.SettingDefaultAppImageID, strconv.FormatInt(stored.ID, 10)); err != nil {
		return nil, storageError(err)
	}
	return types.ToApplicationImage(stored, false), nil
}

// DefaultImage 默认插图，未设置时返回 nil
func (l *SettingLogic) DefaultImage(ctx context.Context) (*model.ApplicationImage, error) {
	id, err := l.DefaultImageID(ctx)
	if err != nil || id <= 0 {
		return nil, err
	}
	return l.images.GetImage(ctx, id)
}

// GeneralSettings 通用设置
func (l *SettingLogic) GeneralSettings(ctx context.Context) (*types.GeneralSettings, error) {
	maxFavorites, err := l.MaxFavorites(ctx)
	if err != nil {
		return nil, err
	}
	settings := &types.GeneralSettings{MaxFavoriteApps: maxFavorites}

	img, err := l.DefaultImage(ctx)
	if err != nil {
		return nil, err
	}
	settings.DefaultApplicationImage = types.ToApplicationImage(img, true)
	return settings, nil
}
