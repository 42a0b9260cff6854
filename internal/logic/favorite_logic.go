package logic

import (
	"context"

	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
)

// FavoriteLogic 收藏逻辑
// 收藏上限只用于容量提示，新增收藏时不做校验
type FavoriteLogic struct {
	favorites    repository.FavoriteRepository
	applications repository.ApplicationRepository
	settings     *SettingLogic
	evaluator    *auth.Evaluator
}

// NewFavoriteLogic 创建收藏逻辑
func NewFavoriteLogic(store *repository.Store, settings *SettingLogic, evaluator *auth.Evaluator) *FavoriteLogic {
	return &FavoriteLogic{
		favorites:    store.Favorites,
		applications: store.Applications,
		settings:     settings,
		evaluator:    evaluator,
	}
}

func validateFavoriteArgs(applicationID int64, username string) error {
	if applicationID <= 0 {
		return invalidArgument("applicationId must be a positive integer")
	}
	if utils.IsEmpty(username) {
		return invalidArgument("username is mandatory")
	}
	return nil
}

// AddFavorite 收藏应用，重复收藏不报错
func (l *FavoriteLogic) AddFavorite(ctx context.Context, applicationID int64, username string) error {
	if err := validateFavoriteArgs(applicationID, username); err != nil {
		return err
	}
	app, err := l.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return storageError(err)
	}
	if app == nil {
		return ErrNotFound
	}
	if !l.evaluator.HasAccess(ctx, username, app.Permissions) {
		return ErrAccessDenied
	}
	return storageError(l.favorites.AddFavorite(ctx, applicationID, username))
}

// RemoveFavorite 取消收藏，未收藏时不报错
func (l *FavoriteLogic) RemoveFavorite(ctx context.Context, applicationID int64, username string) error {
	if err := validateFavoriteArgs(applicationID, username); err != nil {
		return err
	}
	return storageError(l.favorites.DeleteFavorite(ctx, applicationID, username))
}

// CountFavorites 用户收藏数
func (l *FavoriteLogic) CountFavorites(ctx context.Context, username string) (int64, error) {
	count, err := l.favorites.CountFavorites(ctx, username)
	return count, storageError(err)
}

// IsFavorite 是否已收藏
func (l *FavoriteLogic) IsFavorite(ctx context.Context, applicationID int64, username string) (bool, error) {
	fav, err := l.favorites.GetFavorite(ctx, applicationID, username)
	if err != nil {
		return false, storageError(err)
	}
	return fav != nil, nil
}

// SetOrder 更新收藏排序
func (l *FavoriteLogic) SetOrder(ctx context.Context, applicationID int64, username string, order int64) error {
	if err := validateFavoriteArgs(applicationID, username); err != nil {
		return err
	}
	return storageError(l.favorites.UpdateFavoriteOrder(ctx, applicationID, username, order))
}

// ListFavorites 用户的收藏关系
func (l *FavoriteLogic) ListFavorites(ctx context.Context, username string) ([]*model.FavoriteApplication, error) {
	list, err := l.favorites.ListFavorites(ctx, username)
	return list, storageError(err)
}

// MaxFavorites 收藏上限
func (l *FavoriteLogic) MaxFavorites(ctx context.Context) (int64, error) {
	return l.settings.MaxFavorites(ctx)
}

// SetMaxFavorites 设置收藏上限，n<=0 时清除，已有收藏不受影响
func (l *FavoriteLogic) SetMaxFavorites(ctx context.Context, n int64) error {
	return l.settings.SetMaxFavorites(ctx, n)
}

// CanAddFavorite 收藏数是否低于上限
func (l *FavoriteLogic) CanAddFavorite(ctx context.Context, count int64) (bool, error) {
	limit, err := l.MaxFavorites(ctx)
	if err != nil {
		return false, err
	}
	return count < limit, nil
}
