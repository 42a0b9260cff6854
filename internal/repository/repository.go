package repository

import (
	"context"

	"github.com/obsamadmin/app-center/internal/model"
)

// ApplicationRepository 应用存储
// 查询类方法在记录不存在时返回 nil, nil
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	UpdateApplication(ctx context.Context, app *model.Application) error
	DeleteApplication(ctx context.Context, id int64) error
	GetApplication(ctx context.Context, id int64) (*model.Application, error)
	GetApplicationByTitle(ctx context.Context, title string) (*model.Application, error)
	GetApplicationByURL(ctx context.Context, url string) (*model.Application, error)
	GetApplicationByTitleOrURL(ctx context.Context, title, url string) (*model.Application, error)
	// ListApplications 按 ID 升序分页，keyword 忽略大小写匹配标题或地址
	ListApplications(ctx context.Context, keyword string, offset, limit int) ([]*model.Application, error)
	CountApplications(ctx context.Context, keyword string) (int64, error)
	ListMandatoryApplications(ctx context.Context) ([]*model.Application, error)
	ListSystemApplications(ctx context.Context) ([]*model.Application, error)
}

// FavoriteRepository 收藏关系存储
type FavoriteRepository interface {
	// AddFavorite 幂等插入
	AddFavorite(ctx context.Context, applicationID int64, username string) error
	// DeleteFavorite 记录不存在时不报错
	DeleteFavorite(ctx context.Context, applicationID int64, username string) error
	DeleteFavoritesByApplication(ctx context.Context, applicationID int64) error
	GetFavorite(ctx context.Context, applicationID int64, username string) (*model.FavoriteApplication, error)
	ListFavorites(ctx context.Context, username string) ([]*model.FavoriteApplication, error)
	CountFavorites(ctx context.Context, username string) (int64, error)
	UpdateFavoriteOrder(ctx context.Context, applicationID int64, username string, order int64) error
}

// ImageRepository 插图存储
type ImageRepository interface {
	// SaveImage ID 为 0 时新建，否则覆盖
	SaveImage(ctx context.Context, img *model.ApplicationImage) error
	GetImage(ctx context.Context, id int64) (*model.ApplicationImage, error)
	// GetImageInfo 只查询元数据，不加载内容
	GetImageInfo(ctx context.Context, id int64) (*model.ApplicationImage, error)
	DeleteImage(ctx context.Context, id int64) error
}

// SettingRepository 设置存储，固定在 GLOBAL/APP_CENTER 命名空间下
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	RemoveSetting(ctx context.Context, key string) error
}

// MembershipRepository 用户组成员关系存储
type MembershipRepository interface {
	ListMemberships(ctx context.Context, username string) ([]*model.UserMembership, error)
	AddMembership(ctx context.Context, m *model.UserMembership) error
}

// Store 存储集合
type Store struct {
	Applications ApplicationRepository
	Favorites    FavoriteRepository
	Images       ImageRepository
	Settings     SettingRepository
	Memberships  MembershipRepository
}

// Models 需要迁移的模型
func Models() []any {
	return []any{
		&model.Application{},
		&model.FavoriteApplication{},
		&model.ApplicationImage{},
		&model.Setting{},
		&model.UserMembership{},
	}
}
