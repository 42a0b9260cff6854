package logic

import (
	"context"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
	"github.com/obsamadmin/app-center/internal/types"

	"go.uber.org/zap"
)

// ApplicationLogic 应用注册逻辑
type ApplicationLogic struct {
	applications      repository.ApplicationRepository
	favorites         repository.FavoriteRepository
	images            *ImageLogic
	settings          *SettingLogic
	evaluator         *auth.Evaluator
	defaultPermission string
}

// NewApplicationLogic 创建应用注册逻辑
func NewApplicationLogic(
	store *repository.Store,
	images *ImageLogic,
	settings *SettingLogic,
	evaluator *auth.Evaluator,
	defaultPermission string,
) *ApplicationLogic {
	return &ApplicationLogic{
		applications:      store.Applications,
		favorites:         store.Favorites,
		images:            images,
		settings:          settings,
		evaluator:         evaluator,
		defaultPermission: defaultPermission,
	}
}

// normalizePermissions 空权限替换为默认管理员表达式
func (l *ApplicationLogic) normalizePermissions(permissions []string) model.StringList {
	if len(permissions) == 0 {
		return model.StringList{l.defaultPermission}
	}
	return model.StringList(append([]string{}, permissions...))
}

func validateApplication(app *types.Application) error {
	if app == nil {
		return invalidArgument("application is mandatory")
	}
	if utils.IsEmpty(app.Title) {
		return invalidArgument("application title is mandatory")
	}
	if utils.IsEmpty(app.URL) {
		return invalidArgument("application url is mandatory")
	}
	return nil
}

// checkCollision 检查标题与地址是否被其他应用占用，标题优先
func (l *ApplicationLogic) checkCollision(ctx context.Context, title, url string, selfID int64) error {
	byTitle, err := l.applications.GetApplicationByTitle(ctx, title)
	if err != nil {
		return storageError(err)
	}
	if byTitle != nil && byTitle.ID != selfID {
		return ErrTitleAlreadyExists
	}
	byURL, err := l.applications.GetApplicationByURL(ctx, url)
	if err != nil {
		return storageError(err)
	}
	if byURL != nil && byURL.ID != selfID {
		return ErrURLAlreadyExists
	}
	return nil
}

// saveImage 携带插图内容时保存，覆盖应用自身的插图
func (l *ApplicationLogic) saveImage(ctx context.Context, app *types.Application, currentID *int64) (*int64, error) {
	if !app.HasImageBody() {
		return currentID, nil
	}
	img, err := l.images.SaveImage(ctx, model.GetInt64(currentID), app.ImageFileName, app.ImageFileBody)
	if err != nil {
		return nil, err
	}
	return model.Int64Ptr(img.ID), nil
}

// discardImage 应用写入失败时清理新建的插图
func (l *ApplicationLogic) discardImage(ctx context.Context, id *int64) {
	if model.GetInt64(id) <= 0 {
		return
	}
	if err := l.images.DeleteImage(ctx, *id); err != nil {
		logger.Warn("清理插图失败", zap.Int64("imageId", *id), zap.Error(err))
	}
}

// CreateApplication 创建应用
func (l *ApplicationLogic) CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	if err := validateApplication(app); err != nil {
		return nil, err
	}
	if err := l.checkCollision(ctx, app.Title, app.URL, 0); err != nil {
		return nil, err
	}

	m := types.ToApplicationModel(app)
	m.ID = 0
	m.Permissions = l.normalizePermissions(app.Permissions)
	imageID, err := l.saveImage(ctx, app, nil)
	if err != nil {
		return nil, err
	}
	m.ImageFileID = imageID

	if err := l.applications.CreateApplication(ctx, m); err != nil {
		l.discardImage(ctx, imageID)
		return nil, storageError(err)
	}
	return types.ToApplication(m), nil
}

// UpdateApplication 更新应用，校验用户对原应用的权限
func (l *ApplicationLogic) UpdateApplication(ctx context.Context, app *types.Application, username string) (*types.Application, error) {
	if err := validateApplication(app); err != nil {
		return nil, err
	}
	if utils.IsEmpty(username) {
		return nil, invalidArgument("username is mandatory")
	}
	if app.ID <= 0 {
		return nil, ErrNotFound
	}

	stored, err := l.applications.GetApplication(ctx, app.ID)
	if err != nil {
		return nil, storageError(err)
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	if !l.evaluator.HasAccess(ctx, username, stored.Permissions) {
		return nil, ErrAccessDenied
	}
	if err := l.checkCollision(ctx, app.Title, app.URL, app.ID); err != nil {
		return nil, err
	}

	// 插图ID只取存储值，请求中的 imageFileId 不生效
	imageID, err := l.saveImage(ctx, app, stored.ImageFileID)
	if err != nil {
		return nil, err
	}

	m := types.ToApplicationModel(app)
	m.CreatedAt = stored.CreatedAt
	m.Permissions = l.normalizePermissions(app.Permissions)
	m.ImageFileID = imageID
	m.System = stored.System
	m.ChangedManually = stored.ChangedManually || stored.System

	if err := l.applications.UpdateApplication(ctx, m); err != nil {
		if stored.ImageFileID == nil {
			l.discardImage(ctx, imageID)
		}
		return nil, storageError(err)
	}
	return types.ToApplication(m), nil
}

// DeleteApplication 删除应用及其收藏关系
func (l *ApplicationLogic) DeleteApplication(ctx context.Context, id int64, username string) error {
	if id <= 0 {
		return invalidArgument("applicationId must be a positive integer")
	}
	if utils.IsEmpty(username) {
		return invalidArgument("username is mandatory")
	}

	stored, err := l.applications.GetApplication(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if stored == nil {
		return ErrNotFound
	}
	if !l.evaluator.HasAccess(ctx, username, stored.Permissions) {
		return ErrAccessDenied
	}
	return l.remove(ctx, stored)
}

// remove 删除应用、收藏关系与插图
func (l *ApplicationLogic) remove(ctx context.Context, app *model.Application) error {
	if err := l.favorites.DeleteFavoritesByApplication(ctx, app.ID); err != nil {
		return storageError(err)
	}
	if err := l.applications.DeleteApplication(ctx, app.ID); err != nil {
		return storageError(err)
	}
	if id := model.GetInt64(app.ImageFileID); id > 0 {
		if err := l.images.DeleteImage(ctx, id); err != nil {
			logger.Warn("删除应用插图失败", zap.Int64("applicationId", app.ID), zap.Int64("imageId", id), zap.Error(err))
		}
	}
	return nil
}

// GetApplication 按ID查询，不存在时返回 nil
func (l *ApplicationLogic) GetApplication(ctx context.Context, id int64) (*types.Application, error) {
	m, err := l.applications.GetApplication(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return types.ToApplication(m), nil
}

// GetApplicationByTitle 按标题查询，不存在时返回 nil
func (l *ApplicationLogic) GetApplicationByTitle(ctx context.Context, title string) (*types.Application, error) {
	m, err := l.applications.GetApplicationByTitle(ctx, title)
	if err != nil {
		return nil, storageError(err)
	}
	return types.ToApplication(m), nil
}

// GetApplicationByTitleOrURL 按标题或地址查询，不存在时返回 nil
func (l *ApplicationLogic) GetApplicationByTitleOrURL(ctx context.Context, title, url string) (*types.Application, error) {
	m, err := l.applications.GetApplicationByTitleOrURL(ctx, title, url)
	if err != nil {
		return nil, storageError(err)
	}
	return types.ToApplication(m), nil
}

// CountApplications 应用总数
func (l *ApplicationLogic) CountApplications(ctx context.Context) (int64, error) {
	count, err := l.applications.CountApplications(ctx, "")
	return count, storageError(err)
}

// ListApplications 按关键字分页查询
func (l *ApplicationLogic) ListApplications(ctx context.Context, keyword string, offset, limit int) ([]*types.Application, error) {
	list, err := l.applications.ListApplications(ctx, keyword, offset, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return types.ToApplicationList(list), nil
}

// accessibleImageID 校验应用可见后返回插图ID，未设置时使用默认插图
func (l *ApplicationLogic) accessibleImageID(ctx context.Context, applicationID int64, username string) (int64, error) {
	app, err := l.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return 0, storageError(err)
	}
	if app == nil {
		return 0, ErrNotFound
	}
	if !l.evaluator.HasAccess(ctx, username, app.Permissions) {
		return 0, ErrAccessDenied
	}
	if id := model.GetInt64(app.ImageFileID); id > 0 {
		return id, nil
	}
	return l.settings.DefaultImageID(ctx)
}

// ImageMetadata 插图元数据（不含内容），无插图时返回 nil
func (l *ApplicationLogic) ImageMetadata(ctx context.Context, applicationID int64, username string) (*types.ApplicationImage, error) {
	id, err := l.accessibleImageID(ctx, applicationID, username)
	if err != nil || id <= 0 {
		return nil, err
	}
	img, err := l.images.GetImageInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	return types.ToApplicationImage(img, false), nil
}
