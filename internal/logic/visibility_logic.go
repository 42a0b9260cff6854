package logic

import (
	"context"
	"math"
	"sort"

	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
	"github.com/obsamadmin/app-center/internal/types"
)

// VisibilityLogic 用户可见应用逻辑
type VisibilityLogic struct {
	applications repository.ApplicationRepository
	favorites    *FavoriteLogic
	evaluator    *auth.Evaluator
	defaultLimit int
}

// NewVisibilityLogic 创建可见性逻辑，defaultLimit 用于 limit<=0 的查询
func NewVisibilityLogic(
	applications repository.ApplicationRepository,
	favorites *FavoriteLogic,
	evaluator *auth.Evaluator,
	defaultLimit int,
) *VisibilityLogic {
	if defaultLimit <= 0 {
		defaultLimit = config.DefaultLimit
	}
	return &VisibilityLogic{
		applications: applications,
		favorites:    favorites,
		evaluator:    evaluator,
		defaultLimit: defaultLimit,
	}
}

// page 规范分页参数，limit 不超过 defaultLimit
func (l *VisibilityLogic) page(offset, limit int) (int, int) {
	if limit <= 0 || limit > l.defaultLimit {
		limit = l.defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > math.MaxInt-limit {
		offset = math.MaxInt - limit
	}
	return offset, limit
}

// ListApplications 管理视角，不做权限过滤
func (l *VisibilityLogic) ListApplications(ctx context.Context, offset, limit int, keyword string) (*types.ApplicationList, error) {
	offset, limit = l.page(offset, limit)
	list, err := l.applications.ListApplications(ctx, keyword, offset, limit)
	if err != nil {
		return nil, storageError(err)
	}
	total, err := l.applications.CountApplications(ctx, "")
	if err != nil {
		return nil, storageError(err)
	}
	return &types.ApplicationList{
		Applications:      types.ToApplicationList(list),
		TotalApplications: total,
	}, nil
}

// scanAccessible 权限无法下推到存储层，按批扫描并在内存中过滤，
// 直到凑够 offset+limit 条可见应用或数据耗尽
func (l *VisibilityLogic) scanAccessible(ctx context.Context, keyword string, offset, limit int, username string) ([]*model.Application, error) {
	wanted := offset + limit
	var accessible []*model.Application
	for cursor := 0; len(accessible) < wanted; cursor += limit {
		batch, err := l.applications.ListApplications(ctx, keyword, cursor, limit)
		if err != nil {
			return nil, storageError(err)
		}
		if len(batch) == 0 {
			break
		}
		accessible = append(accessible, utils.SliceFilter(batch, func(_ int, app *model.Application) bool {
			return l.evaluator.HasAccess(ctx, username, app.Permissions)
		})...)
		if len(batch) < limit {
			break
		}
	}

	if offset >= len(accessible) {
		return []*model.Application{}, nil
	}
	accessible = accessible[offset:]
	if len(accessible) > limit {
		accessible = accessible[:limit]
	}
	return accessible, nil
}

// favoriteIndex 用户收藏关系，按应用ID索引
func (l *VisibilityLogic) favoriteIndex(ctx context.Context, username string) ([]*model.FavoriteApplication, map[int64]*model.FavoriteApplication, error) {
	list, err := l.favorites.ListFavorites(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	index := make(map[int64]*model.FavoriteApplication, len(list))
	for _, fav := range list {
		index[fav.ApplicationID] = fav
	}
	return list, index, nil
}

// capacity 收藏数与是否可继续收藏
func (l *VisibilityLogic) capacity(ctx context.Context, username string) (int64, bool, error) {
	count, err := l.favorites.CountFavorites(ctx, username)
	if err != nil {
		return 0, false, err
	}
	canAdd, err := l.favorites.CanAddFavorite(ctx, count)
	if err != nil {
		return 0, false, err
	}
	return count, canAdd, nil
}

// ListAuthorizedApplications 用户有权访问的应用，总数为用户收藏数
func (l *VisibilityLogic) ListAuthorizedApplications(ctx context.Context, offset, limit int, keyword, username string) (*types.UserApplicationList, error) {
	if utils.IsEmpty(username) {
		return nil, invalidArgument("username is mandatory")
	}
	offset, limit = l.page(offset, limit)

	apps, err := l.scanAccessible(ctx, keyword, offset, limit, username)
	if err != nil {
		return nil, err
	}
	_, index, err := l.favoriteIndex(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]*types.UserApplication, 0, len(apps))
	for _, app := range apps {
		fav, ok := index[app.ID]
		result = append(result, types.ToUserApplication(app, favoriteOrder(fav), ok))
	}

	count, canAdd, err := l.capacity(ctx, username)
	if err != nil {
		return nil, err
	}
	return &types.UserApplicationList{
		Applications:      result,
		TotalApplications: count,
		CanAddFavorite:    canAdd,
	}, nil
}

func favoriteOrder(fav *model.FavoriteApplication) *int64 {
	if fav == nil || fav.Order == nil {
		return nil
	}
	return model.Int64Ptr(*fav.Order)
}

// ListFavorites 用户收藏的应用，已无权访问的收藏不返回
func (l *VisibilityLogic) ListFavorites(ctx context.Context, username string) ([]*types.UserApplication, error) {
	if utils.IsEmpty(username) {
		return nil, invalidArgument("username is mandatory")
	}
	favorites, _, err := l.favoriteIndex(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]*types.UserApplication, 0, len(favorites))
	for _, fav := range favorites {
		app, err := l.applications.GetApplication(ctx, fav.ApplicationID)
		if err != nil {
			return nil, storageError(err)
		}
		if app == nil || !l.evaluator.HasAccess(ctx, username, app.Permissions) {
			continue
		}
		result = append(result, types.ToUserApplication(app, favoriteOrder(fav), true))
	}
	return result, nil
}

// ListMandatoryAndFavorites 必选应用与收藏应用的并集，有排序值的在前并按排序值升序
func (l *VisibilityLogic) ListMandatoryAndFavorites(ctx context.Context, username string) (*types.UserApplicationList, error) {
	if utils.IsEmpty(username) {
		return nil, invalidArgument("username is mandatory")
	}
	mandatory, err := l.applications.ListMandatoryApplications(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	favorites, index, err := l.favoriteIndex(ctx, username)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(mandatory)+len(favorites))
	candidates := make([]*model.Application, 0, len(mandatory)+len(favorites))
	for _, app := range mandatory {
		seen[app.ID] = true
		candidates = append(candidates, app)
	}
	for _, fav := range favorites {
		if seen[fav.ApplicationID] {
			continue
		}
		app, err := l.applications.GetApplication(ctx, fav.ApplicationID)
		if err != nil {
			return nil, storageError(err)
		}
		if app == nil {
			continue
		}
		seen[app.ID] = true
		candidates = append(candidates, app)
	}

	result := make([]*types.UserApplication, 0, len(candidates))
	for _, app := range candidates {
		if !l.evaluator.HasAccess(ctx, username, app.Permissions) {
			continue
		}
		fav, ok := index[app.ID]
		result = append(result, types.ToUserApplication(app, favoriteOrder(fav), ok))
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Order, result[j].Order
		switch {
		case a != nil && b != nil:
			return *a < *b
		default:
			return a != nil && b == nil
		}
	})

	_, canAdd, err := l.capacity(ctx, username)
	if err != nil {
		return nil, err
	}
	return &types.UserApplicationList{
		Applications:      result,
		TotalApplications: int64(len(result)),
		CanAddFavorite:    canAdd,
	}, nil
}

// UpdateFavoriteOrder 更新收藏排序
func (l *VisibilityLogic) UpdateFavoriteOrder(ctx context.Context, order *types.ApplicationOrder, username string) error {
	if order == nil {
		return invalidArgument("application order is mandatory")
	}
	if order.ID <= 0 {
		return invalidArgument("applicationId must be a positive integer")
	}
	if utils.IsEmpty(username) {
		return invalidArgument("username is mandatory")
	}
	return l.favorites.SetOrder(ctx, order.ID, username, order.Order)
}
