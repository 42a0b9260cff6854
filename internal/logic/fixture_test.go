package logic

import (
	"context"

	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"
	"github.com/obsamadmin/app-center/internal/types"

	"github.com/stretchr/testify/require"
)

const (
	adminUser  = "admin"
	simpleUser = "simple"
)

type fixture struct {
	ctx        context.Context
	store      *repository.Store
	images     *ImageLogic
	settings   *SettingLogic
	favorites  *FavoriteLogic
	registry   *ApplicationLogic
	visibility *VisibilityLogic
}

func newFixture(t require.TestingT) *fixture {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Memberships.AddMembership(ctx, &model.UserMembership{Username: adminUser, GroupID: config.DefaultAdministratorsGroup, MembershipType: "manager"}))
	require.NoError(t, store.Memberships.AddMembership(ctx, &model.UserMembership{Username: adminUser, GroupID: "/platform/users"}))
	require.NoError(t, store.Memberships.AddMembership(ctx, &model.UserMembership{Username: simpleUser, GroupID: "/platform/users", MembershipType: "member"}))

	evaluator := auth.NewEvaluator(auth.NewStoreIdentityProvider(store.Memberships, nil, 0))
	images := NewImageLogic(store.Images)
	settings := NewSettingLogic(store.Settings, images)
	favorites := NewFavoriteLogic(store, settings, evaluator)
	registry := NewApplicationLogic(store, images, settings, evaluator, config.DefaultAdministratorsExpression)
	visibility := NewVisibilityLogic(store.Applications, favorites, evaluator, config.DefaultLimit)

	return &fixture{
		ctx:        ctx,
		store:      store,
		images:     images,
		settings:   settings,
		favorites:  favorites,
		registry:   registry,
		visibility: visibility,
	}
}

func (f *fixture) create(t require.TestingT, title, url string, permissions ...string) *types.Application {
	app, err := f.registry.CreateApplication(f.ctx, &types.Application{
		Title:       title,
		URL:         url,
		Description: "description of " + title,
		Active:      true,
		Permissions: permissions,
	})
	require.NoError(t, err)
	return app
}

// illustration 按处理器的方式读取插图：先取元数据，再按ID取内容
func (f *fixture) illustration(appID int64, username string) (*types.ApplicationImage, []byte, error) {
	meta, err := f.registry.ImageMetadata(f.ctx, appID, username)
	if err != nil || meta == nil {
		return meta, nil, err
	}
	img, err := f.images.GetImage(f.ctx, meta.ID)
	if err != nil || img == nil {
		return meta, nil, err
	}
	return meta, img.FileBody, nil
}
