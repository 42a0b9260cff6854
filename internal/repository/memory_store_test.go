package repository

import (
	"context"
	"testing"

	"github.com/obsamadmin/app-center/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryApplications(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, title := range []string{"Wallet", "Perk store", "Tasks"} {
		require.NoError(t, store.Applications.CreateApplication(ctx, &model.Application{
			Title:       title,
			URL:         "/portal/" + title,
			Permissions: model.StringList{"*"},
		}))
	}

	list, err := store.Applications.ListApplications(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Perk store", list[0].Title)

	list, err = store.Applications.ListApplications(ctx, "PORTAL/t", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tasks", list[0].Title)

	list, err = store.Applications.ListApplications(ctx, "", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := store.Applications.CountApplications(ctx, "store")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// 通配符按字面匹配
	count, err = store.Applications.CountApplications(ctx, "_")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// 返回副本，修改不影响存储
	app, err := store.Applications.GetApplicationByTitle(ctx, "Wallet")
	require.NoError(t, err)
	app.Permissions[0] = "mary"
	again, err := store.Applications.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"*"}, again.Permissions)

	byURL, err := store.Applications.GetApplicationByTitleOrURL(ctx, "none", "/portal/Tasks")
	require.NoError(t, err)
	assert.Equal(t, "Tasks", byURL.Title)

	require.NoError(t, store.Applications.DeleteApplication(ctx, app.ID))
	missing, err := store.Applications.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryFavorites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Favorites.AddFavorite(ctx, 1, "mary"))
	require.NoError(t, store.Favorites.AddFavorite(ctx, 1, "mary"))
	require.NoError(t, store.Favorites.AddFavorite(ctx, 2, "mary"))
	require.NoError(t, store.Favorites.AddFavorite(ctx, 1, "john"))

	count, err := store.Favorites.CountFavorites(ctx, "mary")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, store.Favorites.UpdateFavoriteOrder(ctx, 2, "mary", 1))
	fav, err := store.Favorites.GetFavorite(ctx, 2, "mary")
	require.NoError(t, err)
	require.NotNil(t, fav.Order)
	assert.EqualValues(t, 1, *fav.Order)

	require.NoError(t, store.Favorites.DeleteFavoritesByApplication(ctx, 1))
	list, err := store.Favorites.ListFavorites(ctx, "mary")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 2, list[0].ApplicationID)

	count, err = store.Favorites.CountFavorites(ctx, "john")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, store.Favorites.DeleteFavorite(ctx, 99, "mary"))
}

func TestMemoryImagesAndSettings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	img := &model.ApplicationImage{FileName: "a.png", FileBody: []byte("a")}
	require.NoError(t, store.Images.SaveImage(ctx, img))
	assert.Positive(t, img.ID)
	assert.False(t, img.UpdatedAt.IsZero())

	stored, err := store.Images.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), stored.FileBody)

	info, err := store.Images.GetImageInfo(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", info.FileName)
	assert.Nil(t, info.FileBody)
	assert.Equal(t, img.UpdatedAt.UnixMilli(), info.UpdatedAt.UnixMilli())

	require.NoError(t, store.Images.DeleteImage(ctx, img.ID))
	stored, err = store.Images.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, ok, err := store.Settings.GetSetting(ctx, model.SettingDefaultAppImageID)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, store.Settings.SetSetting(ctx, model.SettingDefaultAppImageID, "3"))
	value, ok, err := store.Settings.GetSetting(ctx, model.SettingDefaultAppImageID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)
	require.NoError(t, store.Settings.RemoveSetting(ctx, model.SettingDefaultAppImageID))
	_, ok, err = store.Settings.GetSetting(ctx, model.SettingDefaultAppImageID)
	require.NoError(t, err)
	assert.False(t, ok)
}
