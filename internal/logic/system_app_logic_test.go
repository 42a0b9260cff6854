package logic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestDecide(t *testing.T) {
	system := &model.Application{System: true}
	edited := &model.Application{System: true, ChangedManually: true}
	custom := &model.Application{}

	tests := []struct {
		name   string
		decl   config.ApplicationDeclaration
		stored *model.Application
		want   ReconcileAction
	}{
		{"disabled", config.ApplicationDeclaration{Enabled: boolPtr(false)}, nil, ActionSkip},
		{"disabled stored", config.ApplicationDeclaration{Enabled: boolPtr(false), Override: true, OverrideMode: "write"}, system, ActionSkip},
		{"absent", config.ApplicationDeclaration{}, nil, ActionCreate},
		{"absent with override", config.ApplicationDeclaration{Override: true, OverrideMode: "write"}, nil, ActionCreate},
		{"changed manually", config.ApplicationDeclaration{Override: true, OverrideMode: "write"}, edited, ActionSkip},
		{"no override", config.ApplicationDeclaration{OverrideMode: "write"}, system, ActionSkip},
		{"merge", config.ApplicationDeclaration{Override: true, OverrideMode: "merge"}, system, ActionSkip},
		{"default mode is merge", config.ApplicationDeclaration{Override: true}, system, ActionSkip},
		{"write", config.ApplicationDeclaration{Override: true, OverrideMode: "write"}, system, ActionOverwrite},
		{"write upper case", config.ApplicationDeclaration{Override: true, OverrideMode: " WRITE "}, system, ActionOverwrite},
		{"user application with same title", config.ApplicationDeclaration{Override: true, OverrideMode: "write"}, custom, ActionSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.decl, tt.stored))
		})
	}
}

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	imagePath := filepath.Join(t.TempDir(), "wallet.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))

	declarations := []config.ApplicationDeclaration{
		{Title: "Wallet", URL: "/portal/wallet", ImagePath: imagePath, Permissions: []string{"*"}, Override: true, OverrideMode: "write"},
		{Title: "Perk store", URL: "/portal/perkstore", Mandatory: true},
		{Title: "Disabled", URL: "/portal/disabled", Enabled: boolPtr(false)},
	}
	result, err := NewSystemAppLogic(f.registry, declarations).Reconcile(f.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Wallet", "Perk store"}, result.Created)
	assert.Equal(t, []string{"Disabled"}, result.Skipped)

	wallet, err := f.registry.GetApplicationByTitle(f.ctx, "Wallet")
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.True(t, wallet.System)
	require.NotNil(t, wallet.ImageFileID)
	meta, err := f.registry.ImageMetadata(f.ctx, wallet.ID, simpleUser)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "wallet.png", meta.FileName)

	perk, err := f.registry.GetApplicationByTitle(f.ctx, "Perk store")
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultAdministratorsExpression}, perk.Permissions)
	assert.True(t, perk.Active)

	disabled, err := f.registry.GetApplicationByTitle(f.ctx, "Disabled")
	require.NoError(t, err)
	assert.Nil(t, disabled)

	// 第二次同步：Wallet 覆盖，Perk store 已被管理员修改，移除的声明被删除
	perk.Description = "edited by admin"
	_, err = f.registry.UpdateApplication(f.ctx, perk, adminUser)
	require.NoError(t, err)
	require.NoError(t, f.favorites.AddFavorite(f.ctx, wallet.ID, simpleUser))

	declarations = []config.ApplicationDeclaration{
		{Title: "Wallet", URL: "/portal/wallet/v2", Permissions: []string{"*"}, Override: true, OverrideMode: "write"},
		{Title: "Perk store", URL: "/portal/perkstore/v2", Override: true, OverrideMode: "write"},
	}
	result, err = NewSystemAppLogic(f.registry, declarations).Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wallet"}, result.Updated)
	assert.Equal(t, []string{"Perk store"}, result.Skipped)
	assert.Empty(t, result.Deleted)

	wallet, err = f.registry.GetApplicationByTitle(f.ctx, "Wallet")
	require.NoError(t, err)
	assert.Equal(t, "/portal/wallet/v2", wallet.URL)
	assert.NotNil(t, wallet.ImageFileID)
	isFavorite, err := f.favorites.IsFavorite(f.ctx, wallet.ID, simpleUser)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	perk, err = f.registry.GetApplicationByTitle(f.ctx, "Perk store")
	require.NoError(t, err)
	assert.Equal(t, "/portal/perkstore", perk.URL)

	result, err = NewSystemAppLogic(f.registry, declarations[1:]).Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wallet"}, result.Deleted)
	count, err := f.favorites.CountFavorites(f.ctx, simpleUser)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReconcileReportsCollisions(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Custom", "/portal/wallet")

	result, err := NewSystemAppLogic(f.registry, []config.ApplicationDeclaration{
		{Title: "Wallet", URL: "/portal/wallet"},
		{Title: "Custom", URL: "/portal/custom", Override: true, OverrideMode: "write"},
	}).Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wallet"}, result.Failed)
	assert.Equal(t, []string{"Custom"}, result.Skipped)

	custom, err := f.registry.GetApplicationByTitle(f.ctx, "Custom")
	require.NoError(t, err)
	assert.False(t, custom.System)
	assert.Equal(t, "/portal/wallet", custom.URL)
}
