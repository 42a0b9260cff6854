package types

import (
	"encoding/base64"

	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/model"

	"github.com/jinzhu/copier"
)

// ToApplication 将 model.Application 转换为 Application
func ToApplication(m *model.Application) *Application {
	if m == nil {
		return nil
	}
	app := &Application{}
	_ = copier.Copy(app, m)
	app.ID = m.ID
	app.Permissions = append([]string{}, m.Permissions...)
	return app
}

// ToApplicationList 批量转换
func ToApplicationList(list []*model.Application) []*Application {
	return utils.SliceMap(list, func(_ int, m *model.Application) *Application {
		return ToApplication(m)
	})
}

// ToApplicationModel 将 Application 转换为 model.Application（不含插图内容）
func ToApplicationModel(a *Application) *model.Application {
	if a == nil {
		return nil
	}
	m := &model.Application{}
	_ = copier.Copy(m, a)
	m.ID = a.ID
	m.Permissions = model.StringList(append([]string{}, a.Permissions...))
	return m
}

// ToUserApplication 转换为用户视角的应用
func ToUserApplication(m *model.Application, order *int64, favorite bool) *UserApplication {
	app := ToApplication(m)
	if app == nil {
		return nil
	}
	return &UserApplication{
		Application: *app,
		Favorite:    favorite,
		Order:       order,
	}
}

// ToApplicationImage 转换插图，withBody 控制是否携带 base64 内容
func ToApplicationImage(m *model.ApplicationImage, withBody bool) *ApplicationImage {
	if m == nil {
		return nil
	}
	img := &ApplicationImage{
		ID:          m.ID,
		FileName:    m.FileName,
		LastUpdated: m.UpdatedAt.UnixMilli(),
	}
	if withBody {
		img.FileBody = base64.StdEncoding.EncodeToString(m.FileBody)
	}
	return img
}
