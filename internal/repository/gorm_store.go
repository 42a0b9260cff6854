package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/obsamadmin/app-center/common/types"
	"github.com/obsamadmin/app-center/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建基于 GORM 的存储
func NewGormStore(db *gorm.DB) *Store {
	s := &gormStore{db: db}
	return &Store{
		Applications: s,
		Favorites:    s,
		Images:       s,
		Settings:     s,
		Memberships:  s,
	}
}

// first 查询单条记录，不存在时返回 nil
func first[T any](q *gorm.DB) (*T, error) {
	var row T
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ========== 应用 ==========

func (s *gormStore) CreateApplication(ctx context.Context, app *model.Application) error {
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *gormStore) UpdateApplication(ctx context.Context, app *model.Application) error {
	return s.db.WithContext(ctx).Save(app).Error
}

func (s *gormStore) DeleteApplication(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Application{}, id).Error
}

func (s *gormStore) GetApplication(ctx context.Context, id int64) (*model.Application, error) {
	return first[model.Application](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *gormStore) GetApplicationByTitle(ctx context.Context, title string) (*model.Application, error) {
	return first[model.Application](s.db.WithContext(ctx).Where("title = ?", title))
}

func (s *gormStore) GetApplicationByURL(ctx context.Context, url string) (*model.Application, error) {
	return first[model.Application](s.db.WithContext(ctx).Where("url = ?", url))
}

func (s *gormStore) GetApplicationByTitleOrURL(ctx context.Context, title, url string) (*model.Application, error) {
	return first[model.Application](s.db.WithContext(ctx).Where("title = ? OR url = ?", title, url))
}

// likeEscaper 转义 LIKE 通配符，mysql 与 postgres 默认转义符均为反斜杠
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// keywordScope 标题或地址模糊匹配，关键字按字面子串处理
func keywordScope(keyword string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return q
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
		return q.Where("LOWER(title) LIKE ? OR LOWER(url) LIKE ?", like, like)
	}
}

func (s *gormStore) ListApplications(ctx context.Context, keyword string, offset, limit int) ([]*model.Application, error) {
	var list []*model.Application
	q := s.db.WithContext(ctx).Model(&model.Application{}).Scopes(keywordScope(keyword)).Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *gormStore) CountApplications(ctx context.Context, keyword string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Application{}).Scopes(keywordScope(keyword)).Count(&count).Error
	return count, err
}

func (s *gormStore) ListMandatoryApplications(ctx context.Context) ([]*model.Application, error) {
	var list []*model.Application
	err := s.db.WithContext(ctx).Where("mandatory = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *gormStore) ListSystemApplications(ctx context.Context) ([]*model.Application, error) {
	var list []*model.Application
	err := s.db.WithContext(ctx).Where("is_system = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}

// ========== 收藏 ==========

func (s *gormStore) AddFavorite(ctx context.Context, applicationID int64, username string) error {
	fav := &model.FavoriteApplication{
		ApplicationID: applicationID,
		Username:      username,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}, {Name: "username"}},
		DoNothing: true,
	}).Create(fav).Error
}

func (s *gormStore) DeleteFavorite(ctx context.Context, applicationID int64, username string) error {
	return s.db.WithContext(ctx).
		Where("application_id = ? AND username = ?", applicationID, username).
		Delete(&model.FavoriteApplication{}).Error
}

func (s *gormStore) DeleteFavoritesByApplication(ctx context.Context, applicationID int64) error {
	return s.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&model.FavoriteApplication{}).Error
}

func (s *gormStore) GetFavorite(ctx context.Context, applicationID int64, username string) (*model.FavoriteApplication, error) {
	return first[model.FavoriteApplication](s.db.WithContext(ctx).
		Where("application_id = ? AND username = ?", applicationID, username))
}

func (s *gormStore) ListFavorites(ctx context.Context, username string) ([]*model.FavoriteApplication, error) {
	var list []*model.FavoriteApplication
	err := s.db.WithContext(ctx).Where("username = ?", username).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *gormStore) CountFavorites(ctx context.Context, username string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.FavoriteApplication{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

func (s *gormStore) UpdateFavoriteOrder(ctx context.Context, applicationID int64, username string, order int64) error {
	return s.db.WithContext(ctx).Model(&model.FavoriteApplication{}).
		Where("application_id = ? AND username = ?", applicationID, username).
		Update("app_order", order).Error
}

// ========== 插图 ==========

func (s *gormStore) SaveImage(ctx context.Context, img *model.ApplicationImage) error {
	img.UpdatedAt = types.Now()
	if img.ID == 0 {
		return s.db.WithContext(ctx).Create(img).Error
	}
	return s.db.WithContext(ctx).Save(img).Error
}

func (s *gormStore) GetImage(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	return first[model.ApplicationImage](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *gormStore) GetImageInfo(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	return first[model.ApplicationImage](s.db.WithContext(ctx).Select("id", "file_name", "updated_at").Where("id = ?", id))
}

func (s *gormStore) DeleteImage(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.ApplicationImage{}, id).Error
}

// ========== 设置 ==========

func (s *gormStore) settingScope(q *gorm.DB) *gorm.DB {
	return q.Where("context = ? AND scope = ?", model.SettingContextGlobal, model.SettingScopeAppCenter)
}

func (s *gormStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	row, err := first[model.Setting](s.db.WithContext(ctx).Scopes(s.settingScope).Where("setting_key = ?", key))
	if err != nil || row == nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *gormStore) SetSetting(ctx context.Context, key, value string) error {
	setting := &model.Setting{
		Context: model.SettingContextGlobal,
		Scope:   model.SettingScopeAppCenter,
		Key:     key,
		Value:   value,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "context"}, {Name: "scope"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

func (s *gormStore) RemoveSetting(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Scopes(s.settingScope).
		Where("setting_key = ?", key).
		Delete(&model.Setting{}).Error
}

// ========== 成员关系 ==========

func (s *gormStore) ListMemberships(ctx context.Context, username string) ([]*model.UserMembership, error) {
	var list []*model.UserMembership
	err := s.db.WithContext(ctx).Where("username = ?", username).Find(&list).Error
	return list, err
}

func (s *gormStore) AddMembership(ctx context.Context, m *model.UserMembership) error {
	if m.MembershipType == "" {
		m.MembershipType = model.MembershipAnyType
	}
	return s.db.WithContext(ctx).Create(m).Error
}
