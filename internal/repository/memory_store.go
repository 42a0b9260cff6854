package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/obsamadmin/app-center/common/types"
	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/model"
)

type favoriteKey struct {
	applicationID int64
	username      string
}

type memoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	applications map[int64]*model.Application
	favorites    map[favoriteKey]*model.FavoriteApplication
	images       map[int64]*model.ApplicationImage
	settings     map[string]string
	memberships  map[string][]*model.UserMembership
}

// NewMemoryStore 创建内存存储，数据不持久化
func NewMemoryStore() *Store {
	s := &memoryStore{
		applications: make(map[int64]*model.Application),
		favorites:    make(map[favoriteKey]*model.FavoriteApplication),
		images:       make(map[int64]*model.ApplicationImage),
		settings:     make(map[string]string),
		memberships:  make(map[string][]*model.UserMembership),
	}
	return &Store{
		Applications: s,
		Favorites:    s,
		Images:       s,
		Settings:     s,
		Memberships:  s,
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneApplication(app *model.Application) *model.Application {
	if app == nil {
		return nil
	}
	c := *app
	c.Permissions = append(model.StringList(nil), app.Permissions...)
	if app.ImageFileID != nil {
		c.ImageFileID = model.Int64Ptr(*app.ImageFileID)
	}
	return &c
}

// sortedApplications 按 ID 升序返回满足条件的应用
func (s *memoryStore) sortedApplications(match func(app *model.Application) bool) []*model.Application {
	list := make([]*model.Application, 0, len(s.applications))
	for _, app := range s.applications {
		if match(app) {
			list = append(list, cloneApplication(app))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func keywordMatch(keyword string) func(app *model.Application) bool {
	keyword = utils.Trim(keyword)
	return func(app *model.Application) bool {
		return keyword == "" ||
			utils.ContainsIgnoreCase(app.Title, keyword) ||
			utils.ContainsIgnoreCase(app.URL, keyword)
	}
}

// ========== 应用 ==========

func (s *memoryStore) CreateApplication(ctx context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == 0 {
		app.ID = s.id()
	}
	now := types.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	s.applications[app.ID] = cloneApplication(app)
	return nil
}

func (s *memoryStore) UpdateApplication(ctx context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app.UpdatedAt = types.Now()
	s.applications[app.ID] = cloneApplication(app)
	return nil
}

func (s *memoryStore) DeleteApplication(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applications, id)
	return nil
}

func (s *memoryStore) GetApplication(ctx context.Context, id int64) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneApplication(s.applications[id]), nil
}

func (s *memoryStore) findApplication(match func(app *model.Application) bool) *model.Application {
	list := s.sortedApplications(match)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func (s *memoryStore) GetApplicationByTitle(ctx context.Context, title string) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findApplication(func(app *model.Application) bool { return app.Title == title }), nil
}

func (s *memoryStore) GetApplicationByURL(ctx context.Context, url string) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findApplication(func(app *model.Application) bool { return app.URL == url }), nil
}

func (s *memoryStore) GetApplicationByTitleOrURL(ctx context.Context, title, url string) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findApplication(func(app *model.Application) bool {
		return app.Title == title || app.URL == url
	}), nil
}

func (s *memoryStore) ListApplications(ctx context.Context, keyword string, offset, limit int) ([]*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.sortedApplications(keywordMatch(keyword))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*model.Application{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryStore) CountApplications(ctx context.Context, keyword string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.sortedApplications(keywordMatch(keyword)))), nil
}

func (s *memoryStore) ListMandatoryApplications(ctx context.Context) ([]*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedApplications(func(app *model.Application) bool { return app.Mandatory }), nil
}

func (s *memoryStore) ListSystemApplications(ctx context.Context) ([]*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedApplications(func(app *model.Application) bool { return app.System }), nil
}

// ========== 收藏 ==========

func (s *memoryStore) AddFavorite(ctx context.Context, applicationID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := favoriteKey{applicationID, username}
	if _, ok := s.favorites[key]; ok {
		return nil
	}
	s.favorites[key] = &model.FavoriteApplication{
		ID:            s.id(),
		ApplicationID: applicationID,
		Username:      username,
	}
	return nil
}

func (s *memoryStore) DeleteFavorite(ctx context.Context, applicationID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, favoriteKey{applicationID, username})
	return nil
}

func (s *memoryStore) DeleteFavoritesByApplication(ctx context.Context, applicationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.favorites {
		if key.applicationID == applicationID {
			delete(s.favorites, key)
		}
	}
	return nil
}

func cloneFavorite(f *model.FavoriteApplication) *model.FavoriteApplication {
	c := *f
	if f.Order != nil {
		c.Order = model.Int64Ptr(*f.Order)
	}
	return &c
}

func (s *memoryStore) GetFavorite(ctx context.Context, applicationID int64, username string) (*model.FavoriteApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.favorites[favoriteKey{applicationID, username}]
	if !ok {
		return nil, nil
	}
	return cloneFavorite(f), nil
}

func (s *memoryStore) ListFavorites(ctx context.Context, username string) ([]*model.FavoriteApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.FavoriteApplication, 0)
	for key, f := range s.favorites {
		if key.username == username {
			list = append(list, cloneFavorite(f))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *memoryStore) CountFavorites(ctx context.Context, username string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for key := range s.favorites {
		if key.username == username {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) UpdateFavoriteOrder(ctx context.Context, applicationID int64, username string, order int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.favorites[favoriteKey{applicationID, username}]; ok {
		f.Order = model.Int64Ptr(order)
	}
	return nil
}

// ========== 插图 ==========

func (s *memoryStore) SaveImage(ctx context.Context, img *model.ApplicationImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img.ID == 0 {
		img.ID = s.id()
	}
	img.UpdatedAt = types.Now()
	c := *img
	c.FileBody = append([]byte(nil), img.FileBody...)
	s.images[img.ID] = &c
	return nil
}

func (s *memoryStore) GetImage(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	if !ok {
		return nil, nil
	}
	c := *img
	c.FileBody = append([]byte(nil), img.FileBody...)
	return &c, nil
}

func (s *memoryStore) GetImageInfo(ctx context.Context, id int64) (*model.ApplicationImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	if !ok {
		return nil, nil
	}
	c := *img
	c.FileBody = nil
	return &c, nil
}

func (s *memoryStore) DeleteImage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, id)
	return nil
}

// ========== 设置 ==========

func (s *memoryStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.settings[key]
	return value, ok, nil
}

func (s *memoryStore) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *memoryStore) RemoveSetting(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settings, key)
	return nil
}

// ========== 成员关系 ==========

func (s *memoryStore) ListMemberships(ctx context.Context, username string) ([]*model.UserMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*model.UserMembership, 0, len(s.memberships[username]))
	for _, m := range s.memberships[username] {
		c := *m
		list = append(list, &c)
	}
	return list, nil
}

func (s *memoryStore) AddMembership(ctx context.Context, m *model.UserMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.MembershipType == "" {
		m.MembershipType = model.MembershipAnyType
	}
	if m.ID == 0 {
		m.ID = s.id()
	}
	c := *m
	s.memberships[m.Username] = append(s.memberships[m.Username], &c)
	return nil
}
