package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	commonConfig "github.com/obsamadmin/app-center/common/config"
	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/svc"
	"github.com/obsamadmin/app-center/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prefix     = "/api/appCenter/applications"
	adminUser  = "admin"
	simpleUser = "simple"
	usersGroup = "*:/platform/users"
)

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type testServer struct {
	app    *fiber.App
	sc     *svc.ServiceContext
	admin  string
	simple string
}

func newTestServer(t *testing.T, declarations ...config.ApplicationDeclaration) *testServer {
	cfg := &config.Config{}
	cfg.Database.Driver = "memory"
	cfg.SaToken = commonConfig.SaTokenConfig{
		TokenName:     "satoken",
		TokenStyle:    "uuid",
		Timeout:       3600,
		ActiveTimeout: -1,
		IsConcurrent:  true,
		IsShare:       true,
	}
	cfg.AppCenter.Memberships = []config.MembershipDeclaration{
		{Username: adminUser, Group: config.DefaultAdministratorsGroup, Type: "manager"},
		{Username: adminUser, Group: "/platform/users", Type: "member"},
		{Username: simpleUser, Group: "/platform/users", Type: "member"},
	}
	cfg.AppCenter.Applications = declarations
	cfg.ApplyDefaults()

	require.NoError(t, auth.InitSaToken(&cfg.Config))
	sc := svc.Init(cfg, nil, nil)
	require.NoError(t, sc.Bootstrap(context.Background()))

	app := fiber.New()
	Setup(app, sc)

	admin, err := auth.Login(adminUser)
	require.NoError(t, err)
	simple, err := auth.Login(simpleUser)
	require.NoError(t, err)

	return &testServer{app: app, sc: sc, admin: admin, simple: simple}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := utils.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, prefix+path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("satoken", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope[T]
	require.NoError(t, utils.Unmarshal(data, &env), string(data))
	return env.Data
}

func (s *testServer) create(t *testing.T, app *types.Application) *types.Application {
	resp := s.do(t, fiber.MethodPost, "/addApplication", s.admin, app)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	created := decode[*types.Application](t, resp)
	require.NotNil(t, created)
	return created
}

func TestRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdministrationRoutesAreGuarded(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, fiber.MethodPost, "/addApplication", s.simple, &types.Application{Title: "Wiki", URL: "/wiki"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getApplicationsList", s.simple, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/setMaxFavorite?number=3", s.simple, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateApplication(t *testing.T) {
	s := newTestServer(t)

	created := s.create(t, &types.Application{
		ID:              42,
		Title:           "Wiki",
		URL:             "/wiki",
		Active:          true,
		System:          true,
		ChangedManually: true,
	})
	assert.NotEqual(t, int64(42), created.ID)
	assert.False(t, created.System)
	assert.False(t, created.ChangedManually)
	assert.Equal(t, []string{config.DefaultAdministratorsExpression}, created.Permissions)

	resp := s.do(t, fiber.MethodPost, "/addApplication", s.admin, &types.Application{Title: "Wiki", URL: "/other"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = s.do(t, fiber.MethodPost, "/addApplication", s.admin, &types.Application{Title: "Blank"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEditAndDeleteApplication(t *testing.T) {
	s := newTestServer(t)
	wiki := s.create(t, &types.Application{Title: "Wiki", URL: "/wiki", Active: true})

	wiki.Description = "team wiki"
	resp := s.do(t, fiber.MethodPost, "/editApplication", s.admin, wiki)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "team wiki", decode[*types.Application](t, resp).Description)

	resp = s.do(t, fiber.MethodPost, "/editApplication", s.admin, &types.Application{ID: 999, Title: "Ghost", URL: "/ghost"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = s.do(t, fiber.MethodDelete, "/deleteApplication/abc", s.admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, fiber.MethodDelete, "/deleteApplication/"+itoa(wiki.ID), s.admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodDelete, "/deleteApplication/"+itoa(wiki.ID), s.admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuthorizedApplicationsAndFavorites(t *testing.T) {
	s := newTestServer(t)
	wiki := s.create(t, &types.Application{Title: "Wiki", URL: "/wiki", Active: true, Permissions: []string{usersGroup}})
	console := s.create(t, &types.Application{Title: "Console", URL: "/console", Active: true})

	resp := s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList?offset=0&limit=10", s.simple, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[*types.UserApplicationList](t, resp)
	require.Len(t, list.Applications, 1)
	assert.Equal(t, "Wiki", list.Applications[0].Title)
	// 未设置收藏上限时不允许新增收藏
	assert.False(t, list.CanAddFavorite)

	resp = s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList?keyword=CONS", s.admin, nil)
	list = decode[*types.UserApplicationList](t, resp)
	require.Len(t, list.Applications, 1)
	assert.Equal(t, "Console", list.Applications[0].Title)

	resp = s.do(t, fiber.MethodGet, "/addFavoriteApplication/"+itoa(console.ID), s.simple, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/addFavoriteApplication/999", s.simple, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/addFavoriteApplication/"+itoa(wiki.ID), s.simple, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getFavoriteApplicationsList", s.simple, nil)
	favorites := decode[[]*types.UserApplication](t, resp)
	require.Len(t, favorites, 1)
	assert.Equal(t, wiki.ID, favorites[0].ID)
	assert.True(t, favorites[0].Favorite)

	resp = s.do(t, fiber.MethodGet, "/deleteFavoriteApplication/"+itoa(wiki.ID), s.simple, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getFavoriteApplicationsList", s.simple, nil)
	assert.Empty(t, decode[[]*types.UserApplication](t, resp))
}

func TestFavoriteLimitSettings(t *testing.T) {
	s := newTestServer(t)
	wiki := s.create(t, &types.Application{Title: "Wiki", URL: "/wiki", Active: true, Permissions: []string{usersGroup}})

	resp := s.do(t, fiber.MethodGet, "/setMaxFavorite?number=abc", s.admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/setMaxFavorite?number=1", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getGeneralSettings", s.simple, nil)
	settings := decode[*types.GeneralSettings](t, resp)
	assert.Equal(t, int64(1), settings.MaxFavoriteApps)
	assert.Nil(t, settings.DefaultApplicationImage)

	resp = s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList", s.simple, nil)
	assert.True(t, decode[*types.UserApplicationList](t, resp).CanAddFavorite)

	s.do(t, fiber.MethodGet, "/addFavoriteApplication/"+itoa(wiki.ID), s.simple, nil)
	resp = s.do(t, fiber.MethodGet, "/getAuthorizedApplicationsList", s.simple, nil)
	assert.False(t, decode[*types.UserApplicationList](t, resp).CanAddFavorite)

	resp = s.do(t, fiber.MethodGet, "/setMaxFavorite?number=0", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = s.do(t, fiber.MethodGet, "/getGeneralSettings", s.simple, nil)
	assert.Equal(t, int64(0), decode[*types.GeneralSettings](t, resp).MaxFavoriteApps)
}

func TestMandatoryAndFavoriteOrder(t *testing.T) {
	s := newTestServer(t)
	docs := s.create(t, &types.Application{Title: "Docs", URL: "/docs", Active: true, Mandatory: true, Permissions: []string{usersGroup}})
	wiki := s.create(t, &types.Application{Title: "Wiki", URL: "/wiki", Active: true, Permissions: []string{usersGroup}})
	s.create(t, &types.Application{Title: "Console", URL: "/console", Active: true, Mandatory: true})

	s.do(t, fiber.MethodGet, "/addFavoriteApplication/"+itoa(wiki.ID), s.simple, nil)
	resp := s.do(t, fiber.MethodPut, "/applicationsOrder", s.simple, []*types.ApplicationOrder{{ID: wiki.ID, Order: 1}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/getMandatoryAndFavoriteApplicationsList", s.simple, nil)
	list := decode[*types.UserApplicationList](t, resp)
	require.Len(t, list.Applications, 2)
	assert.Equal(t, wiki.ID, list.Applications[0].ID)
	assert.Equal(t, docs.ID, list.Applications[1].ID)
	assert.Equal(t, int64(2), list.TotalApplications)

	resp = s.do(t, fiber.MethodPut, "/applicationsOrder", s.simple, []*types.ApplicationOrder{{ID: 0, Order: 1}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIllustration(t *testing.T) {
	s := newTestServer(t)
	png := []byte{0x89, 'P', 'N', 'G'}
	wiki := s.create(t, &types.Application{
		Title:         "Wiki",
		URL:           "/wiki",
		Active:        true,
		Permissions:   []string{usersGroup},
		ImageFileName: "wiki.png",
		ImageFileBody: base64.StdEncoding.EncodeToString(png),
	})
	bare := s.create(t, &types.Application{Title: "Bare", URL: "/bare", Active: true, Permissions: []string{usersGroup}})
	console := s.create(t, &types.Application{Title: "Console", URL: "/console", Active: true})

	resp := s.do(t, fiber.MethodGet, "/illustration/"+itoa(wiki.ID), s.simple, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "max-age=86400", resp.Header.Get(fiber.HeaderCacheControl))
	etag := resp.Header.Get(fiber.HeaderETag)
	require.NotEmpty(t, etag)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, png, body)

	resp = s.do(t, fiber.MethodGet, "/illustration/"+itoa(wiki.ID), s.simple, nil, fiber.HeaderIfNoneMatch, etag)
	assert.Equal(t, fiber.StatusNotModified, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/illustration/"+itoa(bare.ID), s.simple, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/illustration/"+itoa(console.ID), s.simple, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// 未设置插图的应用使用默认插图
	resp = s.do(t, fiber.MethodPost, "/setDefaultImage", s.admin, &types.ApplicationImage{
		FileName: "default.png",
		FileBody: base64.StdEncoding.EncodeToString([]byte("default")),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodGet, "/illustration/"+itoa(bare.ID), s.simple, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("default"), body)

	resp = s.do(t, fiber.MethodPost, "/setDefaultImage", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = s.do(t, fiber.MethodGet, "/illustration/"+itoa(bare.ID), s.simple, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBootstrapDeclaredApplications(t *testing.T) {
	s := newTestServer(t, config.ApplicationDeclaration{
		Title:       "Documents",
		URL:         "/portal/documents",
		Mandatory:   true,
		Permissions: []string{usersGroup},
	})

	resp := s.do(t, fiber.MethodGet, "/getApplicationsList", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[*types.ApplicationList](t, resp)
	require.Len(t, list.Applications, 1)
	assert.True(t, list.Applications[0].System)
	assert.Equal(t, int64(1), list.TotalApplications)

	resp = s.do(t, fiber.MethodGet, "/getMandatoryAndFavoriteApplicationsList", s.simple, nil)
	mandatory := decode[*types.UserApplicationList](t, resp)
	require.Len(t, mandatory.Applications, 1)
	assert.Equal(t, "Documents", mandatory.Applications[0].Title)
}
