package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	commonConfig "github.com/obsamadmin/app-center/common/config"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(getToken(c, "satoken"))
	})

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{"token header", "/", map[string]string{"satoken": "h1", "Authorization": "Bearer b1"}, "h1"},
		{"bearer", "/", map[string]string{"Authorization": "Bearer b1"}, "b1"},
		{"raw authorization", "/", map[string]string{"Authorization": "r1"}, "r1"},
		{"query", "/?satoken=q1", nil, "q1"},
		{"cookie", "/", map[string]string{"Cookie": "satoken=c1"}, "c1"},
		{"none", "/", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body := make([]byte, 64)
			n, _ := resp.Body.Read(body)
			assert.Equal(t, tt.want, string(body[:n]))
		})
	}
}

func TestAuthAndAdminMiddleware(t *testing.T) {
	require.NoError(t, auth.InitSaToken(&commonConfig.Config{
		SaToken: commonConfig.SaTokenConfig{
			TokenName:     "satoken",
			Timeout:       3600,
			ActiveTimeout: -1,
			IsConcurrent:  true,
			IsShare:       true,
		},
	}))

	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Memberships.AddMembership(ctx, &model.UserMembership{Username: "admin", GroupID: config.DefaultAdministratorsGroup, MembershipType: "manager"}))
	evaluator := auth.NewEvaluator(auth.NewStoreIdentityProvider(store.Memberships, nil, 0))

	app := fiber.New()
	app.Get("/admin", AuthMiddleware("satoken"), AdminMiddleware(evaluator, config.DefaultAdministratorsExpression), func(c *fiber.Ctx) error {
		return c.SendString(GetCurrentUsername(c) + ":" + GetCurrentToken(c))
	})

	adminToken, err := auth.Login("admin")
	require.NoError(t, err)
	userToken, err := auth.Login("simple")
	require.NoError(t, err)

	call := func(token string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		if token != "" {
			req.Header.Set("satoken", token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call(adminToken))
	assert.Equal(t, fiber.StatusForbidden, call(userToken))
	assert.Equal(t, fiber.StatusUnauthorized, call(""))
	assert.Equal(t, fiber.StatusUnauthorized, call("unknown"))
}
