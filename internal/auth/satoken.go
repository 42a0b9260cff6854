package auth

import (
	commonConfig "github.com/obsamadmin/app-center/common/config"
	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/redis"

	"github.com/click33/sa-token-go/core"
	satokenConfig "github.com/click33/sa-token-go/core/config"
	"github.com/click33/sa-token-go/storage/memory"
	satokenRedis "github.com/click33/sa-token-go/storage/redis"
	"github.com/click33/sa-token-go/stputil"
	"go.uber.org/zap"
)

// InitSaToken 初始化SaToken
// 配置了 Redis 时共享存储验证统一登录颁发的 Token，否则降级为内存存储
func InitSaToken(cfg *commonConfig.Config) error {
	var storage core.Storage
	if cfg.Redis.Enabled() {
		s, err := satokenRedis.NewStorage(redis.URL(&cfg.Redis))
		if err != nil {
			logger.Warn("[SaToken] Redis存储初始化失败，降级使用内存存储", zap.Error(err))
			storage = memory.NewStorage()
		} else {
			logger.Info("[SaToken] 使用共享Redis存储 (SSO模式)")
			storage = s
		}
	} else {
		logger.Warn("[SaToken] 使用内存存储（服务重启后token会丢失）")
		storage = memory.NewStorage()
	}

	tokenStyle := parseTokenStyle(cfg.SaToken.TokenStyle)

	builder := core.NewBuilder().
		Storage(storage).
		TokenName(cfg.SaToken.TokenName).
		TokenStyle(tokenStyle).
		Timeout(cfg.SaToken.Timeout).
		ActiveTimeout(cfg.SaToken.ActiveTimeout).
		IsConcurrent(cfg.SaToken.IsConcurrent).
		IsShare(cfg.SaToken.IsShare).
		MaxLoginCount(cfg.SaToken.MaxLoginCount).
		IsLog(cfg.SaToken.IsLog)

	if tokenStyle == satokenConfig.TokenStyleJWT && cfg.SaToken.JwtSecretKey != "" {
		builder = builder.JwtSecretKey(cfg.SaToken.JwtSecretKey)
	}

	stputil.SetManager(builder.Build())

	return nil
}

// parseTokenStyle 解析Token风格配置
func parseTokenStyle(style string) satokenConfig.TokenStyle {
	switch style {
	case "simple-uuid":
		return satokenConfig.TokenStyleSimple
	case "random-32":
		return satokenConfig.TokenStyleRandom32
	case "random-64":
		return satokenConfig.TokenStyleRandom64
	case "random-128":
		return satokenConfig.TokenStyleRandom128
	case "jwt":
		return satokenConfig.TokenStyleJWT
	default:
		return satokenConfig.TokenStyleUUID
	}
}

// Login 登录，返回 Token
func Login(username string) (string, error) {
	return stputil.Login(username)
}

// IsLogin 判断是否登录
func IsLogin(tokenValue string) bool {
	return stputil.IsLogin(tokenValue)
}

// GetLoginId 获取登录ID，即用户名
func GetLoginId(tokenValue string) (string, error) {
	return stputil.GetLoginID(tokenValue)
}
