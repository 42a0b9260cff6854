package svc

import (
	"context"
	"time"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/logic"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceContext 全局服务上下文
type ServiceContext struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Store      *repository.Store
	Identities *auth.StoreIdentityProvider
	Evaluator  *auth.Evaluator

	Images       *logic.ImageLogic
	Settings     *logic.SettingLogic
	Favorites    *logic.FavoriteLogic
	Applications *logic.ApplicationLogic
	Visibility   *logic.VisibilityLogic
	SystemApps   *logic.SystemAppLogic
}

var Ctx *ServiceContext

// NewServiceContext 创建服务上下文，db 为 nil 时使用内存存储，rdb 为 nil 时不缓存身份
func NewServiceContext(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *ServiceContext {
	var store *repository.Store
	if db != nil {
		store = repository.NewGormStore(db)
	} else {
		store = repository.NewMemoryStore()
	}

	ac := cfg.AppCenter
	identities := auth.NewStoreIdentityProvider(store.Memberships, rdb, time.Duration(ac.IdentityCacheTTL)*time.Second)
	evaluator := auth.NewEvaluator(identities)
	images := logic.NewImageLogic(store.Images)
	settings := logic.NewSettingLogic(store.Settings, images)
	favorites := logic.NewFavoriteLogic(store, settings, evaluator)
	applications := logic.NewApplicationLogic(store, images, settings, evaluator, ac.DefaultAdministratorsExpression)

	return &ServiceContext{
		Config:       cfg,
		DB:           db,
		Redis:        rdb,
		Store:        store,
		Identities:   identities,
		Evaluator:    evaluator,
		Images:       images,
		Settings:     settings,
		Favorites:    favorites,
		Applications: applications,
		Visibility:   logic.NewVisibilityLogic(store.Applications, favorites, evaluator, ac.DefaultLimit),
		SystemApps:   logic.NewSystemAppLogic(applications, ac.Applications),
	}
}

// Init 初始化服务上下文
func Init(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *ServiceContext {
	Ctx = NewServiceContext(cfg, db, rdb)
	return Ctx
}

// Bootstrap 写入配置声明的成员关系并同步系统应用
func (s *ServiceContext) Bootstrap(ctx context.Context) error {
	if err := s.seedMemberships(ctx); err != nil {
		return err
	}

	result, err := s.SystemApps.Reconcile(ctx)
	if err != nil {
		return err
	}
	logger.Info("系统应用同步完成",
		zap.Strings("created", result.Created),
		zap.Strings("updated", result.Updated),
		zap.Strings("skipped", result.Skipped),
		zap.Strings("deleted", result.Deleted),
		zap.Strings("failed", result.Failed),
	)
	return nil
}

// seedMemberships 已存在的成员关系不会重复写入
func (s *ServiceContext) seedMemberships(ctx context.Context) error {
	for _, decl := range s.Config.AppCenter.Memberships {
		if decl.Username == "" || decl.Group == "" {
			continue
		}
		membershipType := decl.Type
		if membershipType == "" {
			membershipType = model.MembershipAnyType
		}

		existing, err := s.Store.Memberships.ListMemberships(ctx, decl.Username)
		if err != nil {
			return err
		}
		found := false
		for _, m := range existing {
			if m.GroupID == decl.Group && m.MembershipType == membershipType {
				found = true
				break
			}
		}
		if found {
			continue
		}

		err = s.Store.Memberships.AddMembership(ctx, &model.UserMembership{
			Username:       decl.Username,
			GroupID:        decl.Group,
			MembershipType: membershipType,
		})
		if err != nil {
			return err
		}
		if err := s.Identities.Invalidate(ctx, decl.Username); err != nil {
			logger.Warn("清除身份缓存失败", zap.String("username", decl.Username), zap.Error(err))
		}
	}
	return nil
}
