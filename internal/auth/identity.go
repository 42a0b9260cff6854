package auth

import (
	"context"
	"errors"
	"time"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/utils"
	"github.com/obsamadmin/app-center/internal/model"
	"github.com/obsamadmin/app-center/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MembershipAnyType 任意成员类型
const MembershipAnyType = model.MembershipAnyType

// identityCachePrefix 身份缓存键前缀
const identityCachePrefix = "app_center:identity:"

// MembershipEntry 用户组成员关系
type MembershipEntry struct {
	Group string `json:"group"`
	Type  string `json:"type"`
}

// Matches 组相同，类型相同或任一方为任意类型
func (m MembershipEntry) Matches(other MembershipEntry) bool {
	if m.Group != other.Group {
		return false
	}
	return m.Type == other.Type || m.Type == MembershipAnyType || other.Type == MembershipAnyType
}

// Identity 用户身份
type Identity struct {
	Username    string            `json:"username"`
	Memberships []MembershipEntry `json:"memberships"`
}

// IsMemberOf 判断是否属于用户组
func (i *Identity) IsMemberOf(group, membershipType string) bool {
	if i == nil {
		return false
	}
	want := MembershipEntry{Group: group, Type: membershipType}
	for _, m := range i.Memberships {
		if m.Matches(want) {
			return true
		}
	}
	return false
}

// IdentityProvider 身份来源
type IdentityProvider interface {
	// CachedIdentity 已缓存的身份，未命中返回 nil
	CachedIdentity(ctx context.Context, username string) *Identity
	// CreateIdentity 从成员关系构建身份
	CreateIdentity(ctx context.Context, username string) (*Identity, error)
}

// StoreIdentityProvider 基于成员关系存储的身份来源，可选 Redis 读穿缓存
type StoreIdentityProvider struct {
	memberships repository.MembershipRepository
	cache       *redis.Client
	ttl         time.Duration
}

// NewStoreIdentityProvider 创建身份来源，cache 为 nil 时不缓存
func NewStoreIdentityProvider(memberships repository.MembershipRepository, cache *redis.Client, ttl time.Duration) *StoreIdentityProvider {
	return &StoreIdentityProvider{
		memberships: memberships,
		cache:       cache,
		ttl:         ttl,
	}
}

func identityCacheKey(username string) string {
	return identityCachePrefix + username
}

// CachedIdentity 读取缓存
func (p *StoreIdentityProvider) CachedIdentity(ctx context.Context, username string) *Identity {
	if p.cache == nil {
		return nil
	}
	data, err := p.cache.Get(ctx, identityCacheKey(username)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("读取身份缓存失败", zap.String("username", username), zap.Error(err))
		}
		return nil
	}
	var identity Identity
	if err := utils.UnmarshalString(data, &identity); err != nil {
		logger.Warn("解析身份缓存失败", zap.String("username", username), zap.Error(err))
		return nil
	}
	return &identity
}

// CreateIdentity 查询成员关系并写入缓存
func (p *StoreIdentityProvider) CreateIdentity(ctx context.Context, username string) (*Identity, error) {
	if p.memberships == nil {
		return nil, errors.New("membership repository not configured")
	}
	rows, err := p.memberships.ListMemberships(ctx, username)
	if err != nil {
		return nil, err
	}
	identity := &Identity{
		Username:    username,
		Memberships: make([]MembershipEntry, 0, len(rows)),
	}
	for _, row := range rows {
		membershipType := row.MembershipType
		if membershipType == "" {
			membershipType = MembershipAnyType
		}
		identity.Memberships = append(identity.Memberships, MembershipEntry{
			Group: row.GroupID,
			Type:  membershipType,
		})
	}

	if p.cache != nil {
		data, err := utils.MarshalString(identity)
		if err == nil {
			err = p.cache.Set(ctx, identityCacheKey(username), data, p.ttl).Err()
		}
		if err != nil {
			logger.Warn("写入身份缓存失败", zap.String("username", username), zap.Error(err))
		}
	}
	return identity, nil
}

// Invalidate 清除用户身份缓存
func (p *StoreIdentityProvider) Invalidate(ctx context.Context, username string) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Del(ctx, identityCacheKey(username)).Err()
}
