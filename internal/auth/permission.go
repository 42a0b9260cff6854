package auth

import (
	"context"
	"strings"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/utils"

	"go.uber.org/zap"
)

// AnyUser 任意已登录用户
const AnyUser = "*"

// ExpressionKind 权限表达式类型
type ExpressionKind int

const (
	// KindPublic 空表达式，所有人可访问
	KindPublic ExpressionKind = iota
	// KindAnyUser 任意已登录用户
	KindAnyUser
	// KindMembership 用户组成员，type:group 或 /group
	KindMembership
	// KindExactUser 指定用户名
	KindExactUser
)

// String 返回类型名
func (k ExpressionKind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindAnyUser:
		return "any"
	case KindMembership:
		return "membership"
	case KindExactUser:
		return "user"
	default:
		return "unknown"
	}
}

// Expression 解析后的权限表达式
type Expression struct {
	Kind     ExpressionKind
	Type     string // 成员类型，仅 KindMembership
	Group    string // 用户组，仅 KindMembership
	Username string // 仅 KindExactUser
}

// ParseExpression 解析权限表达式
// 含冒号按 type:group 解析，含斜杠视为任意类型的用户组，否则为用户名
func ParseExpression(expr string) Expression {
	switch {
	case utils.IsEmpty(expr):
		return Expression{Kind: KindPublic}
	case expr == AnyUser:
		return Expression{Kind: KindAnyUser}
	case strings.Contains(expr, ":"):
		parts := strings.SplitN(expr, ":", 2)
		return Expression{Kind: KindMembership, Type: parts[0], Group: parts[1]}
	case strings.Contains(expr, "/"):
		return Expression{Kind: KindMembership, Type: MembershipAnyType, Group: expr}
	default:
		return Expression{Kind: KindExactUser, Username: expr}
	}
}

// Evaluator 权限判定
type Evaluator struct {
	identities IdentityProvider
}

// NewEvaluator 创建权限判定
func NewEvaluator(identities IdentityProvider) *Evaluator {
	return &Evaluator{identities: identities}
}

// HasAccess 任一表达式授权即可访问
func (e *Evaluator) HasAccess(ctx context.Context, username string, permissions []string) bool {
	var identity *Identity
	resolved := false
	for _, perm := range permissions {
		expr := ParseExpression(perm)
		switch expr.Kind {
		case KindPublic:
			return true
		case KindAnyUser:
			if utils.IsNotEmpty(username) {
				return true
			}
			continue
		}
		if utils.IsEmpty(username) {
			continue
		}
		if !resolved {
			identity = e.resolve(ctx, username)
			resolved = true
		}
		if identity == nil {
			continue
		}
		if expr.Kind == KindExactUser {
			if expr.Username == username {
				return true
			}
			continue
		}
		if identity.IsMemberOf(expr.Group, expr.Type) {
			return true
		}
	}
	return false
}

// resolve 先查缓存，未命中时构建身份；失败视为无权限
func (e *Evaluator) resolve(ctx context.Context, username string) *Identity {
	if e.identities == nil {
		return nil
	}
	if identity := e.identities.CachedIdentity(ctx, username); identity != nil {
		return identity
	}
	identity, err := e.identities.CreateIdentity(ctx, username)
	if err != nil {
		logger.Warn("获取用户成员关系失败", zap.String("username", username), zap.Error(err))
		return nil
	}
	return identity
}
