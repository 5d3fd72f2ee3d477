package router

import (
	"context"
	"strings"

	"github.com/brundhavanam/grocery/internal/authz"
	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/i18n"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// principal token 主体的当前状态（来自缓存快照或数据库）
type principal struct {
	tokenVersion uint64
	disabled     bool
	isSuper      bool
}

// principalLoader 按主体 ID 读取状态，found=false 表示主体不存在
type principalLoader func(ctx context.Context, id uint) (p principal, found bool)

// tokenClaims 两类 JWT claims 的公共部分，target 返回解析目标指针
type tokenClaims interface {
	target() jwt.Claims
	subjectID() uint
	version() uint64
}

type adminClaims struct{ *service.JWTClaims }

func (c adminClaims) target() jwt.Claims { return c.JWTClaims }
func (c adminClaims) subjectID() uint    { return c.AdminID }
func (c adminClaims) version() uint64    { return c.TokenVersion }

type userClaims struct{ *service.UserJWTClaims }

func (c userClaims) target() jwt.Claims { return c.UserJWTClaims }
func (c userClaims) subjectID() uint    { return c.UserID }
func (c userClaims) version() uint64    { return c.TokenVersion }

// jwtGuard 校验 Bearer token，再比对主体的账号状态与 token 版本
func jwtGuard[C tokenClaims](secretKey string, newClaims func() C, load principalLoader, attach func(*gin.Context, C, principal)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if load == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}
		claims := newClaims()
		if !parseHS256(tokenString, secretKey, claims.target()) || claims.subjectID() == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		p, found := load(c.Request.Context(), claims.subjectID())
		switch {
		case !found:
			abortUnauthorized(c, "error.token_invalid")
		case p.disabled:
			abortUnauthorized(c, "error.user_disabled")
		case p.tokenVersion != claims.version():
			abortUnauthorized(c, "error.token_revoked")
		default:
			attach(c, claims, p)
			c.Next()
		}
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		abortUnauthorized(c, "error.auth_header_missing")
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || scheme != "Bearer" || token == "" {
		abortUnauthorized(c, "error.auth_header_invalid")
		return "", false
	}
	return token, true
}

func parseHS256(tokenString, secretKey string, claims jwt.Claims) bool {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	return err == nil && token.Valid
}

// adminPrincipalLoader 先读 redis 快照，未命中回源数据库并回写
func adminPrincipalLoader(adminRepo repository.AdminRepository) principalLoader {
	if adminRepo == nil {
		return nil
	}
	return func(ctx context.Context, id uint) (principal, bool) {
		if cached, hit, err := cache.GetAdminAuthState(ctx, id); err == nil && hit && cached != nil {
			return principal{tokenVersion: cached.TokenVersion, isSuper: cached.IsSuper}, true
		}
		admin, err := adminRepo.GetByID(id)
		if err != nil || admin == nil {
			return principal{}, false
		}
		_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
		return principal{tokenVersion: admin.TokenVersion, isSuper: admin.IsSuper}, true
	}
}

func userPrincipalLoader(userRepo repository.UserRepository) principalLoader {
	if userRepo == nil {
		return nil
	}
	return func(ctx context.Context, id uint) (principal, bool) {
		if cached, hit, err := cache.GetUserAuthState(ctx, id); err == nil && hit && cached != nil {
			return principal{tokenVersion: cached.TokenVersion, disabled: !isActiveUserStatus(cached.Status)}, true
		}
		user, err := userRepo.GetByID(id)
		if err != nil || user == nil {
			return principal{}, false
		}
		_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
		return principal{tokenVersion: user.TokenVersion, disabled: !isActiveUserStatus(user.Status)}, true
	}
}

// JWTAuthMiddleware 后台管理员鉴权
func JWTAuthMiddleware(secretKey string, adminRepo repository.AdminRepository) gin.HandlerFunc {
	return jwtGuard(secretKey,
		func() adminClaims { return adminClaims{&service.JWTClaims{}} },
		adminPrincipalLoader(adminRepo),
		func(c *gin.Context, claims adminClaims, p principal) {
			c.Set(handlershared.ContextAdminID, claims.AdminID)
			c.Set(handlershared.ContextAdminName, claims.Username)
			c.Set(handlershared.ContextAdminIsSuper, p.isSuper)
		})
}

// UserJWTAuthMiddleware 顾客鉴权，禁用账号与已吊销 token 均拒绝
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return jwtGuard(secretKey,
		func() userClaims { return userClaims{&service.UserJWTClaims{}} },
		userPrincipalLoader(userRepo),
		func(c *gin.Context, claims userClaims, _ principal) {
			c.Set(handlershared.ContextUserID, claims.UserID)
			c.Set(handlershared.ContextUserMobile, claims.Mobile)
		})
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}

// AdminRBACMiddleware 超级管理员直接放行，其余按 casbin 策略校验路由
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if c.GetBool(handlershared.ContextAdminIsSuper) {
			c.Next()
			return
		}
		adminID := c.GetUint(handlershared.ContextAdminID)
		if adminID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := strings.TrimSpace(c.FullPath())
		if resource == "" {
			resource = c.Request.URL.Path
		}
		log := logger.S().With("admin_id", adminID, "method", c.Request.Method, "path", c.Request.URL.Path)
		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			log.Errorw("admin_rbac_enforce_failed", "error", err)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			log.Warnw("admin_rbac_permission_denied", "resource", authz.NormalizeObject(resource))
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
