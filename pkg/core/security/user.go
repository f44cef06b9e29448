package security

import (
	"context"
	"strings"
	"time"

	errorc "cardmarket/pkg/core/err"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type UserAuth struct {
	jwtClient *JwtClient
}

type userKey struct{}

var UserKey = userKey{}

// MarketAdmin 允许使用通用实体管理接口的权限
const MarketAdmin = "ROLE_MARKET_ADMIN"

type UserClaims struct {
	jwt.RegisteredClaims
	ID          int64    `json:"id"`
	Username    string   `json:"username,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func NewUserAuth(secret []byte, expireTime time.Duration) *UserAuth {
	return &UserAuth{
		jwtClient: NewJwtClient(secret, expireTime),
	}
}

// CreateSimpleToken 创建用户token
func (a *UserAuth) CreateSimpleToken(userID int64, userName string) (string, error) {
	claims := &UserClaims{
		ID:       userID,
		Username: userName,
	}
	token, _, err := a.jwtClient.CreateUserToken(claims)
	return token, err
}

func (a *UserAuth) CreateToken(claims *UserClaims) (string, int64, error) {
	return a.jwtClient.CreateUserToken(claims)
}

// ParseToken 解析用户令牌
func (a *UserAuth) ParseToken(token string) (*UserClaims, error) {
	return a.jwtClient.ParseUserToken(token)
}

// OptionalAuth 可选校验，有token则验证并保存ID
func (a *UserAuth) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearer(c); ok {
			claims, err := a.jwtClient.ParseUserToken(token)
			if err == nil {
				a.jwtClient.SaveUserToContext(c, claims)
			}
		}
		return c.Next()
	}
}

// RequireAuth 必须通过校验，并保存ID
func (a *UserAuth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := a.authenticate(c)
		if err != nil {
			return err
		}
		a.jwtClient.SaveUserToContext(c, claims)
		return c.Next()
	}
}

// RequirePermission 要求特定权限
func (a *UserAuth) RequirePermission(permissionCode string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := a.authenticate(c)
		if err != nil {
			return err
		}
		a.jwtClient.SaveUserToContext(c, claims)

		for _, p := range claims.Permissions {
			if p == permissionCode {
				return c.Next()
			}
		}
		return errorc.New("permission denied", nil).Forbidden()
	}
}

func (a *UserAuth) authenticate(c *fiber.Ctx) (*UserClaims, error) {
	token, ok := bearer(c)
	if !ok {
		return nil, errorc.New("authorization header is required", nil).NoAuth()
	}
	claims, err := a.jwtClient.ParseUserToken(token)
	if err != nil {
		return nil, errorc.New("invalid token", err).NoAuth()
	}
	return claims, nil
}

func bearer(c *fiber.Ctx) (string, bool) {
	auth := c.Get(fiber.HeaderAuthorization)
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

// GetUserID 从上下文中获取用户ID
func GetUserID(c *fiber.Ctx) (int64, error) {
	if c == nil {
		return 0, errorc.New("fiber context is nil", nil).WithCode(errorc.ErrorCodeInternal)
	}
	id, ok := c.Locals(localUserID).(int64)
	if !ok || id == 0 {
		return 0, errorc.New("user id not found or invalid", nil).NoAuth()
	}
	return id, nil
}

func GetUserClaimsByCtx(ctx context.Context) (*UserClaims, error) {
	claims, ok := ctx.Value(UserKey).(*UserClaims)
	if !ok {
		return nil, errorc.New("user claims not found or invalid", nil).NoAuth()
	}
	return claims, nil
}

// HasPermission context 中的用户是否拥有指定权限
func HasPermission(ctx context.Context, permissionCode string) bool {
	claims, err := GetUserClaimsByCtx(ctx)
	if err != nil {
		return false
	}
	for _, p := range claims.Permissions {
		if p == permissionCode {
			return true
		}
	}
	return false
}
