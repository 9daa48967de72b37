package middleware

import (
	"errors"
	"net/http"
	"strings"

	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const currentUserKey = "currentUser"

var (
	ErrMissingSecret  = errors.New("jwt secret is required")
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims 外部身分提供者簽發的 token 內容，sub 為使用者 ID
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type IdentityParser interface {
	Parse(token string) (model.Identity, error)
}

// JWTParser 以共用密鑰驗證 HS256 token，本服務不簽發 token
type JWTParser struct {
	secret []byte
}

func NewJWTParser(secret string) (*JWTParser, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTParser{secret: []byte(secret)}, nil
}

func (p *JWTParser) Parse(tokenStr string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Identity{}, err
	}
	if !token.Valid {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return model.Identity{}, ErrMissingSubject
	}
	return model.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}

// Authenticate 解析 Bearer token 並補上角色。沒有 token 時以匿名身分繼續，
// token 無效時回傳 401。
func Authenticate(parser IdentityParser, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		identity, err := parser.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.WithComponent("handler").Warn("Invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if user := users.Resolve(c, identity); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// FixedUser 本機模式：每個請求都是同一位使用者
func FixedUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser 未登入時回傳 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
