package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-events/internal/middleware"
	"campus-events/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fixedRoles struct {
	role model.Role
}

func (f fixedRoles) Resolve(ctx context.Context, identity model.Identity) *model.User {
	if identity.ID == "" {
		return nil
	}
	return &model.User{ID: identity.ID, Name: identity.Name, Email: identity.Email, Role: f.role}
}

func sign(t *testing.T, key string, method jwt.SigningMethod, claims middleware.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims() middleware.Claims {
	return middleware.Claims{
		Name:  "Ada",
		Email: "ada@example.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	parser, err := middleware.NewJWTParser(secret)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Authenticate(parser, fixedRoles{role: model.RoleOrganizer}))
	r.GET("/whoami", func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return r
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := setupRouter(t)

	t.Run("Valid token", func(t *testing.T) {
		w := request(r, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, validClaims()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"u1","role":"organizer"}`, w.Body.String())
	})

	t.Run("No token continues anonymously", func(t *testing.T) {
		w := request(r, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":""}`, w.Body.String())
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		w := request(r, "Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		w := request(r, "Bearer "+sign(t, "other-secret", jwt.SigningMethodHS256, validClaims()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		w := request(r, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, claims))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Other algorithm", func(t *testing.T) {
		w := request(r, "Bearer "+sign(t, secret, jwt.SigningMethodHS512, validClaims()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""

		w := request(r, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, claims))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestNewJWTParser_RequiresSecret(t *testing.T) {
	_, err := middleware.NewJWTParser("")

	assert.ErrorIs(t, err, middleware.ErrMissingSecret)
}

func TestFixedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &model.User{ID: "local-user", Role: model.RoleOrganizer}
	r := gin.New()
	r.Use(middleware.FixedUser(user))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.CurrentUser(c).ID})
	})

	w := request(r, "")

	assert.JSONEq(t, `{"id":"local-user"}`, w.Body.String())
}
