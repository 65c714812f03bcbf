package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delbi-restaurant/reservations-api/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.AdminClaims{
		Username: "manager",
		Name:     "Manager",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(testSecret), RequireAdmin(), func(c *gin.Context) {
		claims, ok := AdminClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return router
}

func doAuthRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidAdminToken(t *testing.T) {
	router := authTestRouter()
	token := signToken(t, testSecret, models.AdminRole, time.Hour)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "manager")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := authTestRouter()

	w := doAuthRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := authTestRouter()
	token := signToken(t, testSecret, models.AdminRole, time.Hour)

	for _, header := range []string{
		token,
		"Basic " + token,
		"Bearer",
	} {
		w := doAuthRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router := authTestRouter()
	token := signToken(t, "some-other-secret", models.AdminRole, time.Hour)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router := authTestRouter()
	token := signToken(t, testSecret, models.AdminRole, -time.Hour)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsUnsignedToken(t *testing.T) {
	router := authTestRouter()
	claims := &models.AdminClaims{Username: "manager", Role: models.AdminRole}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_NonAdminRole(t *testing.T) {
	router := authTestRouter()
	token := signToken(t, testSecret, "waiter", time.Hour)

	w := doAuthRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_WithoutAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doAuthRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminClaims_Accessor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := AdminClaims(c)
	assert.False(t, ok)

	c.Set(claimsKey, &models.AdminClaims{Username: "manager"})
	claims, ok := AdminClaims(c)
	require.True(t, ok)
	assert.Equal(t, "manager", claims.Username)
}
