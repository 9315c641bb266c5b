package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/reelbite/reelbite/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"actor_id": c.GetUint(CtxActorID),
			"role":     c.GetString(CtxRole),
		})
	})
	return r
}

func getWithAuth(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthMiddleware(t *testing.T) {
	r := authRouter(UserAuthMiddleware())

	userToken, err := utils.GenerateToken(7, utils.RoleUser)
	assert.NoError(t, err)
	partnerToken, err := utils.GenerateToken(3, utils.RolePartner)
	assert.NoError(t, err)

	w := getWithAuth(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong principal type and missing credentials are both refused.
	w = getWithAuth(r, "Bearer "+partnerToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithAuth(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithAuth(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPartnerAuthMiddleware(t *testing.T) {
	r := authRouter(PartnerAuthMiddleware())

	userToken, err := utils.GenerateToken(7, utils.RoleUser)
	assert.NoError(t, err)
	partnerToken, err := utils.GenerateToken(3, utils.RolePartner)
	assert.NoError(t, err)

	w := getWithAuth(r, "Bearer "+partnerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = getWithAuth(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCookieFallback(t *testing.T) {
	r := authRouter(UserAuthMiddleware())

	token, err := utils.GenerateToken(7, utils.RoleUser)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBlacklistedTokenRejected(t *testing.T) {
	r := authRouter(AnyAuthMiddleware())

	token, err := utils.GenerateToken(7, utils.RoleUser)
	assert.NoError(t, err)

	w := getWithAuth(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	utils.BlacklistToken(token)

	w = getWithAuth(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
