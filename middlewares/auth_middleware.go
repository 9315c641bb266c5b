package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reelbite/reelbite/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxActorID = "actor_id"
	CtxRole    = "role"
	CtxToken   = "token"
)

// extractToken reads the bearer token from the Authorization header, falling
// back to the "token" cookie the web client uses.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func authenticate(c *gin.Context) (*utils.CustomClaims, string, error) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, "", errors.New("authentication required")
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil || claims == nil {
		return nil, "", errors.New("invalid or expired token")
	}
	if claims.ActorID == 0 {
		return nil, "", errors.New("invalid actor ID in token")
	}
	return claims, tokenString, nil
}

// UserAuthMiddleware only lets end users through.
func UserAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, token, err := authenticate(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.Role != utils.RoleUser {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("user account required"))
			c.Abort()
			return
		}

		c.Set(CtxActorID, claims.ActorID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// PartnerAuthMiddleware only lets food partners through.
func PartnerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, token, err := authenticate(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.Role != utils.RolePartner {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("food partner account required"))
			c.Abort()
			return
		}

		c.Set(CtxActorID, claims.ActorID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// AnyAuthMiddleware accepts either principal type. Handlers inspect the role.
func AnyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, token, err := authenticate(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set(CtxActorID, claims.ActorID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxToken, token)
		c.Next()
	}
}
