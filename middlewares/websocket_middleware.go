package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/reelbite/reelbite/utils"
)

// WebSocketAuthMiddleware authenticates the partner dashboard socket.
// Browsers cannot set headers on websocket upgrades, so the token arrives as
// a query parameter (or the session cookie).
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}
		if claims.Role != utils.RolePartner {
			c.AbortWithStatus(403)
			return
		}

		c.Set(CtxActorID, claims.ActorID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}
