package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/reelbite/reelbite/live"
	"github.com/reelbite/reelbite/middlewares"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PartnerEventsHandler -> websocket endpoint for the partner dashboard.
// Auth already happened in the websocket middleware.
func PartnerEventsHandler(c *gin.Context) {
	partnerID := c.GetUint(middlewares.CtxActorID)
	if partnerID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterPartner(partnerID, ws)

	// The dashboard only listens; the read loop just detects disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterPartner(partnerID, ws)
}
