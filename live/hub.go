package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/reelbite/reelbite/models"
)

// Event types pushed to partner dashboards.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks partner dashboard connections, keyed by partner id. A partner
// may have several tabs open, hence the slice.
type Hub struct {
	partners map[uint][]*websocket.Conn
	mutex    sync.Mutex
}

var hub = Hub{
	partners: make(map[uint][]*websocket.Conn),
}

// RegisterPartner adds a connection for the given partner.
func RegisterPartner(partnerID uint, conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.partners[partnerID] = append(hub.partners[partnerID], conn)
}

// UnregisterPartner drops and closes a connection.
func UnregisterPartner(partnerID uint, conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	conns := hub.partners[partnerID]
	for i, c := range conns {
		if c == conn {
			hub.partners[partnerID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(hub.partners[partnerID]) == 0 {
		delete(hub.partners, partnerID)
	}
	conn.Close()
}

// BroadcastOrderCreated notifies every partner owning a line of the order.
func BroadcastOrderCreated(order *models.Order, partnerIDs []uint) {
	send(partnerIDs, Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderStatus notifies the owning partners of a status change.
func BroadcastOrderStatus(order *models.Order, partnerIDs []uint) {
	send(partnerIDs, Message{Event: EventOrderStatusChanged, Data: order})
}

func send(partnerIDs []uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for _, id := range partnerIDs {
		for _, conn := range hub.partners[id] {
			// A broken connection is cleaned up when its reader exits.
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}
}
