package ws

import (
	"log"
	"net/http"
	"sync"

	"backend/entity"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderHub pushes order-status changes to the customers who placed them.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // userID -> set of connections
	broadcast  chan StatusEvent
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
}

// Subscription is one authenticated websocket connection of one user.
type Subscription struct {
	Conn   *websocket.Conn
	UserID uint
}

// StatusEvent is the JSON payload sent on every status change.
type StatusEvent struct {
	UserID       uint   `json:"-"`
	OrderID      uint   `json:"orderId"`
	RestaurantID uint   `json:"restaurantId"`
	Status       string `json:"status"`
}

func NewOrderHub() *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan StatusEvent),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
	}
}

// Run owns the client registry; call it once in a goroutine.
func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.UserID] == nil {
				h.clients[sub.UserID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.UserID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.UserID][sub.Conn]; ok {
				delete(h.clients[sub.UserID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[evt.UserID] {
				if err := conn.WriteJSON(evt); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[evt.UserID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyStatus fans the order's current status out to its owner.
func (h *OrderHub) NotifyStatus(o *entity.Order) {
	h.broadcast <- StatusEvent{
		UserID:       o.UserID,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		Status:       o.OrderStatus.StatusName,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders?token=
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := Subscription{Conn: conn, UserID: userID}
	h.register <- sub

	// the feed is push-only; reads just detect the close
	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
