package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	UserID    uint
	CompanyID uint
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logrus.WithFields(logrus.Fields{
				"userId":    client.UserID,
				"companyId": client.CompanyID,
			}).Debug("websocket client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			logrus.WithField("userId", client.UserID).Debug("websocket client disconnected")
		}
	}
}

// BroadcastToCompany sends a message to every connected user of a company
func (h *Hub) BroadcastToCompany(companyID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.CompanyID == companyID {
			select {
			case client.Send <- message:
			default:
				logrus.WithField("userId", client.UserID).Warn("websocket send buffer full, dropping message")
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingStatusEvent notifies a booking party about a status change
type BookingStatusEvent struct {
	BookingID       uint   `json:"bookingId"`
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	ActingCompanyID uint   `json:"actingCompanyId"`
}

// SendBookingStatusEvent pushes a booking status change to both parties
func (h *Hub) SendBookingStatusEvent(event BookingStatusEvent, companyIDs ...uint) {
	message := WebSocketMessage{
		Type: "booking_status",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal booking status event")
		return
	}

	for _, companyID := range companyIDs {
		h.BroadcastToCompany(companyID, data)
	}
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID, companyID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := &Client{
		UserID:    userID,
		CompanyID: companyID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub.
// Clients only receive events; inbound frames are drained to detect closes.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("websocket read error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logrus.WithError(err).Warn("websocket write error")
			return
		}
	}

	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
