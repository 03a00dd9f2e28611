package handlers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const (
	chatWriteWait      = 10 * time.Second
	chatPongWait       = 60 * time.Second
	chatPingPeriod     = 50 * time.Second
	chatMaxMessageSize = 4096
)

// chatMessage is one support-chat message relayed to every connected client
type chatMessage struct {
	From   string `json:"from"`
	Sender string `json:"sender,omitempty"` // "customer" or "staff"
	Text   string `json:"text"`
	SentAt string `json:"sentAt"`
}

// chatHub fans support-chat messages out to all connected clients. One hub
// per process; customers and staff share the stream.
type chatHub struct {
	logger *log.Logger

	register   chan *chatClient
	unregister chan *chatClient
	broadcast  chan chatMessage
}

type chatClient struct {
	conn *websocket.Conn
	send chan chatMessage
}

func newChatHub(logger *log.Logger) *chatHub {
	return &chatHub{
		logger:     logger,
		register:   make(chan *chatClient),
		unregister: make(chan *chatClient),
		broadcast:  make(chan chatMessage, 16),
	}
}

func (hub *chatHub) run() {
	clients := make(map[*chatClient]bool)

	for {
		select {
		case client := <-hub.register:
			clients[client] = true
		case client := <-hub.unregister:
			if clients[client] {
				delete(clients, client)
				close(client.send)
			}
		case message := <-hub.broadcast:
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the connection
					delete(clients, client)
					close(client.send)
				}
			}
		}
	}
}

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		environment := os.Getenv("ENVIRONMENT")

		// In production, only allow connections from the trusted frontend
		if environment == "production" {
			origin := r.Header.Get("Origin")
			allowedOrigin := os.Getenv("FRONTEND_URL")
			if allowedOrigin == "" {
				allowedOrigin = "https://shiningstarcleaning.com"
			}
			return origin == allowedOrigin
		}

		// In development, allow all origins for easier testing
		return true
	},
}

// handleChatStream upgrades the connection and joins the support-chat hub
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Printf("Error upgrading chat connection: %s", err)
		return
	}

	sender := "customer"
	displayName := "Visitor"
	if user := currentUser(r); user != nil {
		displayName = user.DisplayName
		if user.IsAdmin() || user.IsStaff() {
			sender = "staff"
		}
	}

	client := &chatClient{conn: conn, send: make(chan chatMessage, 16)}
	h.chat.register <- client

	go h.chatWritePump(client)
	h.chatReadPump(client, displayName, sender)
}

func (h *Handler) chatReadPump(client *chatClient, displayName, sender string) {
	defer func() {
		h.chat.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(chatMaxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(chatPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(chatPongWait))
	})

	for {
		var incoming struct {
			Text string `json:"text"`
		}
		if err := client.conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Printf("Chat connection error: %s", err)
			}
			return
		}
		if incoming.Text == "" {
			continue
		}

		h.chat.broadcast <- chatMessage{
			From:   displayName,
			Sender: sender,
			Text:   incoming.Text,
			SentAt: time.Now().UTC().Format(time.RFC3339),
		}
	}
}

func (h *Handler) chatWritePump(client *chatClient) {
	ticker := time.NewTicker(chatPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
