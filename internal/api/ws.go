package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard page is served from the same origin; the API is also
	// exposed cross-origin for development frontends.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans out refresh notifications to connected dashboard pages.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// HandleWS upgrades the connection and keeps it registered until the peer
// goes away. The server never reads application data from clients.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends a JSON message to every connected client.
func (h *Hub) Broadcast(message interface{}) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			h.drop(conn)
		}
	}
}

// WatchDataDir polls the category files and, whenever a collection run has
// rewritten one, invalidates the table cache and notifies dashboards.
func (h *Handler) WatchDataDir(interval time.Duration) {
	seen := make(map[string]time.Time)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		for i := range h.catalog.Categories {
			cat := &h.catalog.Categories[i]
			info, err := os.Stat(filepath.Join(h.dataDir, cat.File))
			if err != nil {
				continue
			}
			if last, ok := seen[cat.Key]; ok && info.ModTime().After(last) {
				h.cache.invalidate(cat.Key)
				h.hub.Broadcast(gin.H{"type": "refresh", "category": cat.Key})
			}
			seen[cat.Key] = info.ModTime()
		}
	}
}
