package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketManager fans notifications out to every connected officer.
type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.RWMutex
	log        *zap.SugaredLogger
}

func NewWebSocketManager(log *zap.SugaredLogger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Start runs the hub until ctx is cancelled, then closes every client.
// It must be called once.
func (wsm *WebSocketManager) Start(ctx context.Context) {
	defer close(wsm.done)
	for {
		select {
		case <-ctx.Done():
			wsm.mutex.Lock()
			for client := range wsm.clients {
				client.Close()
				delete(wsm.clients, client)
			}
			wsm.mutex.Unlock()
			return

		case client := <-wsm.register:
			wsm.mutex.Lock()
			wsm.clients[client] = true
			total := len(wsm.clients)
			wsm.mutex.Unlock()
			wsm.log.Debugw("websocket client connected", "total", total)

		case client := <-wsm.unregister:
			wsm.mutex.Lock()
			if _, ok := wsm.clients[client]; ok {
				delete(wsm.clients, client)
				client.Close()
			}
			total := len(wsm.clients)
			wsm.mutex.Unlock()
			wsm.log.Debugw("websocket client disconnected", "total", total)

		case message := <-wsm.broadcast:
			wsm.mutex.Lock()
			for client := range wsm.clients {
				client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					wsm.log.Warnw("websocket write failed, dropping client", "error", err)
					client.Close()
					delete(wsm.clients, client)
				}
			}
			wsm.mutex.Unlock()
		}
	}
}

// Broadcast queues a notification for every client. It never blocks; when the
// queue is full the notification is dropped.
func (wsm *WebSocketManager) Broadcast(n domain.Notification) {
	message, err := json.Marshal(n)
	if err != nil {
		wsm.log.Errorw("marshalling notification", "type", n.Type, "error", err)
		return
	}

	select {
	case wsm.broadcast <- message:
	default:
		wsm.log.Warnw("broadcast queue full, dropping notification", "type", n.Type)
	}
}

// Register hands a new connection to the hub. It reports false, leaving the
// connection to the caller, once the hub has stopped.
func (wsm *WebSocketManager) Register(conn *websocket.Conn) bool {
	select {
	case wsm.register <- conn:
		return true
	case <-wsm.done:
		return false
	}
}

// Unregister removes a connection. After the hub has stopped every client is
// already closed, so it returns immediately.
func (wsm *WebSocketManager) Unregister(conn *websocket.Conn) {
	select {
	case wsm.unregister <- conn:
	case <-wsm.done:
	}
}

// ClientCount reports the number of connected clients.
func (wsm *WebSocketManager) ClientCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

type WebSocketHandler struct {
	wsManager      *WebSocketManager
	parkingService *service.ParkingService
	interval       time.Duration
	log            *zap.SugaredLogger
}

func NewWebSocketHandler(wsManager *WebSocketManager, ps *service.ParkingService, interval time.Duration, log *zap.SugaredLogger) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager, parkingService: ps, interval: interval, log: log}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	if !h.wsManager.Register(conn) {
		conn.Close()
		return
	}

	go func() {
		defer func() {
			h.wsManager.Unregister(conn)
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Debugw("websocket read error", "error", err)
				}
				return
			}
		}
	}()
}

// GET /ws/sessions/:id/countdown
//
// Pushes the session countdown right away and then on every tick. The ticker
// stops as soon as the client goes away or the session leaves the active state.
func (h *WebSocketHandler) HandleCountdown(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id", "Session")
	if !ok {
		return
	}
	first, err := h.parkingService.Countdown(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err, "Could not load parking session")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	streamCountdown(ctx, h.interval, first, func(ctx context.Context) (*domain.CountdownUpdate, error) {
		return h.parkingService.Countdown(ctx, sessionID)
	}, func(u *domain.CountdownUpdate) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(u)
	}, h.log)
}

// streamCountdown sends first, then refreshes every interval until ctx ends,
// a send fails or the session has expired or stopped being active.
func streamCountdown(
	ctx context.Context,
	interval time.Duration,
	first *domain.CountdownUpdate,
	refresh func(context.Context) (*domain.CountdownUpdate, error),
	send func(*domain.CountdownUpdate) error,
	log *zap.SugaredLogger,
) {
	update := first
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := send(update); err != nil {
			log.Debugw("countdown send failed", "session_id", update.SessionID, "error", err)
			return
		}
		if update.Status != domain.SessionActive || update.TimeRemaining == service.ExpiredLabel {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		next, err := refresh(ctx)
		if err != nil {
			log.Warnw("countdown refresh failed", "session_id", update.SessionID, "error", err)
			return
		}
		update = next
	}
}
