package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/incident_hub/internal/metrics"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
	broadcastQueue = 1024
)

// Message - событие живой ленты для клиентов карты
type Message struct {
	Type       models.EventKind      `json:"type"`
	Seq        int64                 `json:"seq"`
	IncidentID uuid.UUID             `json:"incidentId"`
	Incident   *models.Incident      `json:"incident,omitempty"`
	Status     models.IncidentStatus `json:"status,omitempty"`
	PrevStatus models.IncidentStatus `json:"prevStatus,omitempty"`
	OccurredAt time.Time             `json:"occurredAt"`
}

// Hub рассылает события об инцидентах подключенным websocket-клиентам
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	log := h.logger.WithFields(logrus.Fields{"service": "realtime", "method": "Run"})
	log.Info("Live feed hub started")

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			metrics.LiveClients.Set(0)
			log.Info("Live feed hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			metrics.LiveClients.Inc()

		case client := <-h.unregister:
			h.drop(client)

		case payload := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			// Медленные клиенты отключаются, чтобы не задерживать остальных
			for _, client := range slow {
				log.Warn("Dropping slow live feed client")
				h.drop(client)
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.LiveClients.Dec()
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify реализует store.Notifier. Вызов не блокируется: при переполненной
// очереди событие для ленты теряется.
func (h *Hub) Notify(_ context.Context, event *models.Event) {
	msg, ok := toMessage(event)
	if !ok {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal live feed message")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.WithField("seq", event.Seq).Warn("Live feed queue is full, event skipped")
	}
}

func toMessage(event *models.Event) (*Message, bool) {
	switch event.Kind {
	case models.EventIncidentCreated, models.EventStatusChanged:
	default:
		return nil, false
	}
	return &Message{
		Type:       event.Kind,
		Seq:        event.Seq,
		IncidentID: event.AggregateID,
		Incident:   event.Incident,
		Status:     event.Status,
		PrevStatus: event.PrevStatus,
		OccurredAt: event.OccurredAt,
	}, true
}

// ServeWS переводит соединение в websocket и подписывает его на ленту
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
