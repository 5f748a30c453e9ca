package handlers

import (
	"net/http"

	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler speaks the request protocol over WebSocket: one text message
// per request, one JSON message per response.
type WSHandler struct {
	Dispatcher      *Dispatcher
	MaxMessageBytes int64
	RateLimitRPS    float64
	RateLimitBurst  int
}

func NewWSHandler(d *Dispatcher, maxMessageBytes int64, rps float64, burst int) *WSHandler {
	return &WSHandler{Dispatcher: d, MaxMessageBytes: maxMessageBytes, RateLimitRPS: rps, RateLimitBurst: burst}
}

// NewLimiter returns a per-connection limiter, or nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	connID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{"conn": connID, "remote": r.RemoteAddr, "transport": "websocket"})
	log.Info("Client connected")

	metrics.OpenConnections.WithLabelValues("websocket").Inc()
	defer func() {
		h.Dispatcher.Disconnect(connID)
		metrics.OpenConnections.WithLabelValues("websocket").Dec()
		conn.Close()
		log.Info("Client disconnected")
	}()

	if h.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.MaxMessageBytes)
	}
	limiter := NewLimiter(h.RateLimitRPS, h.RateLimitBurst)
	ctx := r.Context()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("WebSocket read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		resp := h.Dispatcher.Dispatch(ctx, connID, data)
		if err := conn.WriteJSON(resp); err != nil {
			log.WithError(err).Warn("WebSocket write error")
			return
		}
	}
}
