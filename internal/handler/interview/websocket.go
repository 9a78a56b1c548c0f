package interview

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	interviewService "github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/interview"
)

// WebSocketHandler carries the chat exchange over a persistent connection.
// Each inbound text frame is one chat request; each reply is one JSON frame.
type WebSocketHandler struct {
	svc      *interviewService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket handler.
func NewWebSocketHandler(svc *interviewService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the WebSocket route on the API router.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type wsError struct {
	Error string `json:"error"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened from %s", r.RemoteAddr)

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var req interviewService.ChatRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			writeFrame(conn, wsError{Error: "invalid request payload"})
			continue
		}
		if err := req.Validate(); err != nil {
			writeFrame(conn, wsError{Error: err.Error()})
			continue
		}

		resp, err := h.svc.HandleChat(r.Context(), req)
		if err != nil {
			log.Printf("[ws] chat failed: %v", err)
			writeFrame(conn, wsError{Error: "chat failed"})
			continue
		}

		if !writeFrame(conn, resp) {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, payload any) bool {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("[ws] write failed: %v", err)
		return false
	}
	return true
}
