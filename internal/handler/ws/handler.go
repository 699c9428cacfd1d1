package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
	chatService "github.com/jmoreau/recovery-squad/backend/internal/service/chat"
	recoveryService "github.com/jmoreau/recovery-squad/backend/internal/service/recovery"
)

// Dispatcher is the subset of the recovery service the socket needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, personaID string, req recoverymodel.Request) (string, error)
	FullReport(ctx context.Context, req recoverymodel.Request) (recoverymodel.Report, error)
}

// Handler runs interactive chat over a websocket; inbound chat frames
// are routed to the therapist or the full squad by the same heuristic
// as the REST surface.
type Handler struct {
	dispatcher Dispatcher
	chatSvc    *chatService.Service
	personas   persona.Store
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// New creates the websocket handler.
func New(dispatcher Dispatcher, chatSvc *chatService.Service, personas persona.Store, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		chatSvc:    chatSvc,
		personas:   personas,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type chatFrame struct {
	Text string `json:"text"`
}

type outboundFrame struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type messagePayload struct {
	PersonaID string `json:"personaId"`
	Text      string `json:"text"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := r.Context()

	if _, err := h.chatSvc.GetSession(ctx, sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("websocket connected", zap.String("session", sessionID))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(conn, sessionID, "invalid frame")
			continue
		}

		switch frame.Type {
		case "ping":
			h.send(conn, outboundFrame{Type: "pong", SessionID: sessionID, Timestamp: time.Now().UnixMilli()})
		case "chat":
			h.handleChatFrame(ctx, conn, sessionID, frame.Data)
		default:
			h.sendError(conn, sessionID, "unsupported frame type: "+frame.Type)
		}
	}
}

func (h *Handler) handleChatFrame(ctx context.Context, conn *websocket.Conn, sessionID string, data json.RawMessage) {
	var payload chatFrame
	if err := json.Unmarshal(data, &payload); err != nil || payload.Text == "" {
		h.sendError(conn, sessionID, "chat frame requires non-empty text")
		return
	}

	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    "user",
		Content:   payload.Text,
	}); err != nil {
		h.logger.Warn("failed to save user message", zap.Error(err))
	}

	req := recoverymodel.Request{Situation: payload.Text}

	switch recoveryService.Route(payload.Text) {
	case recoveryService.ModeFullReport:
		report, err := h.dispatcher.FullReport(ctx, req)
		if err != nil {
			h.sendError(conn, sessionID, "report generation failed")
			return
		}
		h.saveAssistantMessage(ctx, sessionID, report.Markdown)
		h.send(conn, outboundFrame{
			Type:      "report",
			SessionID: sessionID,
			Data:      report,
			Timestamp: time.Now().UnixMilli(),
		})
	default:
		text, err := h.dispatcher.Dispatch(ctx, persona.TherapistID, req)
		if err != nil {
			h.sendError(conn, sessionID, "reply generation failed")
			return
		}
		h.saveAssistantMessage(ctx, sessionID, text)
		h.send(conn, outboundFrame{
			Type:      "message",
			SessionID: sessionID,
			Data:      messagePayload{PersonaID: persona.TherapistID, Text: text},
			Timestamp: time.Now().UnixMilli(),
		})
	}
}

func (h *Handler) saveAssistantMessage(ctx context.Context, sessionID, content string) {
	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    "assistant",
		Content:   content,
	}); err != nil {
		h.logger.Warn("failed to save assistant message", zap.Error(err))
	}
}

func (h *Handler) send(conn *websocket.Conn, frame outboundFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, outboundFrame{
		Type:      "error",
		SessionID: sessionID,
		Data:      errorPayload{Message: message},
		Timestamp: time.Now().UnixMilli(),
	})
}
