package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	aiService "github.com/jmoreau/recovery-squad/backend/internal/service/ai"
	chatService "github.com/jmoreau/recovery-squad/backend/internal/service/chat"
	"github.com/jmoreau/recovery-squad/backend/pkg/utils"
)

// Handler streams persona replies over Server-Sent Events.
type Handler struct {
	aiService *aiService.Service
	chatSvc   *chatService.Service
	personas  persona.Store
	logger    *zap.Logger
}

// New creates a new stream handler.
func New(aiSvc *aiService.Service, chatSvc *chatService.Service, personas persona.Store, logger *zap.Logger) *Handler {
	return &Handler{
		aiService: aiSvc,
		chatSvc:   chatSvc,
		personas:  personas,
		logger:    logger,
	}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Severity  string `json:"severity,omitempty"`
	PlanDays  int    `json:"planDays,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest processes one streamed persona reply for a session.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, p, err := h.getSessionPersona(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to resolve session persona: %v", err))
		return err
	}

	messages, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to load conversation: %v", err))
		return err
	}

	guidance := severity.Analyze(userMessage)

	// Save the user message unless the client already persisted it via REST.
	if !hasMatchingUserMessage(messages, sessionID, userMessage) {
		userMsg := chat.Message{
			SessionID: sessionID,
			Sender:    "user",
			Content:   userMessage,
			Severity:  string(guidance.Level),
		}
		if err := h.chatSvc.SaveMessage(ctx, userMsg); err != nil {
			h.logger.Warn("failed to save user message", zap.Error(err))
		} else {
			messages = append(messages, userMsg)
		}
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		Content:   fmt.Sprintf("%s is replying:", p.Name),
	})

	response, err := h.dispatchAIResponse(ctx, w, flusher, sessionID, p, messages, userMessage, &guidance)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("AI generation failed: %v", err))
		return err
	}

	assistantMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "assistant",
		Content:   response.Content,
		Severity:  string(guidance.Level),
	}
	if err := h.chatSvc.SaveMessage(ctx, assistantMsg); err != nil {
		h.logger.Warn("failed to save assistant message", zap.Error(err))
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "severity",
		SessionID: sessionID,
		Severity:  string(guidance.Level),
		PlanDays:  guidance.PlanDays,
	})

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	h.logger.Info("stream completed",
		zap.String("session", sessionID),
		zap.String("persona", p.ID))
	return nil
}

func (h *Handler) dispatchAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, p *persona.Persona, messages []chat.Message, userMessage string, guidance *severity.Decision) (*schema.Message, error) {
	if h.aiService.StreamingEnabled() {
		return h.streamAIResponse(ctx, w, flusher, sessionID, p, messages, userMessage, guidance)
	}

	response, err := h.aiService.GenerateResponse(ctx, p, messages, userMessage, guidance)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}

// getSessionPersona resolves the session and its bound persona.
func (h *Handler) getSessionPersona(ctx context.Context, sessionID string) (*chat.Session, *persona.Persona, error) {
	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}

	p, ok := h.personas.FindByID(session.PersonaID)
	if !ok {
		return nil, nil, fmt.Errorf("persona %s not found", session.PersonaID)
	}

	return &session, &p, nil
}

func hasMatchingUserMessage(messages []chat.Message, sessionID, content string) bool {
	if len(messages) == 0 {
		return false
	}

	last := messages[len(messages)-1]
	if last.SessionID != sessionID {
		return false
	}

	if last.Sender != "user" {
		return false
	}

	return last.Content == content
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}

func (h *Handler) streamAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, p *persona.Persona, messages []chat.Message, userMessage string, guidance *severity.Decision) (*schema.Message, error) {
	stream, err := h.aiService.StreamResponse(ctx, p, messages, userMessage, guidance)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}
