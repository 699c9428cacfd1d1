package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	chatservice "github.com/jmoreau/recovery-squad/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, *chatservice.Service, persona.Store) {
	chatSvc := chatservice.NewService(chatservice.NewMemoryStore())
	store := persona.NewMemoryStore(persona.Seed())
	handler := New(chatSvc, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc, store
}

func TestCreateSessionValidPersona(t *testing.T) {
	r, _, store := setupRouter()
	personas := store.List()
	body := map[string]string{"personaId": personas[0].ID}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}

func TestCreateSessionInvalidPersona(t *testing.T) {
	r, _, _ := setupRouter()
	body := map[string]string{"personaId": "non-existent"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSessionMissingPersonaID(t *testing.T) {
	r, _, _ := setupRouter()
	payload := []byte(`{}`)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSaveMessageUnknownSession(t *testing.T) {
	r, _, _ := setupRouter()
	body := map[string]string{"sessionId": "missing", "sender": "user", "content": "hi"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	r, chatSvc, _ := setupRouter()

	session, err := chatSvc.CreateSession(httptest.NewRequest(http.MethodGet, "/", nil).Context(), persona.TherapistID)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	body := map[string]string{"sessionId": session.ID, "sender": "user", "content": "it hurts"}
	payload, _ := json.Marshal(body)
	saveReq := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	saveResp := httptest.NewRecorder()
	r.ServeHTTP(saveResp, saveReq)
	if saveResp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", saveResp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID+"/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var messages []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
}
