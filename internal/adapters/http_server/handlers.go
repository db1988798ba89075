// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripscout/internal/app"
	"tripscout/internal/domain"
)

type Handlers struct{ Chat *app.ChatService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type createSessionRequest struct {
	Model string `json:"model"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
	CreatedAt string `json:"created_at,omitempty"`
}

type messageView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"service": "tripscout", "status": "running"})
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/sessions", h.createSession)
	s.mux.Get("/sessions/{id}", h.getSession)
	s.mux.Get("/sessions/{id}/messages", h.listMessages)
	s.mux.Post("/chat", h.chat)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
		return
	}
	if req.Model == "" {
		req.Model = "gpt-4o-mini"
	}
	if !app.IsAllowedModel(req.Model) {
		writeProblem(w, http.StatusBadRequest, "Invalid model", "model "+req.Model+" is not supported")
		return
	}

	sess, err := h.Chat.CreateSession(r.Context(), req.Model)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Model:     sess.Model,
		CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Chat.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not load session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Model:     sess.Model,
		CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Chat.ListMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not load messages")
		return
	}

	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// chat responds as a server-sent event stream. The agent's answer arrives
// whole, so the stream is the answer split into lines followed by [DONE];
// failures after the headers are flushed surface as an [ERROR] event.
func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" || req.Message == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "session_id and message are required")
		return
	}
	if req.Model == "" {
		req.Model = "gpt-4o-mini"
	}
	if !app.IsAllowedModel(req.Model) {
		writeProblem(w, http.StatusBadRequest, "Invalid model", "model "+req.Model+" is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	answer, err := h.Chat.Chat(r.Context(), req.SessionID, req.Message, req.Model)
	if err != nil {
		log.Error().Str("session", req.SessionID).Err(err).Msg("chat failed")
		writeSSE(w, "[ERROR] "+err.Error())
		flush(w)
		return
	}

	for _, line := range strings.Split(answer, "\n") {
		writeSSE(w, line)
	}
	writeSSE(w, "[DONE]")
	flush(w)
}

// flush is best-effort: the timeout wrapper's writer has no Flusher and the
// whole answer is written in one go anyway.
func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeSSE(w http.ResponseWriter, data string) {
	if _, err := w.Write([]byte("data: " + data + "\n\n")); err != nil {
		log.Error().Err(err).Msg("write SSE event failed")
	}
}
