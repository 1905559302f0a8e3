// Package api exposes the chat service over HTTP for the browser frontend.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/chat"
	"github.com/fbarret/chatter/internal/i18n"
	"github.com/fbarret/chatter/internal/ingest"
	"github.com/fbarret/chatter/internal/models"
	"github.com/fbarret/chatter/internal/persona"
	"github.com/fbarret/chatter/internal/store"
)

// maxUploadBytes caps a single attachment upload request.
const maxUploadBytes = 32 << 20

// Defaults are applied when a request omits language or persona.
type Defaults struct {
	Language string
	Persona  string
}

type Handler struct {
	store      *store.Store
	controller *chat.Controller
	personas   *persona.Registry
	defaults   Defaults
	logger     *zap.Logger
}

func NewHandler(s *store.Store, c *chat.Controller, p *persona.Registry, defaults Defaults, logger *zap.Logger) *Handler {
	return &Handler{
		store:      s,
		controller: c,
		personas:   p,
		defaults:   defaults,
		logger:     logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/message", h.HandleMessage)
	mux.HandleFunc("/api/messages", h.GetMessages)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/select", h.SelectSession)
	mux.HandleFunc("/api/sessions/delete", h.DeleteSession)
	mux.HandleFunc("/api/attachments", h.HandleAttachments)
	mux.HandleFunc("/api/export", h.ExportSession)
	mux.HandleFunc("/api/prefs", h.HandlePrefs)
	mux.HandleFunc("/api/personas", h.GetPersonas)
}

// lang resolves the request language, falling back to the configured default
// for anything unsupported.
func (h *Handler) lang(r *http.Request) string {
	l := r.URL.Query().Get("lang")
	if l == "" {
		l = r.FormValue("lang")
	}
	if i18n.Supported(l) {
		return l
	}
	return h.defaults.Language
}

func (h *Handler) placeholderTitle(lang string) string {
	return i18n.T(lang).NewChatTitle
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
	Language  string `json:"language"`
	Content   string `json:"content"`
}

type streamFrame struct {
	Partial string          `json:"partial,omitempty"`
	Message *models.Message `json:"message,omitempty"`
}

// HandleMessage runs one chat turn and streams the reply back as
// server-sent events: a frame per growing partial, a final frame carrying
// the complete assistant message, then a [DONE] sentinel.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if req.Persona == "" {
		req.Persona = h.defaults.Persona
	}
	if !i18n.Supported(req.Language) {
		req.Language = h.defaults.Language
	}

	flusher, _ := w.(http.Flusher)

	// Headers are written lazily on the first frame so that pre-stream
	// failures can still produce a proper error status.
	var headerOnce sync.Once
	writeFrame := func(frame streamFrame) {
		headerOnce.Do(func() {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
		})
		data, err := json.Marshal(frame)
		if err != nil {
			h.logger.Error("Failed to encode stream frame", zap.Error(err))
			return
		}
		if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	reply, err := h.controller.Send(r.Context(), chat.SendRequest{
		SessionID: req.SessionID,
		Persona:   req.Persona,
		Language:  req.Language,
		Text:      req.Content,
	}, func(partial string) {
		writeFrame(streamFrame{Partial: partial})
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNothingToSend):
			http.Error(w, "Nothing to send", http.StatusBadRequest)
		case errors.Is(err, chat.ErrBusy):
			http.Error(w, "A reply is already streaming for this session", http.StatusConflict)
		default:
			h.logger.Error("Failed to process message", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeFrame(streamFrame{Message: &reply})
	if _, err := io.WriteString(w, "data: [DONE]\n\n"); err == nil && flusher != nil {
		flusher.Flush()
	}
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	msgs, err := h.store.LoadMessages(id)
	if err != nil {
		h.logger.Error("Failed to load messages", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

type sessionListResponse struct {
	Active   string               `json:"active"`
	Sessions []models.SessionInfo `json:"sessions"`
}

// HandleSessions lists sessions on GET and creates a fresh one on POST.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		active, err := h.store.EnsureActive(h.placeholderTitle(h.lang(r)))
		if err != nil {
			h.logger.Error("Failed to resolve active session", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		sessions, err := h.store.Sessions()
		if err != nil {
			h.logger.Error("Failed to list sessions", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionListResponse{Active: active, Sessions: sessions})

	case http.MethodPost:
		sess, err := h.store.NewSession(h.placeholderTitle(h.lang(r)))
		if err != nil {
			h.logger.Error("Failed to create session", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) SelectSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	msgs, err := h.store.LoadMessages(id)
	if err != nil {
		h.logger.Error("Failed to load session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.store.SetActiveID(id); err != nil {
		h.logger.Error("Failed to set active session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

// DeleteSession removes a session. The response carries the id that is
// active afterwards, which may be a freshly created session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	active, err := h.store.DeleteSession(id, h.placeholderTitle(h.lang(r)))
	if err != nil {
		h.logger.Error("Failed to delete session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"active": active})
}

type attachmentsResponse struct {
	Files []models.AttachedFile `json:"files"`
	Error string                `json:"error,omitempty"`
}

// HandleAttachments stages uploads on POST, reports staged files on GET,
// and drops one by name on DELETE.
func (h *Handler) HandleAttachments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "Invalid multipart body", http.StatusBadRequest)
			return
		}
		var files []ingest.File
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "Failed to read upload", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "Failed to read upload", http.StatusBadRequest)
				return
			}
			files = append(files, ingest.File{
				Name: fh.Filename,
				Type: fh.Header.Get("Content-Type"),
				Data: data,
			})
		}
		h.controller.IngestAndStage(files, h.lang(r))
		h.writeStaged(w)

	case http.MethodGet:
		h.writeStaged(w)

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		h.controller.Unstage(name)
		h.writeStaged(w)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) writeStaged(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(attachmentsResponse{
		Files: h.controller.Staged(),
		Error: h.controller.FileError(),
	})
}

func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	text, err := h.controller.ExportTranscript(id)
	if err != nil {
		h.logger.Error("Failed to export session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_`+id+`.txt"`)
	io.WriteString(w, text)
}

type prefsPayload struct {
	Muted    *bool `json:"muted,omitempty"`
	DarkMode *bool `json:"dark_mode,omitempty"`
}

// HandlePrefs reads the persisted preference flags on GET and updates the
// ones present in the body on PUT.
func (h *Handler) HandlePrefs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writePrefs(w)

	case http.MethodPut:
		var req prefsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Muted != nil {
			if err := h.store.SetMuted(*req.Muted); err != nil {
				h.logger.Error("Failed to save mute flag", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}
		if req.DarkMode != nil {
			if err := h.store.SetDarkMode(*req.DarkMode); err != nil {
				h.logger.Error("Failed to save theme flag", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}
		h.writePrefs(w)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) writePrefs(w http.ResponseWriter) {
	muted, err := h.store.Muted()
	if err != nil {
		h.logger.Error("Failed to read mute flag", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	dark, err := h.store.DarkMode()
	if err != nil {
		h.logger.Error("Failed to read theme flag", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefsPayload{Muted: &muted, DarkMode: &dark})
}

func (h *Handler) GetPersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.personas.Options(h.lang(r)))
}
