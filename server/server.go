// Package server is the HTTP boundary: JSON handlers over the generation
// agent and the persistence store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"twin/generator"
	"twin/storage"
)

// llmTimeout bounds every model-backed handler.
const llmTimeout = 60 * time.Second

type Server struct {
	agent  *generator.Agent
	store  storage.Store
	userID string
	logger *zap.Logger
}

// New wires the HTTP boundary. userID scopes every request until real auth
// lands.
func New(agent *generator.Agent, store storage.Store, userID string, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if store == nil {
		return nil, errors.New("store required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{agent: agent, store: store, userID: userID, logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Generation
	mux.HandleFunc("POST /api/threads/generate", s.handleGenerateThread)
	mux.HandleFunc("POST /api/threads/remix", s.handleRemixThread)
	mux.HandleFunc("POST /api/threads/repurpose", s.handleRepurposeThread)
	mux.HandleFunc("POST /api/replies/generate", s.handleSuggestReplies)
	mux.HandleFunc("GET /api/coaching/tips", s.handleCoachingTips)

	// Voice packs
	mux.HandleFunc("GET /api/voice-packs", s.handleListVoicePacks)
	mux.HandleFunc("POST /api/voice-packs", s.handleCreateVoicePack)
	mux.HandleFunc("PATCH /api/voice-packs/{id}", s.handleUpdateVoicePack)
	mux.HandleFunc("DELETE /api/voice-packs/{id}", s.handleDeleteVoicePack)

	// Threads
	mux.HandleFunc("GET /api/threads", s.handleListThreads)
	mux.HandleFunc("POST /api/threads", s.handleCreateThread)
	mux.HandleFunc("PATCH /api/threads/{id}", s.handleUpdateThread)
	mux.HandleFunc("DELETE /api/threads/{id}", s.handleDeleteThread)

	// Analytics
	mux.HandleFunc("GET /api/analytics", s.handleListAnalytics)
	mux.HandleFunc("POST /api/analytics", s.handleCreateAnalytics)

	// Hooks
	mux.HandleFunc("GET /api/hooks", s.handleListHooks)
	mux.HandleFunc("POST /api/hooks", s.handleCreateHook)

	// Connected accounts
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	// Agency clients
	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)
	mux.HandleFunc("GET /api/clients/{id}/voice-packs", s.handleListClientVoicePacks)
	mux.HandleFunc("POST /api/clients/{id}/voice-packs", s.handleLinkClientVoicePack)

	return s.logMiddleware(mux)
}

// VoiceDirectory adapts a Store to the agent's voice lookup contract. A
// missing pack is not an error: generation proceeds without voice context.
func VoiceDirectory(store storage.Store) generator.VoiceDirectory {
	return voiceDirectory{store: store}
}

type voiceDirectory struct {
	store storage.Store
}

func (d voiceDirectory) VoiceContext(ctx context.Context, id string) (*generator.VoiceContext, error) {
	pack, err := d.store.GetVoicePack(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &generator.VoiceContext{
		Style:          pack.Style,
		Description:    pack.Description,
		WritingSamples: pack.WritingSamples,
	}, nil
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeOperationError maps the generation error taxonomy onto HTTP statuses:
// bad input is the client's fault, everything downstream of the model call is
// a gateway failure.
func (s *Server) writeOperationError(w http.ResponseWriter, err error) {
	var inputErr *generator.InputError
	if errors.As(err, &inputErr) {
		badRequest(w, inputErr.Error())
		return
	}
	s.logger.Warn("generation operation failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	s.logger.Error("storage operation failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
