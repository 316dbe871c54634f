package server

import (
	"net/http"
	"strings"
	"time"

	"twin/storage"
)

// --- Voice packs ---

func (s *Server) handleListVoicePacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.store.ListVoicePacks(r.Context(), s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if packs == nil {
		packs = []storage.VoicePack{}
	}
	writeJSON(w, http.StatusOK, packs)
}

type voicePackReq struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Style          string   `json:"style"`
	BasePrompt     string   `json:"basePrompt"`
	WritingSamples []string `json:"writingSamples"`
	IsDefault      bool     `json:"isDefault"`
}

func (s *Server) handleCreateVoicePack(w http.ResponseWriter, r *http.Request) {
	var req voicePackReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}
	pack, err := s.store.CreateVoicePack(r.Context(), storage.VoicePack{
		UserID:         s.userID,
		Name:           req.Name,
		Description:    req.Description,
		Style:          req.Style,
		BasePrompt:     req.BasePrompt,
		WritingSamples: req.WritingSamples,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

type voicePackPatch struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	Style          *string   `json:"style"`
	BasePrompt     *string   `json:"basePrompt"`
	WritingSamples *[]string `json:"writingSamples"`
	IsDefault      *bool     `json:"isDefault"`
}

func (s *Server) handleUpdateVoicePack(w http.ResponseWriter, r *http.Request) {
	var req voicePackPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	pack, err := s.store.UpdateVoicePack(r.Context(), r.PathValue("id"), storage.VoicePackUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Style:          req.Style,
		BasePrompt:     req.BasePrompt,
		WritingSamples: req.WritingSamples,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (s *Server) handleDeleteVoicePack(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVoicePack(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Threads ---

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context(), s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if threads == nil {
		threads = []storage.Thread{}
	}
	writeJSON(w, http.StatusOK, threads)
}

type threadReq struct {
	VoicePackID  string     `json:"voicePackId"`
	Topic        string     `json:"topic"`
	HookType     string     `json:"hookType"`
	Status       string     `json:"status"`
	Content      []string   `json:"content"`
	CringeScore  int        `json:"cringeScore"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req threadReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		badRequest(w, "topic is required")
		return
	}
	thread, err := s.store.CreateThread(r.Context(), storage.Thread{
		UserID:       s.userID,
		VoicePackID:  req.VoicePackID,
		Topic:        req.Topic,
		HookType:     req.HookType,
		Status:       req.Status,
		Content:      req.Content,
		CringeScore:  req.CringeScore,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

type threadPatch struct {
	VoicePackID  *string    `json:"voicePackId"`
	Topic        *string    `json:"topic"`
	HookType     *string    `json:"hookType"`
	Status       *string    `json:"status"`
	Content      *[]string  `json:"content"`
	CringeScore  *int       `json:"cringeScore"`
	ScheduledFor *time.Time `json:"scheduledFor"`
	PostedAt     *time.Time `json:"postedAt"`
}

func (s *Server) handleUpdateThread(w http.ResponseWriter, r *http.Request) {
	var req threadPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	thread, err := s.store.UpdateThread(r.Context(), r.PathValue("id"), storage.ThreadUpdate{
		VoicePackID:  req.VoicePackID,
		Topic:        req.Topic,
		HookType:     req.HookType,
		Status:       req.Status,
		Content:      req.Content,
		CringeScore:  req.CringeScore,
		ScheduledFor: req.ScheduledFor,
		PostedAt:     req.PostedAt,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteThread(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Analytics ---

func (s *Server) handleListAnalytics(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.ListAnalytics(r.Context(), s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if results == nil {
		results = []storage.Analytics{}
	}
	writeJSON(w, http.StatusOK, results)
}

type analyticsReq struct {
	ThreadID      string `json:"threadId"`
	Impressions   int    `json:"impressions"`
	Likes         int    `json:"likes"`
	Replies       int    `json:"replies"`
	Retweets      int    `json:"retweets"`
	ProfileClicks int    `json:"profileClicks"`
}

func (s *Server) handleCreateAnalytics(w http.ResponseWriter, r *http.Request) {
	var req analyticsReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ThreadID == "" {
		badRequest(w, "threadId is required")
		return
	}
	created, err := s.store.CreateAnalytics(r.Context(), storage.Analytics{
		ThreadID:      req.ThreadID,
		Impressions:   req.Impressions,
		Likes:         req.Likes,
		Replies:       req.Replies,
		Retweets:      req.Retweets,
		ProfileClicks: req.ProfileClicks,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// --- Hooks ---

func (s *Server) handleListHooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := s.store.ListHooks(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if hooks == nil {
		hooks = []storage.Hook{}
	}
	writeJSON(w, http.StatusOK, hooks)
}

type hookReq struct {
	Category     string `json:"category"`
	TemplateText string `json:"templateText"`
	IsPremium    bool   `json:"isPremium"`
}

func (s *Server) handleCreateHook(w http.ResponseWriter, r *http.Request) {
	var req hookReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Category == "" || req.TemplateText == "" {
		badRequest(w, "category and templateText are required")
		return
	}
	hook, err := s.store.CreateHook(r.Context(), storage.Hook{
		Category:     req.Category,
		TemplateText: req.TemplateText,
		IsPremium:    req.IsPremium,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

// --- Connected accounts ---

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if accounts == nil {
		accounts = []storage.ConnectedAccount{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

type accountReq struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Platform == "" || req.Handle == "" {
		badRequest(w, "platform and handle are required")
		return
	}
	account, err := s.store.CreateAccount(r.Context(), storage.ConnectedAccount{
		UserID:   s.userID,
		Platform: req.Platform,
		Handle:   req.Handle,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Agency clients ---

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context(), s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if clients == nil {
		clients = []storage.AgencyClient{}
	}
	writeJSON(w, http.StatusOK, clients)
}

type clientReq struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Notes  string `json:"notes"`
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}
	client, err := s.store.CreateClient(r.Context(), storage.AgencyClient{
		UserID: s.userID,
		Name:   req.Name,
		Handle: req.Handle,
		Notes:  req.Notes,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListClientVoicePacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.store.ListClientVoicePacks(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if packs == nil {
		packs = []storage.VoicePack{}
	}
	writeJSON(w, http.StatusOK, packs)
}

type linkVoicePackReq struct {
	VoicePackID string `json:"voicePackId"`
}

func (s *Server) handleLinkClientVoicePack(w http.ResponseWriter, r *http.Request) {
	var req linkVoicePackReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VoicePackID == "" {
		badRequest(w, "voicePackId is required")
		return
	}
	if err := s.store.LinkClientVoicePack(r.Context(), r.PathValue("id"), req.VoicePackID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
