package server

import (
	"context"
	"net/http"

	"twin/generator"
	"twin/render"
)

// Handlers for the five model-backed operations. Each one is a single
// sequential chain: decode, optional voice lookup, one model round trip,
// respond. No retries, no partial results.

type generateReq struct {
	Topic       string `json:"topic"`
	HookType    string `json:"hookType"`
	VoicePackID string `json:"voicePackId"`
}

func (s *Server) handleGenerateThread(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	draft, err := s.agent.GenerateThread(ctx, req.Topic, req.HookType, req.VoicePackID)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type remixReq struct {
	OriginalThread string `json:"originalThread"`
	NewTopic       string `json:"newTopic"`
	VoicePackID    string `json:"voicePackId"`
}

func (s *Server) handleRemixThread(w http.ResponseWriter, r *http.Request) {
	var req remixReq
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	result, err := s.agent.RemixThread(ctx, req.OriginalThread, req.NewTopic, req.VoicePackID)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type repurposeReq struct {
	Content      []string `json:"content"`
	TargetFormat string   `json:"targetFormat"`
	VoicePackID  string   `json:"voicePackId"`
}

type repurposeResp struct {
	generator.RepurposeResult
	HTML string `json:"html"`
}

func (s *Server) handleRepurposeThread(w http.ResponseWriter, r *http.Request) {
	var req repurposeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	result, err := s.agent.Repurpose(ctx, req.Content, req.TargetFormat, req.VoicePackID)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}

	html, err := render.HTML(result.Content)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repurposeResp{RepurposeResult: result, HTML: html})
}

type replyReq struct {
	Tweet       string `json:"tweet"`
	Tone        string `json:"tone"`
	VoicePackID string `json:"voicePackId"`
}

func (s *Server) handleSuggestReplies(w http.ResponseWriter, r *http.Request) {
	var req replyReq
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	replies, err := s.agent.SuggestReplies(ctx, req.Tweet, req.Tone, req.VoicePackID)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"replies": replies})
}

func (s *Server) handleCoachingTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	stats, err := s.store.CoachStats(ctx, s.userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	result, err := s.agent.Coach(ctx, generator.CoachStats{
		ThreadCount:   stats.ThreadCount,
		AvgEngagement: stats.AvgEngagement,
		RecentTopics:  stats.RecentTopics,
	})
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
