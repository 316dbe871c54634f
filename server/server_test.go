package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twin/generator"
	"twin/storage"
)

// stubLLM returns one canned response for every completion.
type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return s.response, s.err
}

func newTestServer(t *testing.T, llm generator.LLMClient) (http.Handler, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	agent, err := generator.NewAgent(llm, VoiceDirectory(store), nil)
	require.NoError(t, err)
	srv, err := New(agent, store, "test-user", nil)
	require.NoError(t, err)
	return srv.Routes(), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- Generation endpoints ---

func TestGenerateThreadEndpoint(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `["Leverage this!", "Second tweet."]`})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/generate", map[string]string{
		"topic":    "remote work",
		"hookType": "story",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	draft := decodeBody[generator.ThreadDraft](t, rec)
	assert.Equal(t, []string{"Leverage this!", "Second tweet."}, draft.Content)
	assert.Equal(t, "story", draft.HookType)
	assert.Equal(t, 10, draft.CringeScore)
}

func TestGenerateThreadMissingTopic(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `["x"]`})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/generate", map[string]string{"hookType": "story"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateThreadInvalidBody(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `["x"]`})

	req := httptest.NewRequest(http.MethodPost, "/api/threads/generate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateThreadModelFailure(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{err: errors.New("timeout")})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/generate", map[string]string{"topic": "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateThreadUnparseableModelOutput(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: "I cannot do that"})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/generate", map[string]string{"topic": "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "no valid JSON")
}

func TestGenerateThreadWithVoicePack(t *testing.T) {
	store := storage.NewMemoryStore()
	pack, err := store.CreateVoicePack(context.Background(), storage.VoicePack{
		UserID: "test-user",
		Name:   "Casual",
		Style:  "deadpan",
	})
	require.NoError(t, err)

	agent, err := generator.NewAgent(&stubLLM{response: `["ok"]`}, VoiceDirectory(store), nil)
	require.NoError(t, err)
	srv, err := New(agent, store, "test-user", nil)
	require.NoError(t, err)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/threads/generate", map[string]string{
		"topic":       "x",
		"voicePackId": pack.ID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemixThreadEndpoint(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{
		response: `{"analysis": {"hookType": "list", "tweetCount": 2, "pattern": "countdown", "keyElements": ["numbers"]}, "remixedThread": ["one", "two"]}`,
	})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/remix", map[string]string{
		"originalThread": "1/ old thread",
		"newTopic":       "new topic",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeBody[generator.RemixResult](t, rec)
	assert.Equal(t, "list", result.Analysis.HookType)
	assert.Equal(t, []string{"one", "two"}, result.Content)
}

func TestRemixThreadIncompleteModelOutput(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `{"analysis": {}}`})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/remix", map[string]string{
		"originalThread": "old",
		"newTopic":       "new",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRepurposeEndpointRendersHTML(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{
		response: `{"title": "My Post", "content": "# Heading\n\nBody text.", "summary": "s"}`,
	})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/repurpose", map[string]any{
		"content":      []string{"tweet one", "tweet two"},
		"targetFormat": "linkedin",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "My Post", resp["title"])
	assert.Contains(t, resp["html"], "<h1>Heading</h1>")
}

func TestRepurposeEndpointUnknownFormat(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `{}`})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads/repurpose", map[string]any{
		"content":      []string{"tweet"},
		"targetFormat": "haiku",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestRepliesEndpoint(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{response: `["nice point", "disagree", "source?"]`})

	rec := doJSON(t, handler, http.MethodPost, "/api/replies/generate", map[string]string{
		"tweet": "hot take",
		"tone":  "witty",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[map[string][]string](t, rec)
	assert.Len(t, resp["replies"], 3)
}

func TestCoachingTipsEndpoint(t *testing.T) {
	handler, store := newTestServer(t, &stubLLM{response: `{"tips": ["post more"], "score": 40}`})

	thread, err := store.CreateThread(context.Background(), storage.Thread{UserID: "test-user", Topic: "go"})
	require.NoError(t, err)
	_, err = store.CreateAnalytics(context.Background(), storage.Analytics{ThreadID: thread.ID, Likes: 8})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodGet, "/api/coaching/tips", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeBody[generator.CoachResult](t, rec)
	assert.Equal(t, []string{"post more"}, result.Tips)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, 1, result.Stats.ThreadCount)
}

// --- CRUD endpoints ---

func TestVoicePackEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})

	rec := doJSON(t, handler, http.MethodGet, "/api/voice-packs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty list, not null")

	rec = doJSON(t, handler, http.MethodPost, "/api/voice-packs", map[string]any{
		"name":           "Casual",
		"writingSamples": []string{"sample"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[storage.VoicePack](t, rec)
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, handler, http.MethodPatch, "/api/voice-packs/"+created.ID, map[string]string{"name": "Formal"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[storage.VoicePack](t, rec)
	assert.Equal(t, "Formal", updated.Name)
	assert.Equal(t, []string{"sample"}, updated.WritingSamples)

	rec = doJSON(t, handler, http.MethodDelete, "/api/voice-packs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateVoicePackMissingName(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})
	rec := doJSON(t, handler, http.MethodPost, "/api/voice-packs", map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateVoicePackNotFound(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})
	rec := doJSON(t, handler, http.MethodPatch, "/api/voice-packs/nope", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThreadEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})

	rec := doJSON(t, handler, http.MethodPost, "/api/threads", map[string]any{
		"topic":   "testing",
		"content": []string{"one", "two"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[storage.Thread](t, rec)
	assert.Equal(t, "draft", created.Status)

	rec = doJSON(t, handler, http.MethodPatch, "/api/threads/"+created.ID, map[string]string{"status": "posted"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[storage.Thread](t, rec)
	assert.Equal(t, "posted", updated.Status)

	rec = doJSON(t, handler, http.MethodGet, "/api/threads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	threads := decodeBody[[]storage.Thread](t, rec)
	assert.Len(t, threads, 1)

	rec = doJSON(t, handler, http.MethodDelete, "/api/threads/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	success := decodeBody[map[string]bool](t, rec)
	assert.True(t, success["success"])
}

func TestCreateThreadMissingTopic(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})
	rec := doJSON(t, handler, http.MethodPost, "/api/threads", map[string]any{"content": []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	handler, store := newTestServer(t, &stubLLM{})

	thread, err := store.CreateThread(context.Background(), storage.Thread{UserID: "test-user", Topic: "t"})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodPost, "/api/analytics", map[string]any{
		"threadId": thread.ID,
		"likes":    12,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody[[]storage.Analytics](t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, 12, results[0].Likes)
}

func TestCreateAnalyticsMissingThread(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})
	rec := doJSON(t, handler, http.MethodPost, "/api/analytics", map[string]int{"likes": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHookEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})

	for _, h := range []map[string]string{
		{"category": "story", "templateText": "In 2019..."},
		{"category": "numbers", "templateText": "7 ways..."},
	} {
		rec := doJSON(t, handler, http.MethodPost, "/api/hooks", h)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/hooks?category=story", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hooks := decodeBody[[]storage.Hook](t, rec)
	require.Len(t, hooks, 1)
	assert.Equal(t, "In 2019...", hooks[0].TemplateText)
}

func TestAccountEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})

	rec := doJSON(t, handler, http.MethodPost, "/api/accounts", map[string]string{
		"platform": "twitter",
		"handle":   "@tester",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	account := decodeBody[storage.ConnectedAccount](t, rec)

	rec = doJSON(t, handler, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	accounts := decodeBody[[]storage.ConnectedAccount](t, rec)
	assert.Len(t, accounts, 1)

	rec = doJSON(t, handler, http.MethodDelete, "/api/accounts/"+account.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestClientEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})

	rec := doJSON(t, handler, http.MethodPost, "/api/clients", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	client := decodeBody[storage.AgencyClient](t, rec)

	rec = doJSON(t, handler, http.MethodPost, "/api/voice-packs", map[string]string{"name": "Acme Voice"})
	require.Equal(t, http.StatusOK, rec.Code)
	pack := decodeBody[storage.VoicePack](t, rec)

	rec = doJSON(t, handler, http.MethodPost, "/api/clients/"+client.ID+"/voice-packs", map[string]string{
		"voicePackId": pack.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/clients/"+client.ID+"/voice-packs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	packs := decodeBody[[]storage.VoicePack](t, rec)
	require.Len(t, packs, 1)
	assert.Equal(t, "Acme Voice", packs[0].Name)
}

func TestLinkVoicePackMissingClient(t *testing.T) {
	handler, _ := newTestServer(t, &stubLLM{})
	rec := doJSON(t, handler, http.MethodPost, "/api/clients/nope/voice-packs", map[string]string{"voicePackId": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
