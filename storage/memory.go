package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory Store for development and tests.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[string]User
	voicePacks map[string]VoicePack
	threads    map[string]Thread
	analytics  map[string]Analytics
	hooks      map[string]Hook
	accounts   map[string]ConnectedAccount
	clients    map[string]AgencyClient
	links      map[string][]string // client id -> voice pack ids
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]User),
		voicePacks: make(map[string]VoicePack),
		threads:    make(map[string]Thread),
		analytics:  make(map[string]Analytics),
		hooks:      make(map[string]Hook),
		accounts:   make(map[string]ConnectedAccount),
		clients:    make(map[string]AgencyClient),
		links:      make(map[string][]string),
	}
}

// --- Users ---

func (s *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, user User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = "free"
	}
	s.users[user.ID] = user
	return &user, nil
}

// --- Voice packs ---

func (s *MemoryStore) ListVoicePacks(_ context.Context, userID string) ([]VoicePack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var packs []VoicePack
	for _, p := range s.voicePacks {
		if p.UserID == userID {
			packs = append(packs, p)
		}
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs, nil
}

func (s *MemoryStore) GetVoicePack(_ context.Context, id string) (*VoicePack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.voicePacks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateVoicePack(_ context.Context, pack VoicePack) (*VoicePack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pack.ID = uuid.NewString()
	if pack.Style == "" {
		pack.Style = "personal"
	}
	s.voicePacks[pack.ID] = pack
	return &pack, nil
}

func (s *MemoryStore) UpdateVoicePack(_ context.Context, id string, update VoicePackUpdate) (*VoicePack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.voicePacks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Style != nil {
		p.Style = *update.Style
	}
	if update.BasePrompt != nil {
		p.BasePrompt = *update.BasePrompt
	}
	if update.WritingSamples != nil {
		p.WritingSamples = *update.WritingSamples
	}
	if update.IsDefault != nil {
		p.IsDefault = *update.IsDefault
	}
	s.voicePacks[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteVoicePack(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.voicePacks, id)
	return nil
}

// --- Threads ---

func (s *MemoryStore) ListThreads(_ context.Context, userID string) ([]Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var threads []Thread
	for _, t := range s.threads {
		if t.UserID == userID {
			threads = append(threads, t)
		}
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].CreatedAt.After(threads[j].CreatedAt) })
	return threads, nil
}

func (s *MemoryStore) GetThread(_ context.Context, id string) (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) CreateThread(_ context.Context, thread Thread) (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thread.ID = uuid.NewString()
	if thread.Status == "" {
		thread.Status = "draft"
	}
	thread.CreatedAt = time.Now().UTC()
	s.threads[thread.ID] = thread
	return &thread, nil
}

func (s *MemoryStore) UpdateThread(_ context.Context, id string, update ThreadUpdate) (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.VoicePackID != nil {
		t.VoicePackID = *update.VoicePackID
	}
	if update.Topic != nil {
		t.Topic = *update.Topic
	}
	if update.HookType != nil {
		t.HookType = *update.HookType
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Content != nil {
		t.Content = *update.Content
	}
	if update.CringeScore != nil {
		t.CringeScore = *update.CringeScore
	}
	if update.ScheduledFor != nil {
		t.ScheduledFor = update.ScheduledFor
	}
	if update.PostedAt != nil {
		t.PostedAt = update.PostedAt
	}
	s.threads[id] = t
	return &t, nil
}

func (s *MemoryStore) DeleteThread(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
	return nil
}

// --- Analytics ---

func (s *MemoryStore) ListAnalytics(_ context.Context, userID string) ([]Analytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	threadsByID := make(map[string]bool)
	for _, t := range s.threads {
		if t.UserID == userID {
			threadsByID[t.ID] = true
		}
	}
	var results []Analytics
	for _, a := range s.analytics {
		if threadsByID[a.ThreadID] {
			results = append(results, a)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].RecordedAt.After(results[j].RecordedAt) })
	return results, nil
}

func (s *MemoryStore) GetThreadAnalytics(_ context.Context, threadID string) (*Analytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *Analytics
	for _, a := range s.analytics {
		a := a
		if a.ThreadID != threadID {
			continue
		}
		if latest == nil || a.RecordedAt.After(latest.RecordedAt) {
			latest = &a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *MemoryStore) CreateAnalytics(_ context.Context, a Analytics) (*Analytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.NewString()
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now().UTC()
	}
	s.analytics[a.ID] = a
	return &a, nil
}

// --- Hooks ---

func (s *MemoryStore) ListHooks(_ context.Context, category string) ([]Hook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hooks []Hook
	for _, h := range s.hooks {
		if category == "" || h.Category == category {
			hooks = append(hooks, h)
		}
	}
	sort.Slice(hooks, func(i, j int) bool { return hooks[i].TemplateText < hooks[j].TemplateText })
	return hooks, nil
}

func (s *MemoryStore) CreateHook(_ context.Context, hook Hook) (*Hook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hook.ID = uuid.NewString()
	s.hooks[hook.ID] = hook
	return &hook, nil
}

// --- Connected accounts ---

func (s *MemoryStore) ListAccounts(_ context.Context, userID string) ([]ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var accounts []ConnectedAccount
	for _, a := range s.accounts {
		if a.UserID == userID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ConnectedAt.Before(accounts[j].ConnectedAt) })
	return accounts, nil
}

func (s *MemoryStore) CreateAccount(_ context.Context, account ConnectedAccount) (*ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account.ID = uuid.NewString()
	if account.ConnectedAt.IsZero() {
		account.ConnectedAt = time.Now().UTC()
	}
	s.accounts[account.ID] = account
	return &account, nil
}

func (s *MemoryStore) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

// --- Agency clients ---

func (s *MemoryStore) ListClients(_ context.Context, userID string) ([]AgencyClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var clients []AgencyClient
	for _, c := range s.clients {
		if c.UserID == userID {
			clients = append(clients, c)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (s *MemoryStore) CreateClient(_ context.Context, client AgencyClient) (*AgencyClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client.ID = uuid.NewString()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	s.clients[client.ID] = client
	return &client, nil
}

func (s *MemoryStore) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
	delete(s.links, id)
	return nil
}

func (s *MemoryStore) LinkClientVoicePack(_ context.Context, clientID, voicePackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return ErrNotFound
	}
	for _, id := range s.links[clientID] {
		if id == voicePackID {
			return nil
		}
	}
	s.links[clientID] = append(s.links[clientID], voicePackID)
	return nil
}

func (s *MemoryStore) ListClientVoicePacks(_ context.Context, clientID string) ([]VoicePack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var packs []VoicePack
	for _, id := range s.links[clientID] {
		if p, ok := s.voicePacks[id]; ok {
			packs = append(packs, p)
		}
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs, nil
}

// --- Aggregates ---

func (s *MemoryStore) CoachStats(_ context.Context, userID string) (UsageStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var threads []Thread
	threadIDs := make(map[string]bool)
	for _, t := range s.threads {
		if t.UserID == userID {
			threads = append(threads, t)
			threadIDs[t.ID] = true
		}
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].CreatedAt.After(threads[j].CreatedAt) })

	stats := UsageStats{ThreadCount: len(threads)}
	for i, t := range threads {
		if i == 5 {
			break
		}
		stats.RecentTopics = append(stats.RecentTopics, t.Topic)
	}

	var sum, n int
	for _, a := range s.analytics {
		if threadIDs[a.ThreadID] {
			sum += a.Likes + a.Replies + a.Retweets
			n++
		}
	}
	if n > 0 {
		stats.AvgEngagement = float64(sum) / float64(n)
	}
	return stats, nil
}
