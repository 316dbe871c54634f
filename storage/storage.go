// Package storage is the system of record for users, voice packs, threads,
// analytics, hooks, connected accounts and agency clients. It exposes one
// narrow interface with a Postgres implementation and an in-memory one for
// development and tests.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// User is an account holder.
type User struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName,omitempty"`
	LastName         string   `json:"lastName,omitempty"`
	ProfileImageURL  string   `json:"profileImageUrl,omitempty"`
	SubscriptionTier string   `json:"subscriptionTier"`
	BrandColors      []string `json:"brandColors,omitempty"`
}

// VoicePack is a personalized writing-style profile.
type VoicePack struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Style          string   `json:"style"` // personal, professional, casual
	BasePrompt     string   `json:"basePrompt,omitempty"`
	WritingSamples []string `json:"writingSamples,omitempty"`
	IsDefault      bool     `json:"isDefault"`
}

// VoicePackUpdate carries the fields of a partial update; nil means "leave
// unchanged".
type VoicePackUpdate struct {
	Name           *string
	Description    *string
	Style          *string
	BasePrompt     *string
	WritingSamples *[]string
	IsDefault      *bool
}

// Thread is a saved thread draft, scheduled or posted.
type Thread struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	VoicePackID  string     `json:"voicePackId,omitempty"`
	Topic        string     `json:"topic"`
	HookType     string     `json:"hookType,omitempty"` // negative, numbers, story, contrarian, list
	Status       string     `json:"status"`             // draft, scheduled, posted
	Content      []string   `json:"content"`
	CringeScore  int        `json:"cringeScore"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	PostedAt     *time.Time `json:"postedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ThreadUpdate carries the fields of a partial update; nil means "leave
// unchanged".
type ThreadUpdate struct {
	VoicePackID  *string
	Topic        *string
	HookType     *string
	Status       *string
	Content      *[]string
	CringeScore  *int
	ScheduledFor *time.Time
	PostedAt     *time.Time
}

// Analytics is one performance snapshot for a thread.
type Analytics struct {
	ID            string    `json:"id"`
	ThreadID      string    `json:"threadId"`
	Impressions   int       `json:"impressions"`
	Likes         int       `json:"likes"`
	Replies       int       `json:"replies"`
	Retweets      int       `json:"retweets"`
	ProfileClicks int       `json:"profileClicks"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// Hook is a viral hook template.
type Hook struct {
	ID           string `json:"id"`
	Category     string `json:"category"` // negative, numbers, story, contrarian, list
	TemplateText string `json:"templateText"`
	IsPremium    bool   `json:"isPremium"`
}

// ConnectedAccount is a linked social account.
type ConnectedAccount struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Platform    string    `json:"platform"` // twitter, linkedin
	Handle      string    `json:"handle"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// AgencyClient is a client managed by an agency account.
type AgencyClient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"` // owning agency account
	Name      string    `json:"name"`
	Handle    string    `json:"handle,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UsageStats are the aggregate numbers the coaching operation reads.
type UsageStats struct {
	ThreadCount   int
	AvgEngagement float64
	RecentTopics  []string
}

// Store is the persistence contract the HTTP boundary programs against.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*User, error)
	UpsertUser(ctx context.Context, user User) (*User, error)

	// Voice packs
	ListVoicePacks(ctx context.Context, userID string) ([]VoicePack, error)
	GetVoicePack(ctx context.Context, id string) (*VoicePack, error)
	CreateVoicePack(ctx context.Context, pack VoicePack) (*VoicePack, error)
	UpdateVoicePack(ctx context.Context, id string, update VoicePackUpdate) (*VoicePack, error)
	DeleteVoicePack(ctx context.Context, id string) error

	// Threads
	ListThreads(ctx context.Context, userID string) ([]Thread, error)
	GetThread(ctx context.Context, id string) (*Thread, error)
	CreateThread(ctx context.Context, thread Thread) (*Thread, error)
	UpdateThread(ctx context.Context, id string, update ThreadUpdate) (*Thread, error)
	DeleteThread(ctx context.Context, id string) error

	// Analytics
	ListAnalytics(ctx context.Context, userID string) ([]Analytics, error)
	GetThreadAnalytics(ctx context.Context, threadID string) (*Analytics, error)
	CreateAnalytics(ctx context.Context, a Analytics) (*Analytics, error)

	// Hooks
	ListHooks(ctx context.Context, category string) ([]Hook, error)
	CreateHook(ctx context.Context, hook Hook) (*Hook, error)

	// Connected accounts
	ListAccounts(ctx context.Context, userID string) ([]ConnectedAccount, error)
	CreateAccount(ctx context.Context, account ConnectedAccount) (*ConnectedAccount, error)
	DeleteAccount(ctx context.Context, id string) error

	// Agency clients
	ListClients(ctx context.Context, userID string) ([]AgencyClient, error)
	CreateClient(ctx context.Context, client AgencyClient) (*AgencyClient, error)
	DeleteClient(ctx context.Context, id string) error
	LinkClientVoicePack(ctx context.Context, clientID, voicePackID string) error
	ListClientVoicePacks(ctx context.Context, clientID string) ([]VoicePack, error)

	// Aggregates
	CoachStats(ctx context.Context, userID string) (UsageStats, error)
}
