package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// psql builds queries with Postgres-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore implements Store on top of Postgres.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation. The schema is expected to
// exist already (see schema.sql).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to Postgres and pings it.
func Open(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Users ---

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	query, args, err := psql.
		Select("id", "email", "first_name", "last_name", "profile_image_url", "subscription_tier", "brand_colors").
		From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u User
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.SubscriptionTier, pq.Array(&u.BrandColors),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user User) (*User, error) {
	query := `INSERT INTO users (id, email, first_name, last_name, profile_image_url, subscription_tier, brand_colors)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              ON CONFLICT (id) DO UPDATE
              SET email = EXCLUDED.email,
                  first_name = EXCLUDED.first_name,
                  last_name = EXCLUDED.last_name,
                  profile_image_url = EXCLUDED.profile_image_url`

	if user.SubscriptionTier == "" {
		user.SubscriptionTier = "free"
	}
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName,
		user.ProfileImageURL, user.SubscriptionTier, pq.Array(user.BrandColors),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetUser(ctx, user.ID)
}

// --- Voice packs ---

var voicePackColumns = []string{"id", "user_id", "name", "description", "style", "base_prompt", "writing_samples", "is_default"}

func scanVoicePack(row sq.RowScanner) (VoicePack, error) {
	var p VoicePack
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Style,
		&p.BasePrompt, pq.Array(&p.WritingSamples), &p.IsDefault)
	return p, err
}

func (s *PostgresStore) ListVoicePacks(ctx context.Context, userID string) ([]VoicePack, error) {
	query, args, err := psql.Select(voicePackColumns...).
		From("voice_packs").Where(sq.Eq{"user_id": userID}).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build voice pack query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query voice packs: %w", err)
	}
	defer rows.Close()

	var packs []VoicePack
	for rows.Next() {
		p, err := scanVoicePack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voice pack: %w", err)
		}
		packs = append(packs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return packs, nil
}

func (s *PostgresStore) GetVoicePack(ctx context.Context, id string) (*VoicePack, error) {
	query, args, err := psql.Select(voicePackColumns...).
		From("voice_packs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build voice pack query: %w", err)
	}

	p, err := scanVoicePack(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query voice pack: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateVoicePack(ctx context.Context, pack VoicePack) (*VoicePack, error) {
	pack.ID = uuid.NewString()
	if pack.Style == "" {
		pack.Style = "personal"
	}

	query, args, err := psql.Insert("voice_packs").Columns(voicePackColumns...).
		Values(pack.ID, pack.UserID, pack.Name, pack.Description, pack.Style,
			pack.BasePrompt, pq.Array(pack.WritingSamples), pack.IsDefault).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build voice pack insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert voice pack: %w", err)
	}
	return &pack, nil
}

func (s *PostgresStore) UpdateVoicePack(ctx context.Context, id string, update VoicePackUpdate) (*VoicePack, error) {
	set := map[string]any{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Style != nil {
		set["style"] = *update.Style
	}
	if update.BasePrompt != nil {
		set["base_prompt"] = *update.BasePrompt
	}
	if update.WritingSamples != nil {
		set["writing_samples"] = pq.Array(*update.WritingSamples)
	}
	if update.IsDefault != nil {
		set["is_default"] = *update.IsDefault
	}
	if len(set) == 0 {
		return s.GetVoicePack(ctx, id)
	}

	query, args, err := psql.Update("voice_packs").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build voice pack update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update voice pack: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetVoicePack(ctx, id)
}

func (s *PostgresStore) DeleteVoicePack(ctx context.Context, id string) error {
	query, args, err := psql.Delete("voice_packs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build voice pack delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete voice pack: %w", err)
	}
	return nil
}

// --- Threads ---

var threadColumns = []string{"id", "user_id", "voice_pack_id", "topic", "hook_type", "status", "content", "cringe_score", "scheduled_for", "posted_at", "created_at"}

func scanThread(row sq.RowScanner) (Thread, error) {
	var t Thread
	var scheduledFor, postedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.VoicePackID, &t.Topic, &t.HookType,
		&t.Status, pq.Array(&t.Content), &t.CringeScore, &scheduledFor, &postedAt, &t.CreatedAt)
	if scheduledFor.Valid {
		t.ScheduledFor = &scheduledFor.Time
	}
	if postedAt.Valid {
		t.PostedAt = &postedAt.Time
	}
	return t, err
}

func (s *PostgresStore) ListThreads(ctx context.Context, userID string) ([]Thread, error) {
	query, args, err := psql.Select(threadColumns...).
		From("threads").Where(sq.Eq{"user_id": userID}).OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build thread query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	var threads []Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return threads, nil
}

func (s *PostgresStore) GetThread(ctx context.Context, id string) (*Thread, error) {
	query, args, err := psql.Select(threadColumns...).
		From("threads").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build thread query: %w", err)
	}

	t, err := scanThread(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query thread: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateThread(ctx context.Context, thread Thread) (*Thread, error) {
	thread.ID = uuid.NewString()
	if thread.Status == "" {
		thread.Status = "draft"
	}
	thread.CreatedAt = time.Now().UTC()

	query, args, err := psql.Insert("threads").Columns(threadColumns...).
		Values(thread.ID, thread.UserID, thread.VoicePackID, thread.Topic,
			thread.HookType, thread.Status, pq.Array(thread.Content), thread.CringeScore,
			thread.ScheduledFor, thread.PostedAt, thread.CreatedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build thread insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return &thread, nil
}

func (s *PostgresStore) UpdateThread(ctx context.Context, id string, update ThreadUpdate) (*Thread, error) {
	set := map[string]any{}
	if update.VoicePackID != nil {
		set["voice_pack_id"] = *update.VoicePackID
	}
	if update.Topic != nil {
		set["topic"] = *update.Topic
	}
	if update.HookType != nil {
		set["hook_type"] = *update.HookType
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Content != nil {
		set["content"] = pq.Array(*update.Content)
	}
	if update.CringeScore != nil {
		set["cringe_score"] = *update.CringeScore
	}
	if update.ScheduledFor != nil {
		set["scheduled_for"] = *update.ScheduledFor
	}
	if update.PostedAt != nil {
		set["posted_at"] = *update.PostedAt
	}
	if len(set) == 0 {
		return s.GetThread(ctx, id)
	}

	query, args, err := psql.Update("threads").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build thread update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetThread(ctx, id)
}

func (s *PostgresStore) DeleteThread(ctx context.Context, id string) error {
	query, args, err := psql.Delete("threads").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build thread delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

// --- Analytics ---

var analyticsColumns = []string{"id", "thread_id", "impressions", "likes", "replies", "retweets", "profile_clicks", "recorded_at"}

func scanAnalytics(row sq.RowScanner) (Analytics, error) {
	var a Analytics
	err := row.Scan(&a.ID, &a.ThreadID, &a.Impressions, &a.Likes, &a.Replies,
		&a.Retweets, &a.ProfileClicks, &a.RecordedAt)
	return a, err
}

func (s *PostgresStore) ListAnalytics(ctx context.Context, userID string) ([]Analytics, error) {
	query, args, err := psql.Select(
		"a.id", "a.thread_id", "a.impressions", "a.likes", "a.replies", "a.retweets", "a.profile_clicks", "a.recorded_at").
		From("analytics a").Join("threads t ON t.id = a.thread_id").
		Where(sq.Eq{"t.user_id": userID}).OrderBy("a.recorded_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	defer rows.Close()

	var results []Analytics
	for rows.Next() {
		a, err := scanAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) GetThreadAnalytics(ctx context.Context, threadID string) (*Analytics, error) {
	query, args, err := psql.Select(analyticsColumns...).
		From("analytics").Where(sq.Eq{"thread_id": threadID}).
		OrderBy("recorded_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics query: %w", err)
	}

	a, err := scanAnalytics(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateAnalytics(ctx context.Context, a Analytics) (*Analytics, error) {
	a.ID = uuid.NewString()
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now().UTC()
	}

	query, args, err := psql.Insert("analytics").Columns(analyticsColumns...).
		Values(a.ID, a.ThreadID, a.Impressions, a.Likes, a.Replies,
			a.Retweets, a.ProfileClicks, a.RecordedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert analytics: %w", err)
	}
	return &a, nil
}

// --- Hooks ---

func (s *PostgresStore) ListHooks(ctx context.Context, category string) ([]Hook, error) {
	builder := psql.Select("id", "category", "template_text", "is_premium").From("hooks")
	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hook query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hooks: %w", err)
	}
	defer rows.Close()

	var hooks []Hook
	for rows.Next() {
		var h Hook
		if err := rows.Scan(&h.ID, &h.Category, &h.TemplateText, &h.IsPremium); err != nil {
			return nil, fmt.Errorf("scan hook: %w", err)
		}
		hooks = append(hooks, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return hooks, nil
}

func (s *PostgresStore) CreateHook(ctx context.Context, hook Hook) (*Hook, error) {
	hook.ID = uuid.NewString()

	query, args, err := psql.Insert("hooks").Columns("id", "category", "template_text", "is_premium").
		Values(hook.ID, hook.Category, hook.TemplateText, hook.IsPremium).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hook insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert hook: %w", err)
	}
	return &hook, nil
}

// --- Connected accounts ---

func (s *PostgresStore) ListAccounts(ctx context.Context, userID string) ([]ConnectedAccount, error) {
	query, args, err := psql.Select("id", "user_id", "platform", "handle", "connected_at").
		From("connected_accounts").Where(sq.Eq{"user_id": userID}).OrderBy("connected_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ConnectedAccount
	for rows.Next() {
		var a ConnectedAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Platform, &a.Handle, &a.ConnectedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return accounts, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account ConnectedAccount) (*ConnectedAccount, error) {
	account.ID = uuid.NewString()
	if account.ConnectedAt.IsZero() {
		account.ConnectedAt = time.Now().UTC()
	}

	query, args, err := psql.Insert("connected_accounts").
		Columns("id", "user_id", "platform", "handle", "connected_at").
		Values(account.ID, account.UserID, account.Platform, account.Handle, account.ConnectedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &account, nil
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	query, args, err := psql.Delete("connected_accounts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build account delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// --- Agency clients ---

func (s *PostgresStore) ListClients(ctx context.Context, userID string) ([]AgencyClient, error) {
	query, args, err := psql.Select("id", "user_id", "name", "handle", "notes", "created_at").
		From("agency_clients").Where(sq.Eq{"user_id": userID}).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []AgencyClient
	for rows.Next() {
		var c AgencyClient
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Handle, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return clients, nil
}

func (s *PostgresStore) CreateClient(ctx context.Context, client AgencyClient) (*AgencyClient, error) {
	client.ID = uuid.NewString()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	query, args, err := psql.Insert("agency_clients").
		Columns("id", "user_id", "name", "handle", "notes", "created_at").
		Values(client.ID, client.UserID, client.Name, client.Handle, client.Notes, client.CreatedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &client, nil
}

func (s *PostgresStore) DeleteClient(ctx context.Context, id string) error {
	query, args, err := psql.Delete("agency_clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build client delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *PostgresStore) LinkClientVoicePack(ctx context.Context, clientID, voicePackID string) error {
	query := `INSERT INTO client_voice_packs (client_id, voice_pack_id)
              VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, clientID, voicePackID); err != nil {
		return fmt.Errorf("link client voice pack: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListClientVoicePacks(ctx context.Context, clientID string) ([]VoicePack, error) {
	query, args, err := psql.Select(
		"v.id", "v.user_id", "v.name", "v.description", "v.style", "v.base_prompt", "v.writing_samples", "v.is_default").
		From("voice_packs v").Join("client_voice_packs l ON l.voice_pack_id = v.id").
		Where(sq.Eq{"l.client_id": clientID}).OrderBy("v.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client voice pack query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query client voice packs: %w", err)
	}
	defer rows.Close()

	var packs []VoicePack
	for rows.Next() {
		p, err := scanVoicePack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voice pack: %w", err)
		}
		packs = append(packs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return packs, nil
}

// --- Aggregates ---

// CoachStats computes the numbers the coaching operation feeds to the model:
// thread count, average engagement (likes + replies + retweets per recorded
// snapshot) and the five most recent topics.
func (s *PostgresStore) CoachStats(ctx context.Context, userID string) (UsageStats, error) {
	var stats UsageStats

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM threads WHERE user_id = $1`, userID,
	).Scan(&stats.ThreadCount); err != nil {
		return UsageStats{}, fmt.Errorf("count threads: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(a.likes + a.replies + a.retweets), 0)
           FROM analytics a
           JOIN threads t ON t.id = a.thread_id
          WHERE t.user_id = $1`, userID,
	).Scan(&stats.AvgEngagement); err != nil {
		return UsageStats{}, fmt.Errorf("average engagement: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT topic FROM threads WHERE user_id = $1 ORDER BY created_at DESC LIMIT 5`, userID)
	if err != nil {
		return UsageStats{}, fmt.Errorf("query recent topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return UsageStats{}, fmt.Errorf("scan topic: %w", err)
		}
		stats.RecentTopics = append(stats.RecentTopics, topic)
	}
	if err := rows.Err(); err != nil {
		return UsageStats{}, fmt.Errorf("rows iteration: %w", err)
	}
	return stats, nil
}
