package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// VoiceDirectory looks up voice-profile context by identifier. A nil result
// with a nil error means the profile does not exist, which is not an error:
// generation simply proceeds without voice context.
type VoiceDirectory interface {
	VoiceContext(ctx context.Context, id string) (*VoiceContext, error)
}

// Agent orchestrates one model round trip per operation: resolve optional
// voice context, build the prompt, call the model, extract and validate the
// response, and score it where applicable. It holds no per-call state and is
// safe for concurrent use.
type Agent struct {
	llm    LLMClient
	voices VoiceDirectory
	logger *zap.Logger
}

func NewAgent(llm LLMClient, voices VoiceDirectory, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{llm: llm, voices: voices, logger: logger}, nil
}

func (a *Agent) resolveVoice(ctx context.Context, voicePackID string) (*VoiceContext, error) {
	if voicePackID == "" || a.voices == nil {
		return nil, nil
	}
	return a.voices.VoiceContext(ctx, voicePackID)
}

func (a *Agent) complete(ctx context.Context, op string, prompt Prompt) (string, error) {
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	a.logger.Debug("llm response received", zap.String("op", op), zap.Int("bytes", len(raw)))
	return raw, nil
}

// GenerateThread creates a fresh thread about topic, scored for cringe.
func (a *Agent) GenerateThread(ctx context.Context, topic, hookType, voicePackID string) (ThreadDraft, error) {
	if strings.TrimSpace(topic) == "" {
		return ThreadDraft{}, &InputError{Field: "topic", Reason: "must not be empty"}
	}

	vc, err := a.resolveVoice(ctx, voicePackID)
	if err != nil {
		return ThreadDraft{}, fmt.Errorf("failed to generate thread: %w", err)
	}

	raw, err := a.complete(ctx, "generate", BuildGeneratePrompt(topic, hookType, vc))
	if err != nil {
		return ThreadDraft{}, fmt.Errorf("failed to generate thread: %w", err)
	}

	arr, err := ExtractArray(raw)
	if err != nil {
		return ThreadDraft{}, fmt.Errorf("failed to generate thread: %w", err)
	}
	tweets := stringsOrPlaceholder(arr)
	if len(tweets) == 0 {
		return ThreadDraft{}, fmt.Errorf("failed to generate thread: %w", &ValidationError{Field: "content"})
	}

	return ThreadDraft{
		Content:     tweets,
		HookType:    hookType,
		CringeScore: CringeScore(tweets),
	}, nil
}

// RemixThread extracts the structural pattern of originalThread and
// regenerates it about newTopic.
func (a *Agent) RemixThread(ctx context.Context, originalThread, newTopic, voicePackID string) (RemixResult, error) {
	if strings.TrimSpace(originalThread) == "" {
		return RemixResult{}, &InputError{Field: "originalThread", Reason: "must not be empty"}
	}
	if strings.TrimSpace(newTopic) == "" {
		return RemixResult{}, &InputError{Field: "newTopic", Reason: "must not be empty"}
	}

	vc, err := a.resolveVoice(ctx, voicePackID)
	if err != nil {
		return RemixResult{}, fmt.Errorf("failed to remix thread: %w", err)
	}

	raw, err := a.complete(ctx, "remix", BuildRemixPrompt(originalThread, newTopic, vc))
	if err != nil {
		return RemixResult{}, fmt.Errorf("failed to remix thread: %w", err)
	}

	obj, err := ExtractObject(raw)
	if err != nil {
		return RemixResult{}, fmt.Errorf("failed to remix thread: %w", err)
	}

	analysisRaw, ok := obj["analysis"].(map[string]any)
	if !ok {
		return RemixResult{}, fmt.Errorf("failed to remix thread: %w", &ValidationError{Field: "analysis"})
	}
	remixedRaw, ok := obj["remixedThread"].([]any)
	if !ok || len(remixedRaw) == 0 {
		return RemixResult{}, fmt.Errorf("failed to remix thread: %w", &ValidationError{Field: "remixedThread"})
	}
	tweets := stringsOrPlaceholder(remixedRaw)

	analysis := RemixAnalysis{
		HookType:    stringField(analysisRaw, "hookType", "unknown"),
		TweetCount:  intField(analysisRaw, "tweetCount", len(tweets)),
		Pattern:     stringField(analysisRaw, "pattern", "Pattern analysis not available"),
		KeyElements: stringSliceField(analysisRaw, "keyElements"),
	}

	return RemixResult{
		Analysis:    analysis,
		Content:     tweets,
		CringeScore: CringeScore(tweets),
	}, nil
}

// Repurpose transforms thread content into the target format.
func (a *Agent) Repurpose(ctx context.Context, content []string, targetFormat, voicePackID string) (RepurposeResult, error) {
	if len(content) == 0 {
		return RepurposeResult{}, &InputError{Field: "content", Reason: "must be a non-empty array of tweets"}
	}
	instruction, ok := formatInstruction(targetFormat)
	if !ok {
		return RepurposeResult{}, &InputError{Field: "targetFormat", Reason: fmt.Sprintf("unknown format %q", targetFormat)}
	}

	vc, err := a.resolveVoice(ctx, voicePackID)
	if err != nil {
		return RepurposeResult{}, fmt.Errorf("failed to repurpose thread: %w", err)
	}

	raw, err := a.complete(ctx, "repurpose", BuildRepurposePrompt(content, targetFormat, instruction, vc))
	if err != nil {
		return RepurposeResult{}, fmt.Errorf("failed to repurpose thread: %w", err)
	}

	obj, err := ExtractObject(raw)
	if err != nil {
		return RepurposeResult{}, fmt.Errorf("failed to repurpose thread: %w", err)
	}

	body, ok := obj["content"].(string)
	if !ok {
		return RepurposeResult{}, fmt.Errorf("failed to repurpose thread: %w", &ValidationError{Field: "content"})
	}

	return RepurposeResult{
		Format:    targetFormat,
		Title:     stringField(obj, "title", "Untitled"),
		Content:   body,
		Summary:   stringField(obj, "summary", ""),
		WordCount: len(strings.Fields(body)),
	}, nil
}

// SuggestReplies drafts alternative replies to a tweet in the given tone.
func (a *Agent) SuggestReplies(ctx context.Context, tweet, tone, voicePackID string) ([]string, error) {
	if strings.TrimSpace(tweet) == "" {
		return nil, &InputError{Field: "tweet", Reason: "must not be empty"}
	}

	vc, err := a.resolveVoice(ctx, voicePackID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate replies: %w", err)
	}

	raw, err := a.complete(ctx, "reply", BuildReplyPrompt(tweet, tone, vc))
	if err != nil {
		return nil, fmt.Errorf("failed to generate replies: %w", err)
	}

	arr, err := ExtractArray(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to generate replies: %w", err)
	}
	replies := stringsOrPlaceholder(arr)
	if len(replies) == 0 {
		return nil, fmt.Errorf("failed to generate replies: %w", &ValidationError{Field: "replies"})
	}
	return replies, nil
}

// Coach turns aggregate usage stats into tips and a trajectory score. The
// stats are echoed back in the result so the caller can display them.
func (a *Agent) Coach(ctx context.Context, stats CoachStats) (CoachResult, error) {
	raw, err := a.complete(ctx, "coach", BuildCoachPrompt(stats))
	if err != nil {
		return CoachResult{}, fmt.Errorf("failed to generate coaching tips: %w", err)
	}

	obj, err := ExtractObject(raw)
	if err != nil {
		return CoachResult{}, fmt.Errorf("failed to generate coaching tips: %w", err)
	}

	tips := stringSliceField(obj, "tips")
	if len(tips) == 0 {
		return CoachResult{}, fmt.Errorf("failed to generate coaching tips: %w", &ValidationError{Field: "tips"})
	}

	return CoachResult{
		Tips:  tips,
		Score: intField(obj, "score", 50),
		Stats: stats,
	}, nil
}

// --- decoded-JSON field helpers ---

func stringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func intField(obj map[string]any, key string, fallback int) int {
	// encoding/json decodes numbers in interface values as float64.
	if f, ok := obj[key].(float64); ok {
		return int(f)
	}
	return fallback
}

func stringSliceField(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
