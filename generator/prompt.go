package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to the model. Every operation is a single
// round trip, so there is no history.
type Prompt struct {
	System string
	User   string
}

var hookInstructions = map[string]string{
	"negative":   "Start with what NOT to do or a common mistake. Example: 'Stop doing X if you want Y'",
	"numbers":    "Lead with a specific number. Example: '7 ways to 10x your Z' or 'I spent 3 years learning this'",
	"story":      "Open with a personal story or experience. Example: 'In 2019, I was broke. Here's what changed.'",
	"contrarian": "Challenge a common belief. Example: 'Unpopular opinion: X is dead' or 'Everyone says X. They're wrong.'",
	"list":       "Promise a comprehensive list. Example: 'Everything I learned about X in one thread' or 'A complete guide to Y'",
}

var toneInstructions = map[string]string{
	"supportive": "Agree with the tweet and add a personal confirmation or extra example.",
	"contrarian": "Respectfully push back with a counterpoint or an overlooked nuance.",
	"witty":      "Reply with a short, clever one-liner. Humor over information.",
	"insightful": "Add a non-obvious insight or data point that deepens the conversation.",
	"question":   "Ask a sharp follow-up question that invites the author to elaborate.",
}

var formatInstructions = map[string]string{
	"linkedin":   "Rewrite as a single LinkedIn post: professional but personal, short paragraphs, a strong opening line, no bullet spam.",
	"newsletter": "Rewrite as an email newsletter section: a greeting-free body with subheadings, a conversational tone, and a clear takeaway at the end.",
	"script":     "Rewrite as a video or podcast script: spoken-word phrasing, a hook in the first sentence, and natural transitions between points.",
}

func hookInstruction(hookType string) string {
	if inst, ok := hookInstructions[hookType]; ok {
		return inst
	}
	return hookInstructions["negative"]
}

func toneInstruction(tone string) string {
	if inst, ok := toneInstructions[tone]; ok {
		return inst
	}
	return toneInstructions["supportive"]
}

// FormatInstruction resolves a repurpose target format. Unlike hooks and
// tones there is no sane default, so unknown formats are rejected upstream.
func formatInstruction(format string) (string, bool) {
	inst, ok := formatInstructions[format]
	return inst, ok
}

// voiceBlock renders the optional voice-profile section. When no profile is
// supplied the section is omitted entirely rather than left empty.
func voiceBlock(vc *VoiceContext) string {
	if vc == nil {
		return ""
	}
	desc := vc.Description
	if desc == "" {
		desc = "No description"
	}
	var sb strings.Builder
	sb.WriteString("USER'S VOICE PROFILE:\n")
	fmt.Fprintf(&sb, "Writing Style: %s\n", vc.Style)
	fmt.Fprintf(&sb, "Voice Description: %s\n", desc)
	if len(vc.WritingSamples) > 0 {
		sb.WriteString("Sample Writings:\n")
		sb.WriteString(strings.Join(vc.WritingSamples, "\n---\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// BuildGeneratePrompt produces the prompt for generating a fresh thread.
func BuildGeneratePrompt(topic, hookType string, vc *VoiceContext) Prompt {
	var sb strings.Builder
	sb.WriteString("You are Twin, an AI that generates viral Twitter threads. Your job is to create engaging, authentic content that sounds human and avoids corporate jargon.\n\n")
	sb.WriteString(voiceBlock(vc))
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Write 5-7 tweets per thread\n")
	sb.WriteString("2. Each tweet must be under 280 characters\n")
	sb.WriteString("3. Use the specified hook type for the first tweet\n")
	sb.WriteString("4. Make content punchy, valuable, and shareable\n")
	sb.WriteString("5. NO hashtags, NO emojis\n")
	sb.WriteString("6. Sound like a real person, not a marketer\n")
	sb.WriteString("7. Include actionable insights or surprising facts\n")
	sb.WriteString("8. End with a strong call-to-action or thought-provoking question\n\n")
	fmt.Fprintf(&sb, "HOOK TYPE: %s\n%s\n\n", hookType, hookInstruction(hookType))
	sb.WriteString("Respond with ONLY a JSON array of strings, each string being one tweet in the thread.")

	return Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("Generate a Twitter thread about: %s", topic),
	}
}

// BuildRemixPrompt produces the prompt for the remix operation: analyze the
// structure of a source thread, then regenerate it on a new topic.
func BuildRemixPrompt(originalThread, newTopic string, vc *VoiceContext) Prompt {
	var sb strings.Builder
	sb.WriteString("You are Twin, an AI that reverse-engineers viral Twitter threads. You extract the structural pattern of a source thread and rewrite it about a new topic while keeping that pattern.\n\n")
	sb.WriteString(voiceBlock(vc))
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Keep the source thread's tweet count and rhetorical structure\n")
	sb.WriteString("2. Each tweet must be under 280 characters\n")
	sb.WriteString("3. NO hashtags, NO emojis, no corporate jargon\n")
	sb.WriteString("4. The new thread must stand on its own; do not reference the source\n\n")
	sb.WriteString("Respond with ONLY a JSON object of this shape:\n")
	sb.WriteString(`{"analysis": {"hookType": "negative|numbers|story|contrarian|list", "tweetCount": 0, "pattern": "one-sentence description", "keyElements": ["..."]}, "remixedThread": ["tweet one", "tweet two"]}`)

	user := fmt.Sprintf("Source thread:\n%s\n\nNew topic: %s", originalThread, newTopic)
	return Prompt{System: sb.String(), User: user}
}

// BuildRepurposePrompt produces the prompt for transforming thread content
// into another format. The format tag must already be validated.
func BuildRepurposePrompt(content []string, format, instruction string, vc *VoiceContext) Prompt {
	var sb strings.Builder
	sb.WriteString("You are Twin, an AI that repurposes Twitter threads into other content formats without losing the author's voice.\n\n")
	sb.WriteString(voiceBlock(vc))
	fmt.Fprintf(&sb, "TARGET FORMAT: %s\n%s\n\n", format, instruction)
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Preserve every substantive point from the thread\n")
	sb.WriteString("2. No hashtags, no emojis, avoid corporate jargon\n")
	sb.WriteString("3. Write the body in Markdown\n\n")
	sb.WriteString("Respond with ONLY a JSON object of this shape:\n")
	sb.WriteString(`{"title": "...", "content": "full body", "summary": "one or two sentences"}`)

	user := fmt.Sprintf("Thread to repurpose:\n%s", strings.Join(content, "\n"))
	return Prompt{System: sb.String(), User: user}
}

// BuildReplyPrompt produces the prompt for suggesting replies to a tweet.
func BuildReplyPrompt(tweet, tone string, vc *VoiceContext) Prompt {
	var sb strings.Builder
	sb.WriteString("You are Twin, an AI that drafts replies to tweets that sound like a real person joining a conversation.\n\n")
	sb.WriteString(voiceBlock(vc))
	fmt.Fprintf(&sb, "TONE: %s\n%s\n\n", tone, toneInstruction(tone))
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Write 3 alternative replies\n")
	sb.WriteString("2. Each reply must be under 280 characters\n")
	sb.WriteString("3. NO hashtags, NO emojis, no corporate jargon\n\n")
	sb.WriteString("Respond with ONLY a JSON array of strings, each string being one reply.")

	user := fmt.Sprintf("Tweet to reply to:\n%s", tweet)
	return Prompt{System: sb.String(), User: user}
}

// BuildCoachPrompt produces the prompt for coaching tips from usage stats.
// Coaching never uses a voice profile.
func BuildCoachPrompt(stats CoachStats) Prompt {
	var sb strings.Builder
	sb.WriteString("You are Twin, an AI writing coach for Twitter thread authors. You read a creator's aggregate numbers and give specific, actionable advice.\n\n")
	sb.WriteString("RULES:\n")
	sb.WriteString("1. Give 3-5 concrete tips grounded in the stats\n")
	sb.WriteString("2. No generic platitudes, no corporate jargon\n")
	sb.WriteString("3. Also rate the creator's overall trajectory from 0 (off track) to 100 (excellent)\n\n")
	sb.WriteString("Respond with ONLY a JSON object of this shape:\n")
	sb.WriteString(`{"tips": ["..."], "score": 0}`)

	topics := "none yet"
	if len(stats.RecentTopics) > 0 {
		topics = strings.Join(stats.RecentTopics, ", ")
	}
	user := fmt.Sprintf("Threads written: %d\nAverage engagement: %.1f\nRecent topics: %s",
		stats.ThreadCount, stats.AvgEngagement, topics)
	return Prompt{System: sb.String(), User: user}
}
