package generator

// VoiceContext is the read-only slice of a voice pack fed into prompts.
type VoiceContext struct {
	Style          string
	Description    string
	WritingSamples []string
}

// ThreadDraft is a generated thread: an ordered run of tweets plus the hook
// used for the opener and the computed cringe score. Immutable once produced;
// saving it is the caller's business.
type ThreadDraft struct {
	Content     []string `json:"content"`
	HookType    string   `json:"hookType,omitempty"`
	CringeScore int      `json:"cringeScore"`
}

// RemixAnalysis describes the structure the model extracted from the source
// thread during a remix.
type RemixAnalysis struct {
	HookType    string   `json:"hookType"`
	TweetCount  int      `json:"tweetCount"`
	Pattern     string   `json:"pattern"`
	KeyElements []string `json:"keyElements"`
}

// RemixResult bundles the structural analysis with the regenerated thread.
type RemixResult struct {
	Analysis    RemixAnalysis `json:"analysis"`
	Content     []string      `json:"content"`
	CringeScore int           `json:"cringeScore"`
}

// RepurposeResult is thread content transformed into another format.
type RepurposeResult struct {
	Format    string `json:"format"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary"`
	WordCount int    `json:"wordCount"`
}

// CoachStats are the aggregate usage numbers the coach operation reasons over.
type CoachStats struct {
	ThreadCount   int      `json:"threadCount"`
	AvgEngagement float64  `json:"avgEngagement"`
	RecentTopics  []string `json:"recentTopics"`
}

// CoachResult carries personalized tips plus an overall authenticity score.
type CoachResult struct {
	Tips  []string   `json:"tips"`
	Score int        `json:"score"`
	Stats CoachStats `json:"stats"`
}
