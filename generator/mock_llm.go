package generator

import (
	"context"
	"strings"
)

// MockLLM is a canned-response client for local development and tests. It
// keys off the response-shape section of the system prompt to decide which
// operation is being mocked.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch {
	case strings.Contains(prompt.System, `"remixedThread"`):
		return `{"analysis": {"hookType": "contrarian", "tweetCount": 3, "pattern": "Bold claim, evidence, payoff", "keyElements": ["short opener", "concrete numbers"]}, "remixedThread": ["Everyone is wrong about this.", "Here is what the data actually shows.", "Try it for a week and see."]}`, nil
	case strings.Contains(prompt.System, `"title"`):
		return `{"title": "What a week of threads taught me", "content": "## The short version\n\nWriting in public compounds. Here is why.", "summary": "Lessons from a week of posting threads."}`, nil
	case strings.Contains(prompt.System, `"tips"`):
		return `{"tips": ["Post at the same hour you got your best engagement.", "Your story-led threads outperform the rest; write more of them.", "Cut your openers to one sentence."], "score": 62}`, nil
	case strings.Contains(prompt.System, "one reply"):
		return `["Completely agree, saw the same thing last quarter.", "Counterpoint: this breaks down past a certain team size.", "What changed your mind on this?"]`, nil
	default:
		return `["Here is a mock thread about your topic.", "It has exactly the structure a real one would.", "What would you write next?"]`, nil
	}
}
