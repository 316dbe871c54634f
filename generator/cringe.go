package generator

import (
	"regexp"
	"strings"
)

// cringeLexicon is the fixed list of jargon terms that make a thread read
// like a marketer wrote it. Matching is substring-based on lowercased text,
// so a term embedded inside a longer word still counts.
var cringeLexicon = []string{
	"synergy", "leverage", "paradigm", "holistic", "disrupt",
	"thought leader", "game-changer", "crushing it", "hustle",
	"grind", "boss babe", "entrepreneur journey", "10x",
	"unlock", "monetize", "scale", "pivot", "growth hack",
	"influencer", "personal brand", "value bomb", "epic",
}

var shoutingRE = regexp.MustCompile(`\b[A-Z]{3,}\b`)

// CringeScore rates how jargon-laden a tweet sequence sounds, from 0
// (authentic) to 100. Jargon hits cost 10 each, exclamation marks beyond the
// first two cost 5 each, and shouted words (three or more capitals) cost 3.
func CringeScore(tweets []string) int {
	joined := strings.Join(tweets, " ")
	lowered := strings.ToLower(joined)

	score := 0
	for _, term := range cringeLexicon {
		score += strings.Count(lowered, term) * 10
	}

	if n := strings.Count(joined, "!"); n > 2 {
		score += (n - 2) * 5
	}

	score += len(shoutingRE.FindAllString(joined, -1)) * 3

	if score > 100 {
		score = 100
	}
	return score
}
