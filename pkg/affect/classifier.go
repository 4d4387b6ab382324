package affect

import (
	"strings"
)

// Affect tags form a small closed set; anything unrecognized maps to
// TagNeutral.
const (
	TagNeutral  = "neutral"
	TagHappy    = "happy"
	TagSad      = "sad"
	TagThinking = "thinking"
)

// legacy Spanish labels seen in older clients map onto the canonical set.
var explicitAliases = map[string]string{
	"neutral":  TagNeutral,
	"happy":    TagHappy,
	"feliz":    TagHappy,
	"sad":      TagSad,
	"triste":   TagSad,
	"thinking": TagThinking,
	"pensando": TagThinking,
}

// Classifier derives an affect tag from companion reply text and runs the
// crisis check over user text. It is a pure function over its Config.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the affect tag for a companion reply. An explicit
// label supplied by the generator wins; otherwise lexical heuristics run
// and the default is TagNeutral.
func (c *Classifier) Classify(replyText, explicitLabel string) string {
	if tag, ok := explicitAliases[strings.ToLower(strings.TrimSpace(explicitLabel))]; ok {
		return tag
	}

	lower := strings.ToLower(replyText)

	if containsAny(replyText, c.cfg.NegativeEmoji) || containsAny(lower, c.cfg.SadWords) {
		return TagSad
	}
	if containsAny(replyText, c.cfg.PositiveEmoji) || containsAny(lower, c.cfg.HappyWords) {
		return TagHappy
	}
	if containsAny(lower, c.cfg.ThinkingWords) || strings.HasSuffix(strings.TrimSpace(replyText), "?") {
		return TagThinking
	}
	return TagNeutral
}

// DetectCrisis scans the user's message for acute-risk language. It is
// deliberately conservative: plain substring matching over a curated
// list, tolerating false positives (showing resources is low-cost).
func (c *Classifier) DetectCrisis(userText string) bool {
	lower := strings.ToLower(userText)
	return containsAny(lower, c.cfg.CrisisWords)
}

// CrisisPayload returns the static support-resource payload. It is
// ephemeral response data, never persisted.
func (c *Classifier) CrisisPayload() Payload {
	return Payload{
		Message:    c.cfg.CrisisMessage,
		Disclaimer: c.cfg.CrisisDisclaimer,
		Resources:  c.cfg.CrisisResources,
	}
}

// Payload is the crisis resource bundle attached to a response when the
// crisis check triggers.
type Payload struct {
	Message    string
	Disclaimer string
	Resources  []Resource
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
