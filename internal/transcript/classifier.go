// Package transcript interprets chat lines. Each line is matched against a
// fixed, ordered grammar of recognized utterances; the first production that
// matches applies its mutation to the meeting state.
package transcript

import (
	"strings"

	"github.com/grovetools/meetwatch/internal/meeting"
)

// DefaultAgent is the nickname of the meeting agent when none is configured.
const DefaultAgent = "Zakim"

// Match reports which production consumed a line.
type Match struct {
	Rule    string
	Section meeting.Section
}

// Classifier is the ordered grammar bound to one agent nickname.
type Classifier struct {
	agent string
	rules []rule
}

// New creates a classifier that trusts agent-authoritative reports only from
// agent. An empty agent means DefaultAgent.
func New(agent string) *Classifier {
	c := &Classifier{}
	c.SetAgent(agent)
	return c
}

// SetAgent switches the trusted agent nickname.
func (c *Classifier) SetAgent(agent string) {
	agent = strings.TrimSpace(agent)
	if agent == "" {
		agent = DefaultAgent
	}
	c.agent = agent
	c.rules = buildRules(agent)
}

// Agent returns the trusted agent nickname.
func (c *Classifier) Agent() string {
	return c.agent
}

// IsAgent reports whether sender is the meeting agent. Nicknames compare
// case-insensitively.
func (c *Classifier) IsAgent(sender string) bool {
	return strings.EqualFold(strings.TrimSpace(sender), c.agent)
}

// Apply classifies one line and applies the matching production to st.
// ok is false when no production matched; such lines are ordinary
// conversation and leave st untouched.
func (c *Classifier) Apply(st State, sender, text string) (Match, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Match{}, false
	}
	fromAgent := c.IsAgent(sender)
	for _, r := range c.rules {
		if r.fromAgent && !fromAgent {
			continue
		}
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return Match{Rule: r.name, Section: r.apply(st, sender, m)}, true
	}
	return Match{}, false
}
