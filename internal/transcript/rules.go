package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/grovetools/meetwatch/internal/meeting"
)

// State is the set of mutations the grammar drives. *meeting.Store
// implements it.
type State interface {
	AddAgendum(text string) meeting.Section
	ChangeAgendum(n int, text string) meeting.Section
	SetAgendum(n int, text string) meeting.Section
	DeleteAgendum(n int) meeting.Section
	ClearAgenda() meeting.Section
	SetCurrentAgendum(n int) meeting.Section
	ReorderAgenda(spec string) meeting.Section
	SetQueue(names string) meeting.Section
	AddQuestion(author, text string) meeting.Section
	SupportQuestion(who string, n int) meeting.Section
	UnsupportQuestion(who string, n int) meeting.Section
	DropQuestion(n int) meeting.Section
	SetQuestion(n int, text string, reported int) meeting.Section
	ClearQuestions() meeting.Section
}

type action func(st State, sender string, m []string) meeting.Section

// rule is one production of the grammar. Rules marked fromAgent are only
// eligible when the line was said by the meeting agent.
type rule struct {
	name      string
	fromAgent bool
	pattern   *regexp.Regexp
	apply     action
}

var fromSuffix = regexp.MustCompile(`(?i)\[from\s+[^\]]*\]\s*$`)

// attribute appends "[from sender]" unless the text already names who
// proposed it.
func attribute(text, sender string) string {
	text = strings.TrimSpace(text)
	if fromSuffix.MatchString(text) || sender == "" {
		return text
	}
	return fmt.Sprintf("%s [from %s]", text, sender)
}

// number returns the first non-empty capture parsed as an int. ok is false
// when nothing parses, which happens only for absurdly long digit runs.
func number(captures ...string) (int, bool) {
	for _, c := range captures {
		if c == "" {
			continue
		}
		n, err := strconv.Atoi(c)
		return n, err == nil
	}
	return 0, false
}

// buildRules returns the grammar in priority order. Participant commands may
// be addressed to the agent ("zakim, agenda+ ...").
func buildRules(agent string) []rule {
	addr := `(?:` + regexp.QuoteMeta(agent) + `\s*[,:]\s*)?`
	re := func(body string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)^` + body + `$`)
	}
	see := `(?:i\s+see|sees)`

	return []rule{
		{
			name:    "agenda-add",
			pattern: re(addr + `agenda\s*\+\s*(\S.*)`),
			apply: func(st State, sender string, m []string) meeting.Section {
				return st.AddAgendum(attribute(m[1], sender))
			},
		},
		{
			name:    "agenda-change",
			pattern: re(addr + `agenda\s+(\d+)\s*=\s*(\S.*)`),
			apply: func(st State, sender string, m []string) meeting.Section {
				n, ok := number(m[1])
				if !ok {
					return meeting.SectionNone
				}
				return st.ChangeAgendum(n, attribute(m[2], sender))
			},
		},
		{
			name: "agenda-delete",
			pattern: re(addr + `(?:agenda\s*-\s*(\d+)|agendum\s*-\s*(\d+)|` +
				`(?:delete|drop|forget|remove)\s+agendum\s+(\d+))\s*`),
			apply: func(st State, _ string, m []string) meeting.Section {
				n, ok := number(m[1], m[2], m[3])
				if !ok {
					return meeting.SectionNone
				}
				return st.DeleteAgendum(n)
			},
		},
		{
			name:    "agenda-order",
			pattern: re(addr + `(?:the\s+)?agenda\s+order(?:\s+is)?\s*[:=]?\s*(.*)`),
			apply: func(st State, _ string, m []string) meeting.Section {
				return st.ReorderAgenda(m[1])
			},
		},
		{
			name:      "agent-taken-up",
			fromAgent: true,
			pattern:   re(`agendum\s+(\d+)\s+--\s+(.*?)\s+--\s+taken\s+up(?:\s+(\[from\s+[^\]]*\]))?\s*`),
			apply: func(st State, _ string, m []string) meeting.Section {
				n, ok := number(m[1])
				if !ok {
					return meeting.SectionNone
				}
				text := m[2]
				if m[3] != "" {
					text += " " + m[3]
				}
				// An item the upsert just created is made current too.
				return st.SetAgendum(n, text).Merge(st.SetCurrentAgendum(n))
			},
		},
		{
			name:      "agent-agenda-cleared",
			fromAgent: true,
			pattern:   re(`(?:notes\s+)?agenda\s+cleared\.?`),
			apply: func(st State, _ string, _ []string) meeting.Section {
				return st.ClearAgenda()
			},
		},
		{
			name:      "agent-agenda-item",
			fromAgent: true,
			pattern:   re(`(\d+)\.\s+(\S.*)`),
			apply: func(st State, _ string, m []string) meeting.Section {
				n, ok := number(m[1])
				if !ok {
					return meeting.SectionNone
				}
				return st.SetAgendum(n, strings.TrimSpace(m[2]))
			},
		},
		{
			name:      "agent-queue-empty",
			fromAgent: true,
			pattern:   re(see + `\s+no\s+one\s+on\s+the\s+speaker\s+queue\.?`),
			apply: func(st State, _ string, _ []string) meeting.Section {
				return st.SetQueue("")
			},
		},
		{
			name:      "agent-queue",
			fromAgent: true,
			pattern:   re(see + `\s+(.+?)\s+on\s+the\s+speaker\s+queue\.?`),
			apply: func(st State, _ string, m []string) meeting.Section {
				return st.SetQueue(m[1])
			},
		},
		{
			name:    "question-support",
			pattern: re(addr + `quest(?:ion)?\s*(?:\+\+\s*(\d+)|(\d+)\s*\+\+)\s*`),
			apply: func(st State, sender string, m []string) meeting.Section {
				n, ok := number(m[1], m[2])
				if !ok {
					return meeting.SectionNone
				}
				return st.SupportQuestion(sender, n)
			},
		},
		{
			name:    "question-add",
			pattern: re(addr + `quest(?:ion)?\s*\+\+\s*(\S.*)`),
			apply: func(st State, sender string, m []string) meeting.Section {
				return st.AddQuestion(sender, m[1])
			},
		},
		{
			name:    "question-withdraw",
			pattern: re(addr + `quest(?:ion)?\s*(?:--\s*(\d+)|(\d+)\s*--)\s*`),
			apply: func(st State, sender string, m []string) meeting.Section {
				n, ok := number(m[1], m[2])
				if !ok {
					return meeting.SectionNone
				}
				return st.UnsupportQuestion(sender, n)
			},
		},
		{
			name:      "agent-questions-cleared",
			fromAgent: true,
			pattern: re(`(?:notes\s+)?(?:questions?(?:\s+list)?\s+cleared|` +
				see + `\s+no\s+(?:open\s+)?questions?(?:\s+on\s+the\s+(?:question\s+)?(?:queue|list))?)\.?`),
			apply: func(st State, _ string, _ []string) meeting.Section {
				return st.ClearQuestions()
			},
		},
		{
			name:      "agent-question-dropped",
			fromAgent: true,
			pattern:   re(`(?:notes\s+)?question\s+(\d+)\b.*\b(?:dropped|closed)\.?`),
			apply: func(st State, _ string, m []string) meeting.Section {
				n, ok := number(m[1])
				if !ok {
					return meeting.SectionNone
				}
				return st.DropQuestion(n)
			},
		},
		{
			name:      "agent-question",
			fromAgent: true,
			pattern:   re(`Q(\d+):\s*(.*?)\s*\((\d+)\s+supporters?\)\s*`),
			apply: func(st State, _ string, m []string) meeting.Section {
				n, ok := number(m[1])
				if !ok {
					return meeting.SectionNone
				}
				count, ok := number(m[3])
				if !ok {
					return meeting.SectionNone
				}
				return st.SetQuestion(n, m[2], count)
			},
		},
	}
}
