// Package meeting holds the tracked meeting state: the agenda, the speaker
// queue and the open questions, reconstructed from what participants and the
// meeting agent say in the channel.
package meeting

// Section names which tracked collection an operation changed.
type Section string

const (
	SectionNone      Section = ""
	SectionAgenda    Section = "agenda"
	SectionQueue     Section = "queue"
	SectionQuestions Section = "questions"
	SectionAll       Section = "all"
)

// Merge combines two section tags. Distinct non-empty tags widen to SectionAll.
func (s Section) Merge(other Section) Section {
	switch {
	case s == SectionNone:
		return other
	case other == SectionNone || other == s:
		return s
	default:
		return SectionAll
	}
}

// Agendum is a single agenda item. IDs are 1-based and never reused; closing
// an item only flips Open.
type Agendum struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Open bool   `json:"open"`
}

// Question is a tracked discussion question. Author is empty when the
// question was first learned from the agent's report.
type Question struct {
	ID         int      `json:"id"`
	Text       string   `json:"text"`
	Author     string   `json:"author,omitempty"`
	Supporters []string `json:"supporters"`
	Dropped    bool     `json:"dropped,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer displays.
type Snapshot struct {
	Agenda    []Agendum  `json:"agenda"`
	Current   int        `json:"current"`
	Queue     []string   `json:"queue"`
	Questions []Question `json:"questions"`
}
