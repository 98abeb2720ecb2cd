package meeting

import (
	"math"
	"sort"
	"strings"

	"github.com/grovetools/meetwatch/logging"
	"github.com/sirupsen/logrus"
)

// queueSeparator is the literal separator the agent uses when listing the
// speaker queue.
const queueSeparator = ", "

type question struct {
	text       string
	author     string
	supporters map[string]struct{}
	dropped    bool
}

// Store owns the agenda, the speaker queue and the questions. It is not safe
// for concurrent use; the tracker engine serializes every call onto a single
// goroutine.
//
// Every mutation returns the section it changed, or SectionNone when the call
// was ignored. Out-of-range indices are never an error.
type Store struct {
	// agenda and questions hold only ids that were named. Ids up to the
	// matching max that were skipped read as closed items and dropped
	// questions.
	agenda      map[int]*Agendum
	maxAgenda   int
	order       []int
	pos         map[int]int
	current     int
	queue       []string
	questions   map[int]*question
	maxQuestion int
	logger      *logrus.Entry
}

// New creates an empty store. A nil logger falls back to the "meeting"
// component logger.
func New(logger *logrus.Entry) *Store {
	if logger == nil {
		logger = logging.NewLogger("meeting")
	}
	s := &Store{logger: logger}
	s.resetAgenda()
	s.resetQuestions()
	return s
}

func (s *Store) resetAgenda() {
	s.agenda = make(map[int]*Agendum)
	s.maxAgenda = 0
	s.order = nil
	s.pos = make(map[int]int)
	s.current = 0
}

func (s *Store) resetQuestions() {
	s.questions = make(map[int]*question)
	s.maxQuestion = 0
}

func (s *Store) maxAgendum() int {
	return s.maxAgenda
}

func (s *Store) validAgendum(n int) bool {
	return n >= 1 && n <= s.maxAgenda
}

// item returns agendum n, creating the entry for a skipped id. n must be
// valid or about to become the max.
func (s *Store) item(n int) *Agendum {
	it, ok := s.agenda[n]
	if !ok {
		it = &Agendum{ID: n}
		s.agenda[n] = it
	}
	if n > s.maxAgenda {
		s.maxAgenda = n
	}
	return it
}

// appendToOrder puts id at the end of the presentation order unless it is
// already there.
func (s *Store) appendToOrder(id int) {
	if _, ok := s.pos[id]; ok {
		return
	}
	s.pos[id] = len(s.order)
	s.order = append(s.order, id)
}

// AddAgendum allocates the next id and appends the item to the order.
func (s *Store) AddAgendum(text string) Section {
	if s.maxAgenda == math.MaxInt {
		return SectionNone
	}
	it := s.item(s.maxAgenda + 1)
	it.Text = text
	it.Open = true
	s.appendToOrder(it.ID)
	return SectionAgenda
}

// ChangeAgendum replaces the text of an existing item and reopens it.
func (s *Store) ChangeAgendum(n int, text string) Section {
	if !s.validAgendum(n) {
		return SectionNone
	}
	it := s.item(n)
	it.Text = text
	it.Open = true
	s.appendToOrder(n)
	return SectionAgenda
}

// SetAgendum is the agent-authoritative upsert of item n. Ids beyond the
// known range raise the max; the skipped ids stay unlisted until someone
// names them.
func (s *Store) SetAgendum(n int, text string) Section {
	if n < 1 {
		return SectionNone
	}
	it := s.item(n)
	it.Text = text
	it.Open = true
	s.appendToOrder(n)
	return SectionAgenda
}

// DeleteAgendum closes item n. The id stays addressable.
func (s *Store) DeleteAgendum(n int) Section {
	if !s.validAgendum(n) {
		return SectionNone
	}
	if it, ok := s.agenda[n]; ok {
		it.Open = false
	}
	return SectionAgenda
}

// ClearAgenda resets the agenda to its empty initial state.
func (s *Store) ClearAgenda() Section {
	s.resetAgenda()
	return SectionAgenda
}

// SetCurrentAgendum closes the previously current item and makes n current.
// n is reopened even when it was the item just closed.
func (s *Store) SetCurrentAgendum(n int) Section {
	if !s.validAgendum(n) {
		return SectionNone
	}
	s.DeleteAgendum(s.current)
	s.current = n
	s.item(n).Open = true
	return SectionAgenda
}

// SetQueue replaces the speaker queue wholesale.
func (s *Store) SetQueue(names string) Section {
	if names == "" {
		s.queue = nil
		return SectionQueue
	}
	s.queue = strings.Split(names, queueSeparator)
	return SectionQueue
}

func (s *Store) validQuestion(n int) bool {
	q, ok := s.questions[n]
	return ok && !q.dropped
}

// AddQuestion records a new question supported by its author.
func (s *Store) AddQuestion(author, text string) Section {
	text = strings.TrimSpace(text)
	if text == "" || s.maxQuestion == math.MaxInt {
		return SectionNone
	}
	s.maxQuestion++
	s.questions[s.maxQuestion] = &question{
		text:       text,
		author:     author,
		supporters: map[string]struct{}{author: {}},
	}
	return SectionQuestions
}

// SupportQuestion adds who to the supporters of question n.
func (s *Store) SupportQuestion(who string, n int) Section {
	if !s.validQuestion(n) {
		return SectionNone
	}
	s.questions[n].supporters[who] = struct{}{}
	return SectionQuestions
}

// UnsupportQuestion removes who from the supporters of question n.
func (s *Store) UnsupportQuestion(who string, n int) Section {
	if !s.validQuestion(n) {
		return SectionNone
	}
	if _, ok := s.questions[n].supporters[who]; !ok {
		return SectionNone
	}
	delete(s.questions[n].supporters, who)
	return SectionQuestions
}

// DropQuestion clears question n but keeps its id allocated.
func (s *Store) DropQuestion(n int) Section {
	if !s.validQuestion(n) {
		return SectionNone
	}
	s.questions[n] = &question{dropped: true, supporters: map[string]struct{}{}}
	return SectionQuestions
}

// SetQuestion is the agent-authoritative upsert of question n. The agent
// reports only a supporter count, so tracked supporters are kept and a
// disagreement is logged rather than corrected.
func (s *Store) SetQuestion(n int, text string, reported int) Section {
	if n < 1 {
		return SectionNone
	}
	q, ok := s.questions[n]
	if !ok {
		q = &question{}
		s.questions[n] = q
	}
	if n > s.maxQuestion {
		s.maxQuestion = n
	}
	q.text = strings.TrimSpace(text)
	q.dropped = false
	if q.supporters == nil {
		q.supporters = make(map[string]struct{})
	}
	if tracked := len(q.supporters); tracked != reported {
		s.logger.WithFields(logrus.Fields{
			"question": n,
			"tracked":  tracked,
			"reported": reported,
		}).Warn("Supporter count differs from agent report")
	}
	return SectionQuestions
}

// ClearQuestions resets the questions to their empty initial state.
func (s *Store) ClearQuestions() Section {
	s.resetQuestions()
	return SectionQuestions
}

// Current returns the id of the current agendum, 0 when none.
func (s *Store) Current() int {
	return s.current
}

// Agendum returns item n regardless of its open state.
func (s *Store) Agendum(n int) (Agendum, bool) {
	if !s.validAgendum(n) {
		return Agendum{}, false
	}
	if it, ok := s.agenda[n]; ok {
		return *it, true
	}
	return Agendum{ID: n}, true
}

// Order returns a copy of the presentation order, closed items included.
func (s *Store) Order() []int {
	return append([]int(nil), s.order...)
}

// AgendaView returns the open items in presentation order.
func (s *Store) AgendaView() []Agendum {
	items := make([]Agendum, 0, len(s.order))
	for _, id := range s.order {
		if it := s.agenda[id]; it.Open {
			items = append(items, *it)
		}
	}
	return items
}

// QueueView returns the speaker queue in reported order.
func (s *Store) QueueView() []string {
	return append([]string(nil), s.queue...)
}

// Question returns question n, including dropped ones.
func (s *Store) Question(n int) (Question, bool) {
	if n < 1 || n > s.maxQuestion {
		return Question{}, false
	}
	if q, ok := s.questions[n]; ok {
		return q.view(n), true
	}
	return Question{ID: n, Supporters: []string{}, Dropped: true}, true
}

// QuestionsView returns the live questions, most supported first. Ties keep
// id order.
func (s *Store) QuestionsView() []Question {
	var qs []Question
	for id, q := range s.questions {
		if !q.dropped {
			qs = append(qs, q.view(id))
		}
	}
	sort.Slice(qs, func(i, j int) bool {
		if a, b := len(qs[i].Supporters), len(qs[j].Supporters); a != b {
			return a > b
		}
		return qs[i].ID < qs[j].ID
	})
	return qs
}

// Snapshot copies every view for a renderer.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Agenda:    s.AgendaView(),
		Current:   s.current,
		Queue:     s.QueueView(),
		Questions: s.QuestionsView(),
	}
}

func (q question) view(id int) Question {
	supporters := make([]string, 0, len(q.supporters))
	for who := range q.supporters {
		supporters = append(supporters, who)
	}
	sort.Strings(supporters)
	return Question{
		ID:         id,
		Text:       q.text,
		Author:     q.author,
		Supporters: supporters,
		Dropped:    q.dropped,
	}
}
