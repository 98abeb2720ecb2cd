package tracker

import (
	"github.com/grovetools/meetwatch/internal/meeting"
)

// Notifier tells renderers which section changed. It snapshots the store
// once per change and skips calls that changed nothing.
type Notifier struct {
	renderers []Renderer
}

// Add registers a renderer.
func (n *Notifier) Add(r Renderer) {
	n.renderers = append(n.renderers, r)
}

// Changed signals every renderer that section of st changed.
func (n *Notifier) Changed(section meeting.Section, st *meeting.Store) {
	if section == meeting.SectionNone || len(n.renderers) == 0 {
		return
	}
	snap := st.Snapshot()
	for _, r := range n.renderers {
		r.Render(section, snap)
	}
}
