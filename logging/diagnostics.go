package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Diagnostic is a warning or error worth showing to the user.
type Diagnostic struct {
	Time      time.Time
	Level     logrus.Level
	Component string
	Message   string
	Fields    logrus.Fields
}

// DiagnosticsHook is a logrus hook that keeps the latest warning or error
// and optionally forwards each one to a callback.
type DiagnosticsHook struct {
	mu     sync.Mutex
	last   *Diagnostic
	notify func(Diagnostic)
}

// NewDiagnosticsHook returns a hook calling notify (which may be nil) for
// every WARN and ERROR entry.
func NewDiagnosticsHook(notify func(Diagnostic)) *DiagnosticsHook {
	return &DiagnosticsHook{notify: notify}
}

// Levels implements logrus.Hook.
func (h *DiagnosticsHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

// Fire implements logrus.Hook.
func (h *DiagnosticsHook) Fire(entry *logrus.Entry) error {
	d := Diagnostic{
		Time:    entry.Time,
		Level:   entry.Level,
		Message: entry.Message,
		Fields:  logrus.Fields{},
	}
	for k, v := range entry.Data {
		if k == "component" {
			if s, ok := v.(string); ok {
				d.Component = s
			}
			continue
		}
		d.Fields[k] = v
	}

	h.mu.Lock()
	h.last = &d
	notify := h.notify
	h.mu.Unlock()

	if notify != nil {
		notify(d)
	}
	return nil
}

// Last returns the most recent diagnostic.
func (h *DiagnosticsHook) Last() (Diagnostic, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return Diagnostic{}, false
	}
	return *h.last, true
}
