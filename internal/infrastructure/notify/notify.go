// Package notify implements the notification sinks of the console.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
	"github.com/kmtdiscovery/admin-console/internal/pkg/metrics"
)

// Log writes every notification to the logger.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "notify").Logger()}
}

func (l *Log) Notify(n domain.Notification) {
	metrics.NotificationsTotal.WithLabelValues(string(n.Variant)).Inc()

	evt := l.log.Info()
	if n.Variant == domain.VariantDestructive {
		evt = l.log.Warn()
	}
	evt.Str("title", n.Title).Str("variant", string(n.Variant)).Msg(n.Description)
}

const defaultCapacity = 100

// Entry is a recorded notification.
type Entry struct {
	ID string `json:"id"`
	domain.Notification
	At time.Time `json:"at"`
}

// Recorder keeps the most recent notifications in memory so a front end can
// poll and display them.
type Recorder struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewRecorder keeps up to capacity entries. If capacity <= 0, defaultCapacity
// is used.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{capacity: capacity, now: time.Now}
}

func (r *Recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{ID: uuid.NewString(), Notification: n, At: r.now().UTC()})
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append(r.entries[:0], r.entries[over:]...)
	}
}

// Recent returns up to n entries, newest last. n <= 0 returns all.
func (r *Recorder) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if n > 0 && n < len(r.entries) {
		start = len(r.entries) - n
	}
	return append([]Entry(nil), r.entries[start:]...)
}

// Drain returns all entries and clears the recorder.
func (r *Recorder) Drain() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.entries
	r.entries = nil
	if out == nil {
		out = []Entry{}
	}
	return out
}

// Fanout forwards each notification to every sink in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(n domain.Notification) {
	for _, s := range f {
		s.Notify(n)
	}
}
