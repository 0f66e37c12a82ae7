package tracker

import (
	"sync"
	"time"

	"github.com/pmurley/dembot/internal/match"
	"github.com/pmurley/dembot/pkg/logger"
)

// Manager is the per-guild tracker registry. Trackers are created lazily
// on first access and live for the life of the process.
type Manager struct {
	matcher          *match.Matcher
	floatingDuration time.Duration
	log              *logger.Logger

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewManager(matcher *match.Matcher, floatingDuration time.Duration, log *logger.Logger) *Manager {
	return &Manager{
		matcher:          matcher,
		floatingDuration: floatingDuration,
		log:              log,
		trackers:         make(map[string]*Tracker),
	}
}

// GetTracker returns the tracker for a guild, creating it if needed.
func (m *Manager) GetTracker(guildID string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trackers[guildID]
	if !ok {
		t = New(guildID, m.matcher, m.floatingDuration, m.log)
		m.trackers[guildID] = t
	}
	return t
}

// Trackers returns every tracker created so far, for the periodic
// monitors to iterate.
func (m *Manager) Trackers() []*Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		out = append(out, t)
	}
	return out
}
