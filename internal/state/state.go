// Package state provides thread-safe tracking of galaxy generation runs.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-starfield/internal/galaxy"
)

// EventType represents the type of run event.
type EventType string

const (
	EventRunStarted  EventType = "RUN_STARTED"
	EventStarted     EventType = "STARTED"
	EventFinished    EventType = "FINISHED"
	EventFallback    EventType = "FALLBACK"
	EventRunFinished EventType = "RUN_FINISHED"
	EventRunFailed   EventType = "RUN_FAILED"
)

// Event represents a change in a generation run.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Component string        `json:"component,omitempty"`
	Count     int           `json:"count,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Phase is the lifecycle stage of a component or run.
type Phase int

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ComponentStatus is the progress of one component.
type ComponentStatus struct {
	Component galaxy.Component
	Phase     Phase
	Total     int
	Done      int
	Fallbacks int
	Elapsed   time.Duration
}

// Fraction returns Done/Total in [0, 1].
func (c ComponentStatus) Fraction() float64 {
	if c.Total <= 0 {
		if c.Phase == PhaseDone {
			return 1
		}
		return 0
	}
	return min(1, float64(c.Done)/float64(c.Total))
}

// Manager handles run state with thread-safe access. It implements
// galaxy.Tracker.
type Manager struct {
	mu sync.RWMutex

	// Current run
	phase      Phase
	seed       uint64
	startedAt  time.Time
	finishedAt time.Time
	lastError  error
	catalog    *galaxy.Catalog

	components map[galaxy.Component]*ComponentStatus

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	m := &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
	m.resetComponents(nil)
	return m
}

func (m *Manager) resetComponents(counts map[galaxy.Component]int) {
	m.components = make(map[galaxy.Component]*ComponentStatus, len(galaxy.AllComponents))
	for _, c := range galaxy.AllComponents {
		m.components[c] = &ComponentStatus{Component: c, Total: counts[c]}
	}
}

// Begin marks the start of a run for cfg. Component statuses are reset.
func (m *Manager) Begin(cfg galaxy.Config, seed uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phase = PhaseRunning
	m.seed = seed
	m.startedAt = time.Now()
	m.finishedAt = time.Time{}
	m.lastError = nil
	m.catalog = nil
	m.resetComponents(cfg.Counts())
	m.addEvent(Event{Type: EventRunStarted, Timestamp: m.startedAt, Count: cfg.Total()})
}

// Finish records the outcome of a run.
func (m *Manager) Finish(cat *galaxy.Catalog, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.finishedAt = time.Now()
	elapsed := m.finishedAt.Sub(m.startedAt)
	if err != nil {
		m.phase = PhaseFailed
		m.lastError = err
		m.addEvent(Event{Type: EventRunFailed, Timestamp: m.finishedAt, Elapsed: elapsed, Message: err.Error()})
		return
	}

	m.phase = PhaseDone
	m.catalog = cat
	m.seed = cat.Seed
	m.addEvent(Event{Type: EventRunFinished, Timestamp: m.finishedAt, Count: cat.Len(), Elapsed: elapsed})
}

// ComponentStarted implements galaxy.Tracker.
func (m *Manager) ComponentStarted(c galaxy.Component, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.components[c]
	st.Phase = PhaseRunning
	st.Total = total
	st.Done = 0
	m.addEvent(Event{Type: EventStarted, Timestamp: time.Now(), Component: c.String(), Count: total})
}

// ComponentProgress implements galaxy.Tracker.
func (m *Manager) ComponentProgress(c galaxy.Component, done int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[c].Done = done
}

// ComponentFinished implements galaxy.Tracker.
func (m *Manager) ComponentFinished(c galaxy.Component, res galaxy.Result, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	st := m.components[c]
	st.Phase = PhaseDone
	st.Done = res.Stars.Len()
	st.Fallbacks = res.Fallbacks
	st.Elapsed = elapsed
	m.addEvent(Event{Type: EventFinished, Timestamp: now, Component: c.String(), Count: st.Done, Elapsed: elapsed})
	if res.Fallbacks > 0 {
		m.addEvent(Event{Type: EventFallback, Timestamp: now, Component: c.String(), Count: res.Fallbacks})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of run state.
type Snapshot struct {
	Phase      Phase
	Seed       uint64
	StartedAt  time.Time
	FinishedAt time.Time
	LastError  error
	// Catalog is shared, not copied; catalogs are never modified after assembly.
	Catalog    *galaxy.Catalog
	Components []ComponentStatus
	Events     []Event
}

// Elapsed returns the run duration so far, or the final duration once done.
func (s Snapshot) Elapsed() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Progress returns the overall fraction of stars generated.
func (s Snapshot) Progress() float64 {
	total, done := 0, 0
	for _, c := range s.Components {
		total += c.Total
		done += min(c.Done, c.Total)
	}
	if total == 0 {
		if s.Phase == PhaseDone {
			return 1
		}
		return 0
	}
	return float64(done) / float64(total)
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comps := make([]ComponentStatus, 0, len(galaxy.AllComponents))
	for _, c := range galaxy.AllComponents {
		comps = append(comps, *m.components[c])
	}

	return Snapshot{
		Phase:      m.phase,
		Seed:       m.seed,
		StartedAt:  m.startedAt,
		FinishedAt: m.finishedAt,
		LastError:  m.lastError,
		Catalog:    m.catalog,
		Components: comps,
		Events:     m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasCatalog reports whether a run has finished successfully.
func (m *Manager) HasCatalog() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog != nil
}
