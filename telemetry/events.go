// Package telemetry provides combat statistics, bookmarking, and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventKill EventType = iota
	EventBossKill
	EventBossPhase
	EventPlayerHit
	EventLevelUp
)

var eventTypeNames = [...]string{"kill", "boss_kill", "boss_phase", "player_hit", "level_up"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MarshalText encodes the type by name in snapshots.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *EventType) UnmarshalText(b []byte) error {
	for i, name := range eventTypeNames {
		if name == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	*t = EventKill
	return nil
}

// Event represents a single notable combat event.
type Event struct {
	Type EventType `json:"type"`
	Time float64   `json:"time"`

	// Optional fields depending on event type
	Label  string  `json:"label,omitempty"` // archetype, boss phase or damage source
	Tier   string  `json:"tier,omitempty"`
	Amount float64 `json:"amount,omitempty"` // damage taken, pending levels
}

// EventLog keeps the most recent events in a ring buffer.
type EventLog struct {
	buf  []Event
	next int
	full bool
}

// NewEventLog creates a log holding up to size events.
func NewEventLog(size int) *EventLog {
	if size < 1 {
		size = 1
	}
	return &EventLog{buf: make([]Event, size)}
}

// Add appends an event, overwriting the oldest once full.
func (l *EventLog) Add(e Event) {
	l.buf[l.next] = e
	l.next = (l.next + 1) % len(l.buf)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns a copy of the logged events, oldest first.
func (l *EventLog) Recent() []Event {
	if !l.full {
		return append([]Event(nil), l.buf[:l.next]...)
	}
	out := make([]Event, 0, len(l.buf))
	out = append(out, l.buf[l.next:]...)
	return append(out, l.buf[:l.next]...)
}

// Reset empties the log.
func (l *EventLog) Reset() {
	l.next = 0
	l.full = false
}
