// Package gesture turns raw pointer events into drags, taps and long
// presses.
//
// The Machine is an explicit state machine:
//
//	idle -> pressed -> dragging  -> idle
//	                -> longPress -> idle
//	                -> tapped    -> idle
//
// Time never advances on its own. Every event carries its timestamp and
// Tick must be called periodically while a pointer is down so a long press
// can fire without further movement.
package gesture

import (
	"math"
	"time"
)

// Defaults.
const (
	DefaultMoveThreshold = 5.0
	DefaultLongPress     = 500 * time.Millisecond
)

// State is the machine state.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
	LongPress
	Tapped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case LongPress:
		return "longPress"
	case Tapped:
		return "tapped"
	default:
		return "unknown"
	}
}

// EventKind identifies what the machine reports.
type EventKind int

const (
	// Drag reports pointer movement while dragging. DX, DY hold the delta
	// since the previous Drag event.
	Drag EventKind = iota + 1
	// DragEnd reports the pointer was released after dragging.
	DragEnd
	// Tap reports a press and release without qualifying movement.
	Tap
	// Hold reports a long press at X, Y.
	Hold
)

func (k EventKind) String() string {
	switch k {
	case Drag:
		return "drag"
	case DragEnd:
		return "dragEnd"
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	default:
		return "none"
	}
}

// Event is an interpreted gesture.
type Event struct {
	Kind   EventKind
	X, Y   float64
	DX, DY float64
}

// Machine interprets pointer events. The zero value is not usable; use
// New.
type Machine struct {
	threshold float64
	delay     time.Duration

	state    State
	start    time.Time
	downX    float64
	downY    float64
	lastX    float64
	lastY    float64
	deadline time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithMoveThreshold sets the pixel distance that turns a press into a drag
// and cancels a pending long press.
func WithMoveThreshold(px float64) Option {
	return func(m *Machine) {
		if px > 0 {
			m.threshold = px
		}
	}
}

// WithLongPress sets the hold time for a long press.
func WithLongPress(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.delay = d
		}
	}
}

// New returns a machine in the idle state.
func New(opts ...Option) *Machine {
	m := &Machine{threshold: DefaultMoveThreshold, delay: DefaultLongPress}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Down handles a pointer press.
func (m *Machine) Down(x, y float64, at time.Time) {
	m.state = Pressed
	m.start = at
	m.downX, m.downY = x, y
	m.lastX, m.lastY = x, y
	m.deadline = at.Add(m.delay)
}

// Move handles pointer movement. Moving more than the threshold from the
// press point cancels the pending long press and starts a drag.
func (m *Machine) Move(x, y float64, at time.Time) []Event {
	var out []Event
	switch m.state {
	case Pressed:
		if ev, ok := m.fire(at); ok {
			out = append(out, ev)
			break
		}
		if math.Hypot(x-m.downX, y-m.downY) <= m.threshold {
			return nil
		}
		m.state = Dragging
		m.deadline = time.Time{}
		fallthrough
	case Dragging:
		out = append(out, Event{Kind: Drag, X: x, Y: y, DX: x - m.lastX, DY: y - m.lastY})
		m.lastX, m.lastY = x, y
	}
	return out
}

// Tick fires a pending long press whose delay has elapsed by now.
func (m *Machine) Tick(now time.Time) []Event {
	if m.state != Pressed {
		return nil
	}
	if ev, ok := m.fire(now); ok {
		return []Event{ev}
	}
	return nil
}

func (m *Machine) fire(now time.Time) (Event, bool) {
	if m.deadline.IsZero() || now.Before(m.deadline) {
		return Event{}, false
	}
	m.state = LongPress
	m.deadline = time.Time{}
	return Event{Kind: Hold, X: m.downX, Y: m.downY}, true
}

// Up handles a pointer release and returns the machine to idle.
func (m *Machine) Up(x, y float64, at time.Time) []Event {
	var out []Event
	switch m.state {
	case Pressed:
		if ev, ok := m.fire(at); ok {
			out = append(out, ev)
			break
		}
		m.state = Tapped
		out = append(out, Event{Kind: Tap, X: m.downX, Y: m.downY})
	case Dragging:
		out = append(out, Event{Kind: DragEnd, X: x, Y: y})
	}
	m.Cancel()
	return out
}

// Cancel abandons the current gesture.
func (m *Machine) Cancel() {
	m.state = Idle
	m.deadline = time.Time{}
}
