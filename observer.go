package stomp

import "time"

// timeNow is a seam for deterministic tests of heartbeat timing.
var timeNow = time.Now

// Observer receives callbacks from a Connection as wire activity
// happens: sent/received frames, empty reads, idle ticks, and
// heartbeat bytes.
type Observer interface {
	// SentFrame is called immediately after f is fully written.
	SentFrame(f *Frame)
	// ReceivedFrame is called immediately after f is fully parsed.
	ReceivedFrame(f *Frame)
	// EmptyRead is called after a zero-byte read from the socket.
	EmptyRead()
	// EmptyBuffer is called each time ReadFrame finds no frame and no
	// unparsed bytes in the parser, just before it polls the socket,
	// i.e. an idle tick.
	EmptyBuffer()
	// EmptyLineRead is called when a heartbeat byte is consumed.
	EmptyLineRead()
}

// NopObserver implements Observer with no-op methods; embed it to
// satisfy the interface while overriding only the hooks of interest.
type NopObserver struct{}

func (NopObserver) SentFrame(*Frame)     {}
func (NopObserver) ReceivedFrame(*Frame) {}
func (NopObserver) EmptyRead()           {}
func (NopObserver) EmptyBuffer()         {}
func (NopObserver) EmptyLineRead()       {}

// HeartbeatEmitter sends a heartbeat byte once the time since the last
// outbound traffic exceeds the negotiated send interval minus a safety
// margin, checked on each EmptyBuffer tick.
type HeartbeatEmitter struct {
	NopObserver

	Interval    time.Duration // negotiated send interval
	Margin      time.Duration // safety margin subtracted from Interval
	SendAlive   func() error
	lastSentAt  time.Time
}

// NewHeartbeatEmitter returns an emitter that calls sendAlive once
// interval elapses since the last outbound traffic, shaving margin off
// the deadline to leave slack for scheduling jitter.
func NewHeartbeatEmitter(interval, margin time.Duration, sendAlive func() error) *HeartbeatEmitter {
	return &HeartbeatEmitter{Interval: interval, Margin: margin, SendAlive: sendAlive, lastSentAt: timeNow()}
}

func (h *HeartbeatEmitter) SentFrame(*Frame) { h.lastSentAt = timeNow() }

func (h *HeartbeatEmitter) EmptyBuffer() {
	if h.Interval <= 0 {
		return
	}
	deadline := h.Interval - h.Margin
	if deadline < 0 {
		deadline = 0
	}
	if timeNow().Sub(h.lastSentAt) >= deadline {
		if err := h.SendAlive(); err == nil {
			h.lastSentAt = timeNow()
		}
	}
}

// ServerAliveObserver tracks time since the last inbound frame or
// heartbeat byte; once it exceeds the negotiated receive interval by
// Factor, Err reports a HeartbeatError.
type ServerAliveObserver struct {
	NopObserver

	Interval   time.Duration // negotiated receive interval
	Factor     float64       // tolerance multiplier, e.g. 2.0
	lastSeenAt time.Time
}

// NewServerAliveObserver returns an observer with its clock started now.
func NewServerAliveObserver(interval time.Duration, factor float64) *ServerAliveObserver {
	return &ServerAliveObserver{Interval: interval, Factor: factor, lastSeenAt: timeNow()}
}

func (s *ServerAliveObserver) ReceivedFrame(*Frame) { s.lastSeenAt = timeNow() }
func (s *ServerAliveObserver) EmptyLineRead()       { s.lastSeenAt = timeNow() }

// Err reports a HeartbeatError if the server has gone silent beyond
// the tolerated deadline, or nil otherwise.
func (s *ServerAliveObserver) Err() error {
	if s.Interval <= 0 {
		return nil
	}
	limit := time.Duration(float64(s.Interval) * s.Factor)
	since := timeNow().Sub(s.lastSeenAt)
	if since > limit {
		return &HeartbeatError{Since: since, Limit: limit}
	}
	return nil
}

// observerSet dispatches to every registered Observer in registration
// order; used internally by Connection.
type observerSet struct {
	observers []Observer
}

func (s *observerSet) add(o Observer) { s.observers = append(s.observers, o) }

func (s *observerSet) sentFrame(f *Frame) {
	for _, o := range s.observers {
		o.SentFrame(f)
	}
}

func (s *observerSet) receivedFrame(f *Frame) {
	for _, o := range s.observers {
		o.ReceivedFrame(f)
	}
}

func (s *observerSet) emptyRead() {
	for _, o := range s.observers {
		o.EmptyRead()
	}
}

func (s *observerSet) emptyBuffer() {
	for _, o := range s.observers {
		o.EmptyBuffer()
	}
}

func (s *observerSet) emptyLineRead() {
	for _, o := range s.observers {
		o.EmptyLineRead()
	}
}
