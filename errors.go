package stomp

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// ConnectionError reports a failure at the socket/transport layer: an
// open, read or write failure, a timeout, or an operation attempted on
// a Connection that is not (or no longer) connected. It carries the
// host that was active, or last attempted, when the failure occurred,
// and chains to the underlying cause via Unwrap/Cause.
type ConnectionError struct {
	Host string
	Op   string
	err  error
}

func newConnectionError(host, op string, cause error) *ConnectionError {
	return &ConnectionError{Host: host, Op: op, err: pkgerrors.Wrap(cause, op)}
}

func (e *ConnectionError) Error() string {
	if e.Host == "" {
		return fmt.Sprintf("stomp: connection error during %s: %v", e.Op, e.err)
	}
	return fmt.Sprintf("stomp: connection error to %s during %s: %v", e.Host, e.Op, e.err)
}

// Unwrap exposes the wrapped cause to stdlib errors.Is/errors.As.
func (e *ConnectionError) Unwrap() error { return e.err }

// Cause returns the innermost, unwrapped cause, mirroring
// github.com/pkg/errors' convention for callers not on errors.Unwrap.
func (e *ConnectionError) Cause() error { return pkgerrors.Cause(e.err) }

// ErrorFrame reports that the broker sent an ERROR frame. Its "message"
// header, if present, is the human-readable summary.
type ErrorFrame struct {
	Frame *Frame
}

func (e *ErrorFrame) Error() string {
	msg, ok := e.Frame.Header(HKMessage)
	if !ok || msg == "" {
		msg = "broker sent an ERROR frame"
	}
	return fmt.Sprintf("stomp: %s", msg)
}

// UnexpectedResponse reports that a well-formed frame arrived where a
// specific one was expected, e.g. a RECEIPT with the wrong id.
type UnexpectedResponse struct {
	Expected string
	Got      *Frame
}

func (e *UnexpectedResponse) Error() string {
	got := "<nil>"
	if e.Got != nil {
		got = e.Got.Command
	}
	return fmt.Sprintf("stomp: unexpected response: expected %s, got %s", e.Expected, got)
}

// MissingReceipt reports that a synchronous send exceeded its receipt
// wait budget without any matching RECEIPT arriving.
type MissingReceipt struct {
	ReceiptID string
	Waited    time.Duration
}

func (e *MissingReceipt) Error() string {
	return fmt.Sprintf("stomp: no RECEIPT for id %q after %s", e.ReceiptID, e.Waited)
}

// InvalidState reports that an operation is not permitted by the
// state machine's current state.
type InvalidState struct {
	State     string
	Operation string
}

func (e *InvalidState) Error() string {
	return fmt.Sprintf("stomp: %s not permitted in state %s", e.Operation, e.State)
}

// DrainingMessage reports that an operation is not permitted while the
// session is draining buffered consumer frames.
type DrainingMessage struct {
	Operation string
}

func (e *DrainingMessage) Error() string {
	return fmt.Sprintf("stomp: %s not permitted while draining", e.Operation)
}

// HeartbeatError is signaled by the ServerAliveObserver when the
// server-alive deadline is exceeded.
type HeartbeatError struct {
	Since time.Duration
	Limit time.Duration
}

func (e *HeartbeatError) Error() string {
	return fmt.Sprintf("stomp: no server traffic for %s, exceeding the %s heartbeat deadline", e.Since, e.Limit)
}

// ProtocolError reports an illegal ack mode, a NACK attempted at STOMP
// 1.0, or an unsupported requeue parameter.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("stomp: protocol error: %s", e.Reason)
}

// dialAttempts collects one error per endpoint tried by dialEndpoints,
// in attempt order. Its Unwrap exposes the full slice so the standard
// errors.Is/errors.As tree-walk can reach every host tried, not just
// the last one attempted.
type dialAttempts struct {
	errs []error
}

func (e *dialAttempts) Error() string {
	var b strings.Builder
	b.WriteString("all endpoints failed: ")
	for i, err := range e.errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns every attempt's error so the standard errors.Is/As
// tree-walking algorithm (Go 1.20+) can match against any of them.
func (e *dialAttempts) Unwrap() []error { return e.errs }

// errNotConnected is the sentinel cause wrapped into a ConnectionError
// when an operation is attempted on a Connection that is not (or no
// longer) connected.
var errNotConnected = fmt.Errorf("not connected")

// errWriteTimeout is the sentinel cause wrapped into a ConnectionError
// when writeTimeout elapses without forward progress on a partial write.
var errWriteTimeout = fmt.Errorf("write timed out without forward progress")

// errConnectNotAcknowledged is the sentinel cause wrapped into a
// ConnectionError when CONNECT gets no CONNECTED within the connect
// timeout.
var errConnectNotAcknowledged = fmt.Errorf("CONNECT was not acknowledged with CONNECTED within the connect timeout")
