package stomp

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gmallard-stompngo/stomp/stompuri"
)

// Stats is a snapshot of the frame/byte counters a Connection maintains
// over its lifetime.
type Stats struct {
	FramesRead    int64
	BytesRead     int64
	FramesWritten int64
	BytesWritten  int64
}

// HeartBeatStats reports the negotiated heartbeat intervals and how
// many ticks have fired at each.
type HeartBeatStats struct {
	SendIntervalMs    int64
	ReceiveIntervalMs int64
	SendTickCount     int64
	ReceiveTickCount  int64
}

// Connection is one non-blocking, heartbeat-aware, failover-capable
// STOMP transport. It owns a single net.Conn and the Parser reading it;
// it is driven entirely by its owning Client's single
// cooperating flow of control, so its mutable state needs no locking
// except for the atomic counters Stats()/HeartBeatStats() expose to a
// concurrent monitoring goroutine.
type Connection struct {
	conn   net.Conn
	parser *Parser

	ActiveHost string
	connected  bool

	readTimeout  time.Duration
	writeTimeout time.Duration
	maxReadBytes int
	maxWriteBytes int

	shortWriteRecovery bool

	waitCallback WaitCallback
	observers    observerSet
	logger       Logger

	framesRead    int64
	bytesRead     int64
	framesWritten int64
	bytesWritten  int64

	sendIntervalMs    int64
	receiveIntervalMs int64
	sendTickCount     int64
	receiveTickCount  int64
}

// Dial opens a single-endpoint connection, trying once. uri must be a
// non-failover broker URI.
func Dial(uri string, cfg Config) (*Connection, error) {
	target, err := stompuri.Parse(uri)
	if err != nil {
		return nil, newConnectionError("", "dial", err)
	}
	return dialEndpoints(target.Endpoints, false, cfg)
}

// DialFailover opens a connection against a failover:// URI, iterating
// endpoints in order (shuffled if randomize=true in the URI or
// cfg.Randomize) and returning on first success. If every endpoint
// fails, the returned error's cause chain (via errors.Unwrap/Is/As)
// reaches every attempt's failure, keyed by endpoint.
func DialFailover(uri string, cfg Config) (*Connection, error) {
	target, err := stompuri.Parse(uri)
	if err != nil {
		return nil, newConnectionError("", "dial", err)
	}
	return dialEndpoints(target.Endpoints, target.Randomize || cfg.Randomize, cfg)
}

func dialEndpoints(endpoints []stompuri.Endpoint, randomize bool, cfg Config) (*Connection, error) {
	if randomize {
		endpoints = append([]stompuri.Endpoint(nil), endpoints...)
		rand.Shuffle(len(endpoints), func(i, j int) { endpoints[i], endpoints[j] = endpoints[j], endpoints[i] })
	}

	var attempts []error
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = cfg.ConnectTimeout

	for _, ep := range endpoints {
		conn, err := dialOne(ep, cfg)
		if err == nil {
			return conn, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", ep.String(), err))
		d := b.NextBackOff()
		if d == backoff.Stop {
			break
		}
		time.Sleep(d)
	}
	return nil, newConnectionError("", "dial", &dialAttempts{errs: attempts})
}

func dialOne(ep stompuri.Endpoint, cfg Config) (*Connection, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	address := net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))

	var netConn net.Conn
	var err error
	if cfg.TLSConfig != nil {
		netConn, err = tls.DialWithDialer(&dialer, "tcp", address, cfg.TLSConfig)
	} else {
		netConn, err = dialer.Dial("tcp", address)
	}
	if err != nil {
		return nil, newConnectionError(ep.String(), "connect", err)
	}

	c := &Connection{
		conn:          netConn,
		parser:        NewParser(),
		ActiveHost:    ep.String(),
		connected:     true,
		readTimeout:   cfg.ReadTimeout,
		writeTimeout:  cfg.WriteTimeout,
		maxReadBytes:  cfg.MaxReadBytes,
		maxWriteBytes: cfg.MaxWriteBytes,
		waitCallback:  cfg.WaitCallback,
		logger:        cfg.Logger,
	}
	c.parser.OnHeartbeat = func() {
		atomic.AddInt64(&c.receiveTickCount, 1)
		c.observers.emptyLineRead()
	}
	return c, nil
}

// AddObserver registers o to receive subsequent connection events.
func (c *Connection) AddObserver(o Observer) { c.observers.add(o) }

// SetShortWriteRecovery toggles whether a write that times out mid-chunk
// raises immediately (the default) or gets one retry with a fresh
// deadline window before writeBytes gives up and surfaces a
// ConnectionError.
func (c *Connection) SetShortWriteRecovery(enabled bool) { c.shortWriteRecovery = enabled }

// Stats returns a snapshot of the connection's lifetime frame/byte
// counters.
func (c *Connection) Stats() Stats {
	return Stats{
		FramesRead:    atomic.LoadInt64(&c.framesRead),
		BytesRead:     atomic.LoadInt64(&c.bytesRead),
		FramesWritten: atomic.LoadInt64(&c.framesWritten),
		BytesWritten:  atomic.LoadInt64(&c.bytesWritten),
	}
}

// HeartBeatStats returns a snapshot of the negotiated heartbeat
// intervals and tick counts.
func (c *Connection) HeartBeatStats() HeartBeatStats {
	return HeartBeatStats{
		SendIntervalMs:    atomic.LoadInt64(&c.sendIntervalMs),
		ReceiveIntervalMs: atomic.LoadInt64(&c.receiveIntervalMs),
		SendTickCount:     atomic.LoadInt64(&c.sendTickCount),
		ReceiveTickCount:  atomic.LoadInt64(&c.receiveTickCount),
	}
}

// setHeartBeatIntervals records the negotiated heartbeat tuple, called
// once by the Client after CONNECTED is parsed.
func (c *Connection) setHeartBeatIntervals(sendMs, recvMs int64) {
	atomic.StoreInt64(&c.sendIntervalMs, sendMs)
	atomic.StoreInt64(&c.receiveIntervalMs, recvMs)
}

// WriteFrame serializes f and writes it to the socket in chunks of at
// most maxWriteBytes, sleeping writeSleepInterval between partial
// writes, until the whole frame is written or writeTimeout elapses
// without forward progress.
func (c *Connection) WriteFrame(f *Frame) error {
	if !c.connected {
		return newConnectionError(c.ActiveHost, "write", errNotConnected)
	}
	data := f.Serialize()
	if err := c.writeBytes(data); err != nil {
		return err
	}
	atomic.AddInt64(&c.framesWritten, 1)
	atomic.AddInt64(&c.bytesWritten, int64(len(data)))
	c.observers.sentFrame(f)
	return nil
}

// sendAlive writes the single-byte heartbeat payload through the same
// writer as frames, bounded by the connection's writeTimeout; it has
// no separate heartbeat timeout.
func (c *Connection) sendAlive() error {
	if !c.connected {
		return newConnectionError(c.ActiveHost, "heartbeat", errNotConnected)
	}
	if err := c.writeBytes(heartbeatBytes); err != nil {
		return err
	}
	atomic.AddInt64(&c.bytesWritten, int64(len(heartbeatBytes)))
	atomic.AddInt64(&c.sendTickCount, 1)
	return nil
}

var heartbeatBytes = []byte{'\n'}

func (c *Connection) writeBytes(data []byte) error {
	deadline := time.Now().Add(c.writeTimeout)
	recovered := false
	for len(data) > 0 {
		chunk := data
		if len(chunk) > c.maxWriteBytes {
			chunk = chunk[:c.maxWriteBytes]
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		n, err := c.conn.Write(chunk)
		if n > 0 {
			data = data[n:]
			deadline = time.Now().Add(c.writeTimeout) // forward progress resets the budget
		}
		if err != nil {
			if isTimeout(err) && c.shortWriteRecovery && !recovered && time.Now().Before(deadline) {
				recovered = true
				deadline = time.Now().Add(c.writeTimeout)
				time.Sleep(writeSleepInterval)
				continue
			}
			return newConnectionError(c.ActiveHost, "write", err)
		}
		if len(data) > 0 {
			if time.Now().After(deadline) {
				return newConnectionError(c.ActiveHost, "write", errWriteTimeout)
			}
			time.Sleep(writeSleepInterval)
		}
	}
	return nil
}

// ReadFrame returns the next frame, draining the parser's internal
// buffer before attempting a new socket read. It returns (nil, nil),
// rather than an error, when no complete frame arrives within
// readTimeout, when waitCallback cancels the wait, or when a
// half-closed peer is detected.
func (c *Connection) ReadFrame() (*Frame, error) {
	if !c.connected {
		return nil, newConnectionError(c.ActiveHost, "read", errNotConnected)
	}
	deadline := time.Now().Add(c.readTimeout)
	for {
		f, err := c.parser.NextFrame()
		if err != nil {
			return nil, err
		}
		if f != nil {
			if f.IsHeartbeat() {
				continue
			}
			atomic.AddInt64(&c.framesRead, 1)
			c.observers.receivedFrame(f)
			return f, nil
		}
		if c.parser.IsBufferEmpty() {
			c.observers.emptyBuffer()
		}
		// Otherwise the parser holds a partial frame and needs more bytes.

		if !c.isReadable() {
			if c.waitCallback != nil && !c.waitCallback() {
				return nil, nil
			}
			if time.Now().After(deadline) {
				return nil, nil
			}
			continue
		}

		buf := make([]byte, c.maxReadBytes)
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		n, err := c.conn.Read(buf)
		if n > 0 {
			atomic.AddInt64(&c.bytesRead, int64(n))
			c.parser.AddData(buf[:n])
			continue
		}
		if err != nil {
			if isTimeout(err) {
				continue
			}
			c.observers.emptyRead()
			time.Sleep(emptyReadSleep)
			return nil, nil
		}
		// Zero-byte, no-error read: a half-closed peer.
		c.observers.emptyRead()
		time.Sleep(emptyReadSleep)
		return nil, nil
	}
}

// isReadable polls the socket for readability within readTimeout using
// a short deadline read attempt, treating a timeout as "not yet
// readable" rather than an error: a zero-result poll means "no data
// yet", not end-of-stream.
func (c *Connection) isReadable() bool {
	one := make([]byte, 1)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	n, err := c.conn.Read(one)
	if n > 0 {
		c.parser.AddData(one[:n])
		atomic.AddInt64(&c.bytesRead, int64(n))
		return true
	}
	return err == nil
}

// Disconnect shuts the socket read and write and clears the
// active-host record; subsequent operations fail with a
// not-connected ConnectionError.
func (c *Connection) Disconnect() error {
	if !c.connected {
		return nil
	}
	c.connected = false
	c.ActiveHost = ""
	return c.conn.Close()
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
