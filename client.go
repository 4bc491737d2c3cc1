package stomp

import (
	"bytes"
	"container/list"
	"fmt"
	"time"
)

// Client is a STOMP session built on one Connection: bring-up,
// synchronous send with receipt correlation, unprocessed-frame
// buffering, and graceful disconnect. Like Connection, a
// Client is driven by a single cooperating flow of control; concurrent
// callers must serialize externally.
type Client struct {
	conn   *Connection
	cfg    Config
	parser *Parser

	Version   Version
	SessionID string
	Server    string
	Dialect   Protocol

	unprocessed *list.List // FIFO of *Frame buffered while awaiting a receipt
}

// Connect opens conn (already dialed) with a CONNECT/CONNECTED
// handshake: puts the parser in legacy mode, sends CONNECT with the
// configured login, passcode, version list, vhost and heartbeat
// tuple, then polls for CONNECTED within cfg.ConnectTimeout.
func Connect(conn *Connection, cfg Config) (*Client, error) {
	c := &Client{
		conn:        conn,
		cfg:         cfg,
		parser:      conn.parser,
		Dialect:     NewGeneric(V1_0),
		unprocessed: list.New(),
	}
	c.parser.SetLegacy(true)

	connectFrame := c.Dialect.Connect(ConnectOptions{
		Login:     cfg.Login,
		Passcode:  cfg.Passcode,
		Host:      cfg.Host,
		ClientID:  cfg.ClientID,
		Versions:  cfg.Versions,
		HeartBeat: [2]uint{cfg.HeartBeatSend, cfg.HeartBeatRecv},
	})
	if err := conn.WriteFrame(connectFrame); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(cfg.ConnectTimeout)
	for {
		f, err := conn.ReadFrame()
		if err != nil {
			return nil, err
		}
		if f == nil {
			if time.Now().After(deadline) {
				return nil, newConnectionError(conn.ActiveHost, "connect", errConnectNotAcknowledged)
			}
			continue
		}
		if f.Command == ERROR {
			return nil, &ErrorFrame{Frame: f}
		}
		if f.Command != CONNECTED {
			return nil, &UnexpectedResponse{Expected: CONNECTED, Got: f}
		}

		version, _ := f.Header(HKVersion)
		v, ok := ParseVersion(version)
		if !ok {
			v = V1_0
		}
		c.Version = v
		if v.HasVersion(V1_1) {
			c.parser.SetLegacy(false)
		}
		c.SessionID, _ = f.Header(HKSession)
		c.Server, _ = f.Header(HKServer)

		var sx, sy uint
		if hb, ok := f.Header(HKHeartBeat); ok {
			_, _ = fmt.Sscanf(hb, "%d,%d", &sx, &sy)
		}
		var sendMs, recvMs int64
		if cfg.HeartBeatSend > 0 && sy > 0 {
			sendMs = int64(max(cfg.HeartBeatSend, sy))
		}
		if cfg.HeartBeatRecv > 0 && sx > 0 {
			recvMs = int64(max(cfg.HeartBeatRecv, sx))
		}
		conn.setHeartBeatIntervals(sendMs, recvMs)

		name := cfg.DialectName
		if name == "" {
			name = DetectDialect(c.Server)
		}
		c.Dialect = SelectDialect(name, v, cfg.DialectTuning)
		return c, nil
	}
}

// Send transmits a SEND frame for destination carrying body. If sync
// is true, a unique "receipt" header is injected and Send blocks in
// waitForReceipt until cfg.ReceiptWait elapses; any non-receipt frame
// read while waiting is buffered in FIFO order for a later ReadFrame
// or FlushBufferedFrames call. Setting the "receipt" header on
// extraHeaders yourself has no effect on a sync send: Send always
// overwrites it with a freshly generated id so the wait can find its
// own response unambiguously; use async sends for custom receipt
// correlation. Only the sync argument decides whether Send waits;
// cfg.Sync is not consulted.
func (c *Client) Send(destination string, body []byte, contentType string, sync bool, extraHeaders ...string) error {
	f := NewFrame(SEND, extraHeaders...)
	f.Headers.Set(HKDestination, destination)
	f.Body = body

	if _, suppressed := f.Header(HKSuppressContentType); !suppressed {
		if contentType == "" && len(body) > 0 {
			contentType = DefaultContentType
		}
		if contentType != "" {
			f.Headers.Set(HKContentType, contentType)
		}
	}
	if _, suppressed := f.Header(HKSuppressContentLength); !suppressed || bytes.IndexByte(body, 0) >= 0 {
		f.ExpectContentLength = true
	}
	f.Headers.Remove(HKSuppressContentType)
	f.Headers.Remove(HKSuppressContentLength)

	if !sync {
		return c.conn.WriteFrame(f)
	}

	receiptID := newReceiptID()
	f.Headers.Set(HKReceipt, receiptID)
	if err := c.conn.WriteFrame(f); err != nil {
		return err
	}
	return c.waitForReceipt(receiptID)
}

// NoReceipt is the header pair "noreceipt:true". Client.Disconnect
// never requests a receipt and does not read this value, so DISCONNECT
// frames carry no "receipt" header with or without it.
var NoReceipt = []string{"noreceipt", "true"}

// waitForReceipt blocks until a RECEIPT frame with the exact id
// arrives, reading frames via the connection in the meantime. Any
// other frame read while waiting is appended to the unprocessed FIFO.
// A RECEIPT with a mismatched receipt-id raises UnexpectedResponse; no
// RECEIPT within cfg.ReceiptWait raises MissingReceipt.
func (c *Client) waitForReceipt(id string) error {
	deadline := time.Now().Add(c.cfg.ReceiptWait)
	for {
		if time.Now().After(deadline) {
			return &MissingReceipt{ReceiptID: id, Waited: c.cfg.ReceiptWait}
		}
		f, err := c.conn.ReadFrame()
		if err != nil {
			return err
		}
		if f == nil {
			continue
		}
		if f.Command == ERROR {
			return &ErrorFrame{Frame: f}
		}
		if f.Command != RECEIPT {
			c.unprocessed.PushBack(f)
			continue
		}
		got, _ := f.Header(HKReceiptID)
		if got != id {
			return &UnexpectedResponse{Expected: RECEIPT + " id=" + id, Got: f}
		}
		return nil
	}
}

// ReadFrame returns the next frame, draining the unprocessed FIFO
// before falling back to the connection's read path.
func (c *Client) ReadFrame() (*Frame, error) {
	if e := c.unprocessed.Front(); e != nil {
		c.unprocessed.Remove(e)
		return e.Value.(*Frame), nil
	}
	return c.conn.ReadFrame()
}

// drainBuffered returns the next already-available frame without
// performing a new socket read: first the unprocessed FIFO, then
// whatever the parser can produce from bytes already buffered. It
// returns (nil, nil) once both sources are exhausted.
func (c *Client) drainBuffered() (*Frame, error) {
	if e := c.unprocessed.Front(); e != nil {
		c.unprocessed.Remove(e)
		return e.Value.(*Frame), nil
	}
	return c.conn.parser.NextFrame()
}

// FlushBufferedFrames drains every frame currently available without a
// new socket read: the unprocessed FIFO, in order, followed by any
// frames the parser can produce from already-buffered bytes. It never
// performs a new read.
func (c *Client) FlushBufferedFrames() ([]*Frame, error) {
	var out []*Frame
	for {
		f, err := c.drainBuffered()
		if err != nil {
			return out, err
		}
		if f == nil {
			return out, nil
		}
		out = append(out, f)
	}
}

// buffersEmpty reports whether the client has no buffered frames and
// no unparsed bytes waiting on the parser, the condition the state
// machine checks when the last subscription is removed.
func (c *Client) buffersEmpty() bool {
	return c.unprocessed.Len() == 0 && c.conn.parser.IsBufferEmpty()
}

// Disconnect sends a DISCONNECT frame (write errors are suppressed
// since the connection is going away regardless) and closes the
// underlying connection.
func (c *Client) Disconnect() error {
	if c.conn.connected {
		f := c.Dialect.Disconnect(c.cfg.ClientID)
		_ = c.conn.WriteFrame(f)
	}
	c.unprocessed.Init()
	return c.conn.Disconnect()
}
