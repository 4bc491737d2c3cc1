package stomp

import (
	"crypto/tls"
	"time"
)

// Default tuning values for connection and session behavior.
const (
	DefaultPort           = 61613
	DefaultMaxWriteBytes  = 8 * 1024
	DefaultMaxReadBytes   = 8 * 1024
	DefaultConnectTimeout = 10 * time.Second
	DefaultReceiptWait    = 15 * time.Second
	DefaultReadTimeout    = 100 * time.Millisecond
	DefaultWriteTimeout   = 10 * time.Second
	writeSleepInterval    = 2500 * time.Microsecond // between partial writes
	emptyReadSleep        = 5 * time.Millisecond    // between empty reads on a likely-closed socket
)

// WaitCallback is invoked between readiness polls while Connection.ReadFrame
// is waiting for data, a cooperative hook for callers that need to pump
// their own event loop between polls. Returning false aborts the wait.
type WaitCallback func() bool

// Config collects the explicit, programmatic configuration a Session
// is built from. There is no file or environment-variable
// configuration surface.
type Config struct {
	Login    string
	Passcode string
	Host     string // vhost, sent as CONNECT's "host" header
	ClientID string

	Versions []Version // acceptable versions, in the order offered

	HeartBeatSend uint // ms this client promises to send at
	HeartBeatRecv uint // ms this client asks to receive at

	// Sync holds a synchronous-send setting (true in DefaultConfig).
	// Client.Send does not read it: each call's sync argument alone
	// decides whether Send waits for a receipt.
	Sync bool

	ConnectTimeout time.Duration
	ReceiptWait    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxReadBytes   int
	MaxWriteBytes  int

	TLSConfig *tls.Config

	DialectName   Name
	DialectTuning Tuning

	Randomize bool // shuffle failover endpoints before connecting

	WaitCallback WaitCallback
	Logger       Logger
}

// DefaultConfig returns a Config with sensible defaults: accept all
// three versions, 8 KiB read/write chunking, sync sends, no heartbeat
// requested.
func DefaultConfig() Config {
	return Config{
		Versions:       append([]Version(nil), SupportedVersions...),
		Sync:           true,
		ConnectTimeout: DefaultConnectTimeout,
		ReceiptWait:    DefaultReceiptWait,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		MaxReadBytes:   DefaultMaxReadBytes,
		MaxWriteBytes:  DefaultMaxWriteBytes,
		Logger:         defaultLogger(),
	}
}

// Option configures a Config in place.
type Option func(*Config)

// WithLogin sets the CONNECT login/passcode.
func WithLogin(login, passcode string) Option {
	return func(c *Config) { c.Login, c.Passcode = login, passcode }
}

// WithHost sets the CONNECT "host" (vhost) header.
func WithHost(host string) Option {
	return func(c *Config) { c.Host = host }
}

// WithClientID sets the client-id used on CONNECT/DISCONNECT and, for
// ActiveMQ durable subscriptions, as the subscription name.
func WithClientID(id string) Option {
	return func(c *Config) { c.ClientID = id }
}

// WithHeartbeat sets the negotiated heartbeat tuple (send ms, receive
// ms) offered on CONNECT.
func WithHeartbeat(sendMs, recvMs uint) Option {
	return func(c *Config) { c.HeartBeatSend, c.HeartBeatRecv = sendMs, recvMs }
}

// WithSync sets Config.Sync.
func WithSync(sync bool) Option {
	return func(c *Config) { c.Sync = sync }
}

// WithConnectTimeout bounds socket establishment and awaiting CONNECTED.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ConnectTimeout = d }
}

// WithReceiptTimeout bounds a single synchronous send's receipt wait.
func WithReceiptTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReceiptWait = d }
}

// WithMaxReadBytes bounds the chunk size of a single socket read.
func WithMaxReadBytes(n int) Option {
	return func(c *Config) { c.MaxReadBytes = n }
}

// WithMaxWriteBytes bounds the chunk size of a single socket write.
func WithMaxWriteBytes(n int) Option {
	return func(c *Config) { c.MaxWriteBytes = n }
}

// WithTLSConfig supplies a pre-built TLS configuration; TLS
// configuration itself is out of scope for this library.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Config) { c.TLSConfig = cfg }
}

// WithDialect pins the broker dialect and its tuning knobs instead of
// relying on CONNECTED's "server" header for detection.
func WithDialect(name Name, tuning Tuning) Option {
	return func(c *Config) { c.DialectName, c.DialectTuning = name, tuning }
}

// WithRandomizeFailover toggles shuffling failover endpoints before the
// first connect attempt.
func WithRandomizeFailover(randomize bool) Option {
	return func(c *Config) { c.Randomize = randomize }
}

// WithWaitCallback installs a cooperative hook invoked between
// readiness polls during Connection.ReadFrame.
func WithWaitCallback(cb WaitCallback) Option {
	return func(c *Config) { c.WaitCallback = cb }
}

// WithLogger overrides the default logrus-backed Logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
