// Per-version, per-broker construction of outbound STOMP verb frames:
// CONNECT, SUBSCRIBE, UNSUBSCRIBE, ACK, NACK, BEGIN, COMMIT, ABORT,
// DISCONNECT. A Protocol is selected once CONNECTED reports a
// negotiated version and, optionally, a "server" header identifying
// the broker.
package stomp

import "strings"

// Name identifies a dialect for selection and diagnostics.
type Name string

// Recognized dialects.
const (
	Generic  Name = "generic"
	ActiveMQ Name = "activemq"
	RabbitMQ Name = "rabbitmq"
	Apollo   Name = "apollo"
)

// ConnectOptions configures an outbound CONNECT/STOMP frame.
type ConnectOptions struct {
	Login     string
	Passcode  string
	Host      string
	ClientID  string
	Versions  []Version
	HeartBeat [2]uint // send ms, receive ms
}

// SubscribeOptions configures an outbound SUBSCRIBE frame.
type SubscribeOptions struct {
	Destination string
	Ack         AckMode
	ID          string
	Selector    string
	Durable     bool
	ClientID    string // session client-id, used by durable ActiveMQ subscriptions
	Extra       map[string]string // broker-specific extension headers
}

// Tuning carries the broker-specific tuning knobs SelectDialect applies.
type Tuning struct {
	ActiveMQPrefetchSize  int
	RabbitMQPrefetchCount int
}

// Protocol builds outbound verb frames for one negotiated STOMP version
// and one broker dialect.
type Protocol interface {
	Name() Name
	Version() Version

	Connect(opts ConnectOptions) *Frame
	Subscribe(opts SubscribeOptions) (*Frame, error)
	Unsubscribe(id, destination string) *Frame
	Begin(transactionID string) *Frame
	Commit(transactionID string) *Frame
	Abort(transactionID string) *Frame
	Disconnect(clientID string) *Frame
	Ack(received *Frame, transactionID string) (*Frame, error)
	Nack(received *Frame, transactionID string, requeue *bool) (*Frame, error)
}

// SelectDialect returns the named dialect's Protocol for the given
// negotiated version, applying the relevant broker tuning knobs.
func SelectDialect(name Name, version Version, tuning Tuning) Protocol {
	switch name {
	case ActiveMQ:
		return NewActiveMQ(version, tuning.ActiveMQPrefetchSize)
	case RabbitMQ:
		return NewRabbitMQ(version, tuning.RabbitMQPrefetchCount)
	case Apollo:
		return NewApollo(version)
	default:
		return NewGeneric(version)
	}
}

// DetectDialect maps a CONNECTED "server" header value to a dialect
// Name, defaulting to Generic when unrecognized.
func DetectDialect(serverHeader string) Name {
	lower := strings.ToLower(serverHeader)
	switch {
	case strings.Contains(lower, "activemq"):
		return ActiveMQ
	case strings.Contains(lower, "rabbitmq"):
		return RabbitMQ
	case strings.Contains(lower, "apollo"):
		return Apollo
	default:
		return Generic
	}
}
