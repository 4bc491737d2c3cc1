package stomp

import "strconv"

// activeMQ adapts generic for ActiveMQ's Apache broker extensions:
// prefetch-size on SUBSCRIBE, durable subscriptions keyed off
// activemq.subscriptionName, and a NACK that does not accept a requeue
// parameter (ActiveMQ always requeues on NACK).
type activeMQ struct {
	generic
	prefetchSize int
}

// NewActiveMQ returns the ActiveMQ dialect for the negotiated version.
func NewActiveMQ(version Version, prefetchSize int) Protocol {
	return &activeMQ{generic: generic{version: version}, prefetchSize: prefetchSize}
}

func (a *activeMQ) Name() Name { return ActiveMQ }

func (a *activeMQ) Subscribe(opts SubscribeOptions) (*Frame, error) {
	if opts.Extra == nil {
		opts.Extra = map[string]string{}
	}
	if a.prefetchSize > 0 {
		opts.Extra["activemq.prefetchSize"] = strconv.Itoa(a.prefetchSize)
	}
	if opts.Durable {
		opts.Extra["activemq.subscriptionName"] = opts.ClientID
		opts.Extra["durable-subscriber-name"] = opts.ClientID
	}
	return a.generic.Subscribe(opts)
}

func (a *activeMQ) Nack(received *Frame, transactionID string, requeue *bool) (*Frame, error) {
	if requeue != nil {
		return nil, &ProtocolError{Reason: "ActiveMQ NACK always requeues; it does not accept a requeue parameter"}
	}
	return a.generic.nackBase(received, transactionID)
}
