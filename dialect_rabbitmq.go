package stomp

import "strconv"

// rabbitMQ adapts generic for RabbitMQ's STOMP plugin extensions:
// prefetch-count on SUBSCRIBE, "persistent:true" on durable
// SUBSCRIBEs, and a NACK that accepts and forwards a requeue flag.
type rabbitMQ struct {
	generic
	prefetchCount int
}

// NewRabbitMQ returns the RabbitMQ dialect for the negotiated version.
func NewRabbitMQ(version Version, prefetchCount int) Protocol {
	return &rabbitMQ{generic: generic{version: version}, prefetchCount: prefetchCount}
}

func (r *rabbitMQ) Name() Name { return RabbitMQ }

func (r *rabbitMQ) Subscribe(opts SubscribeOptions) (*Frame, error) {
	if opts.Extra == nil {
		opts.Extra = map[string]string{}
	}
	if r.prefetchCount > 0 {
		opts.Extra["prefetch-count"] = strconv.Itoa(r.prefetchCount)
	}
	if opts.Durable {
		opts.Extra["persistent"] = "true"
	}
	return r.generic.Subscribe(opts)
}

func (r *rabbitMQ) Nack(received *Frame, transactionID string, requeue *bool) (*Frame, error) {
	f, err := r.generic.nackBase(received, transactionID)
	if err != nil {
		return nil, err
	}
	if requeue != nil {
		f.Headers.Set(HKRequeue, strconv.FormatBool(*requeue))
	}
	return f, nil
}
