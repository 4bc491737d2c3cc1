package stomp

import "strconv"

// generic implements the baseline STOMP 1.0/1.1/1.2 verb construction
// with no broker-specific extension headers. ActiveMQ,
// RabbitMQ and Apollo embed generic and override only the handful of
// verbs each broker tweaks.
type generic struct {
	version Version
}

// NewGeneric returns the baseline dialect for the negotiated version.
func NewGeneric(version Version) Protocol {
	return &generic{version: version}
}

func (g *generic) Name() Name       { return Generic }
func (g *generic) Version() Version { return g.version }

func (g *generic) Connect(opts ConnectOptions) *Frame {
	f := NewFrame(CONNECT)
	f.Legacy = true // CONNECT always uses legacy-mode framing,
	if opts.Login != "" || opts.Passcode != "" {
		f.Headers.Set(HKLogin, opts.Login)
		f.Headers.Set(HKPasscode, opts.Passcode)
	}
	if opts.ClientID != "" {
		f.Headers.Set(HKClientID, opts.ClientID)
	}
	if len(opts.Versions) > 0 {
		f.Headers.Set(HKAcceptVersion, AcceptVersionHeader(opts.Versions))
	}
	if opts.Host != "" {
		f.Headers.Set(HKHost, opts.Host)
	}
	f.Headers.Set(HKHeartBeat, strconv.FormatUint(uint64(opts.HeartBeat[0]), 10)+","+strconv.FormatUint(uint64(opts.HeartBeat[1]), 10))
	return f
}

// validAckModes returns the legal SUBSCRIBE "ack" values for version:
// {auto,client} at 1.0, plus client-individual at 1.1+.
func validAckModes(version Version) map[AckMode]bool {
	modes := map[AckMode]bool{AckAuto: true, AckClient: true}
	if version.HasVersion(V1_1) {
		modes[AckClientIndividual] = true
	}
	return modes
}

func (g *generic) Subscribe(opts SubscribeOptions) (*Frame, error) {
	if !validAckModes(g.version)[opts.Ack] {
		return nil, &ProtocolError{Reason: "invalid ack mode " + string(opts.Ack) + " for STOMP " + string(g.version)}
	}
	f := NewFrame(SUBSCRIBE)
	f.Headers.Set(HKDestination, opts.Destination)
	f.Headers.Set(HKAck, string(opts.Ack))
	if opts.ID != "" {
		f.Headers.Set(HKID, opts.ID)
	}
	if opts.Selector != "" {
		f.Headers.Set(HKSelector, opts.Selector)
	}
	applyExtra(f, opts.Extra)
	return f, nil
}

func applyExtra(f *Frame, extra map[string]string) {
	for k, v := range extra {
		f.Headers.Set(k, v)
	}
}

func (g *generic) Unsubscribe(id, destination string) *Frame {
	f := NewFrame(UNSUBSCRIBE)
	if id != "" {
		f.Headers.Set(HKID, id)
	}
	if destination != "" {
		f.Headers.Set(HKDestination, destination)
	}
	return f
}

func (g *generic) Begin(transactionID string) *Frame {
	f := NewFrame(BEGIN)
	f.Headers.Set(HKTransaction, transactionID)
	return f
}

func (g *generic) Commit(transactionID string) *Frame {
	f := NewFrame(COMMIT)
	f.Headers.Set(HKTransaction, transactionID)
	return f
}

func (g *generic) Abort(transactionID string) *Frame {
	f := NewFrame(ABORT)
	f.Headers.Set(HKTransaction, transactionID)
	return f
}

func (g *generic) Disconnect(clientID string) *Frame {
	f := NewFrame(DISCONNECT)
	if clientID != "" {
		f.Headers.Set(HKClientID, clientID)
	}
	return f
}

// ackID resolves the id ACK/NACK must carry for the received MESSAGE:
// at 1.2 prefer the message's own "ack" header, falling back to
// "message-id"; below 1.2 "message-id" only.
func (g *generic) ackID(received *Frame) (string, error) {
	if g.version.HasVersion(V1_2) {
		if id, ok := received.Header(HKAck); ok {
			return id, nil
		}
		if id, ok := received.Header(HKMessageID); ok {
			return id, nil
		}
		return "", &ProtocolError{Reason: "MESSAGE frame carries neither ack nor message-id header"}
	}
	if id, ok := received.Header(HKMessageID); ok {
		return id, nil
	}
	return "", &ProtocolError{Reason: "MESSAGE frame missing message-id header"}
}

func (g *generic) Ack(received *Frame, transactionID string) (*Frame, error) {
	f := NewFrame(ACK)
	switch {
	case g.version.HasVersion(V1_2):
		id, err := g.ackID(received)
		if err != nil {
			return nil, err
		}
		f.Headers.Set(HKID, id)
	case g.version == V1_1:
		msgID, ok := received.Header(HKMessageID)
		if !ok {
			return nil, &ProtocolError{Reason: "MESSAGE frame missing message-id header"}
		}
		f.Headers.Set(HKMessageID, msgID)
		if sub, ok := received.Header(HKSubscription); ok {
			f.Headers.Set(HKSubscription, sub)
		}
	default: // V1_0
		msgID, ok := received.Header(HKMessageID)
		if !ok {
			return nil, &ProtocolError{Reason: "MESSAGE frame missing message-id header"}
		}
		f.Headers.Set(HKMessageID, msgID)
	}
	if transactionID != "" {
		f.Headers.Set(HKTransaction, transactionID)
	}
	return f, nil
}

// nackBase builds the NACK frame common to every dialect; it takes no
// requeue parameter, so each dialect's Nack decides whether to reject
// or forward one.
func (g *generic) nackBase(received *Frame, transactionID string) (*Frame, error) {
	if !g.version.HasVersion(V1_1) {
		return nil, &ProtocolError{Reason: "NACK is not available at STOMP 1.0"}
	}
	f := NewFrame(NACK)
	switch {
	case g.version.HasVersion(V1_2):
		id, err := g.ackID(received)
		if err != nil {
			return nil, err
		}
		f.Headers.Set(HKID, id)
	default: // V1_1
		msgID, ok := received.Header(HKMessageID)
		if !ok {
			return nil, &ProtocolError{Reason: "MESSAGE frame missing message-id header"}
		}
		f.Headers.Set(HKMessageID, msgID)
		if sub, ok := received.Header(HKSubscription); ok {
			f.Headers.Set(HKSubscription, sub)
		}
	}
	if transactionID != "" {
		f.Headers.Set(HKTransaction, transactionID)
	}
	return f, nil
}

func (g *generic) Nack(received *Frame, transactionID string, requeue *bool) (*Frame, error) {
	if requeue != nil {
		return nil, &ProtocolError{Reason: "requeue is not supported by the generic dialect"}
	}
	return g.nackBase(received, transactionID)
}
