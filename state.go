package stomp

// Session is the stateful façade over a Client: Producer, Consumer,
// ProducerInTx, ConsumerInTx, DrainingConsumer and DrainingConsumerInTx,
// each permitting a different legal-operation set. Session starts in
// Producer and has no terminal state. Session has no Disconnect of its
// own; Client.Disconnect closes the connection regardless of the
// Session's current state.
//
// The states themselves are stateless singleton-like values (no
// per-instance fields); all session-specific mutable data — the active
// transaction id, the subscription table — lives on Session, and each
// state's methods read/write it through the Session pointer they are
// called with. This is the "tagged variant + setState mediator"
// pattern: Session.setState is the only place a transition is applied,
// a named state interface per state rather than a single dispatch
// function.
type Session struct {
	client *Client
	subs   *SubscriptionTable
	state  sessionState
	txID   string
}

// NewSession wraps client in a Session starting in the Producer state.
func NewSession(client *Client) *Session {
	return &Session{client: client, subs: NewSubscriptionTable(), state: producerState{}}
}

// StateName reports the current state's name, for diagnostics.
func (s *Session) StateName() string { return s.state.name() }

func (s *Session) setState(next sessionState) { s.state = next }

// sessionState is the operation set available in one state. Every
// method is implemented by every state; states that do not permit an
// operation return an *InvalidState error naming themselves and the
// attempted operation.
type sessionState interface {
	name() string
	send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error
	subscribe(s *Session, opts SubscribeOptions) (*Subscription, error)
	unsubscribe(s *Session, id string) error
	ack(s *Session, received *Frame) error
	nack(s *Session, received *Frame, requeue *bool) error
	begin(s *Session) error
	commit(s *Session) error
	abort(s *Session) error
	read(s *Session) (*Frame, error)
}

func invalidOp(st sessionState, op string) error {
	return &InvalidState{State: st.name(), Operation: op}
}

// drainingOp reports op as forbidden specifically because the session
// is draining buffered consumer frames, distinct from an operation
// that is simply invalid in the current state.
func drainingOp(op string) error {
	return &DrainingMessage{Operation: op}
}

// Send transmits a SEND frame, injecting the active transaction header
// when called from an In-Transaction state.
func (s *Session) Send(destination string, body []byte, contentType string, sync bool, headers ...string) error {
	return s.state.send(s, destination, body, contentType, sync, headers...)
}

// Subscribe registers a new subscription and sends SUBSCRIBE. If
// opts.ID is empty, a process-allocated id is generated and released
// automatically when the subscription is later removed.
func (s *Session) Subscribe(opts SubscribeOptions) (*Subscription, error) {
	return s.state.subscribe(s, opts)
}

// Unsubscribe removes the subscription with id and sends UNSUBSCRIBE.
func (s *Session) Unsubscribe(id string) error {
	return s.state.unsubscribe(s, id)
}

// Ack sends ACK for a received MESSAGE frame.
func (s *Session) Ack(received *Frame) error {
	return s.state.ack(s, received)
}

// Nack sends NACK for a received MESSAGE frame. requeue is only
// meaningful to dialects that accept it (RabbitMQ); pass nil elsewhere.
func (s *Session) Nack(received *Frame, requeue *bool) error {
	return s.state.nack(s, received, requeue)
}

// Begin starts a transaction. Nested Begin calls are rejected.
func (s *Session) Begin() error {
	return s.state.begin(s)
}

// Commit commits the active transaction.
func (s *Session) Commit() error {
	return s.state.commit(s)
}

// Abort aborts the active transaction.
func (s *Session) Abort() error {
	return s.state.abort(s)
}

// Read returns the next frame available to this state.
func (s *Session) Read() (*Frame, error) {
	return s.state.read(s)
}

// beginCommon implements begin() for both non-transaction states:
// generate a fresh transaction id, send BEGIN, record it on Session.
func beginCommon(s *Session) error {
	id := newTransactionID()
	f := s.client.Dialect.Begin(id)
	if err := s.client.conn.WriteFrame(f); err != nil {
		return err
	}
	s.txID = id
	return nil
}

// endTx sends COMMIT or ABORT via sendFn and clears the transaction id
// from Session. Transaction ids are UUIDs, not drawn from the id
// allocator, so there is nothing to release.
func endTx(s *Session, sendFn func(id string) *Frame) error {
	f := sendFn(s.txID)
	if err := s.client.conn.WriteFrame(f); err != nil {
		return err
	}
	s.txID = ""
	return nil
}

// addSubscription allocates an id if needed, sends SUBSCRIBE, and
// records the resulting Subscription on success.
func addSubscription(s *Session, opts SubscribeOptions) (*Subscription, error) {
	var release func()
	if opts.ID == "" {
		id, rel, err := NextSubscriptionID()
		if err != nil {
			return nil, err
		}
		opts.ID = id
		release = rel
	}
	opts.ClientID = s.client.cfg.ClientID

	f, err := s.client.Dialect.Subscribe(opts)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}
	if err := s.client.conn.WriteFrame(f); err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}

	sub := &Subscription{
		ID:          opts.ID,
		Destination: opts.Destination,
		Ack:         opts.Ack,
		Selector:    opts.Selector,
		release:     release,
	}
	s.subs.Add(sub)
	return sub, nil
}

// removeSubscription removes the subscription, sends UNSUBSCRIBE, and
// reports whether it was the last one remaining.
func removeSubscription(s *Session, id string) (wasLast bool, err error) {
	sub := s.subs.FindByID(id)
	if sub == nil {
		return false, &ProtocolError{Reason: "no active subscription with id " + id}
	}
	f := s.client.Dialect.Unsubscribe(id, sub.Destination)
	if err := s.client.conn.WriteFrame(f); err != nil {
		return false, err
	}
	s.subs.RemoveByID(id)
	sub.Release()
	return s.subs.Len() == 0, nil
}
