package stomp

// drainingConsumerState is entered when the last subscription is
// removed while frames remain buffered: send/ack/nack stay legal, but
// subscribe/begin are rejected, and read drains the buffer until
// empty, at which point it auto-transitions to Producer.
type drainingConsumerState struct{}

func (drainingConsumerState) name() string { return "DrainingConsumer" }

func (drainingConsumerState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	return s.client.Send(destination, body, contentType, sync, headers...)
}

func (st drainingConsumerState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	return nil, drainingOp("subscribe")
}

func (st drainingConsumerState) unsubscribe(s *Session, id string) error {
	return invalidOp(st, "unsubscribe")
}

func (drainingConsumerState) ack(s *Session, received *Frame) error {
	f, err := s.client.Dialect.Ack(received, "")
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (drainingConsumerState) nack(s *Session, received *Frame, requeue *bool) error {
	f, err := s.client.Dialect.Nack(received, "", requeue)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (st drainingConsumerState) begin(s *Session) error {
	return drainingOp("begin")
}

func (st drainingConsumerState) commit(s *Session) error {
	return invalidOp(st, "commit")
}

func (st drainingConsumerState) abort(s *Session) error {
	return invalidOp(st, "abort")
}

func (drainingConsumerState) read(s *Session) (*Frame, error) {
	f, err := s.client.drainBuffered()
	if err != nil {
		return nil, err
	}
	if f == nil {
		s.setState(producerState{})
		return nil, nil
	}
	return f, nil
}

// drainingConsumerInTxState is consumerInTxState's counterpart: entered
// when the last subscription is removed mid-transaction while frames
// remain buffered. Only ack/nack and read stay legal; send, subscribe,
// begin, commit and abort are all rejected until draining finishes and
// the session falls back to ProducerInTx.
type drainingConsumerInTxState struct{}

func (drainingConsumerInTxState) name() string { return "DrainingConsumerInTx" }

func (st drainingConsumerInTxState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	return invalidOp(st, "send")
}

func (st drainingConsumerInTxState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	return nil, drainingOp("subscribe")
}

func (st drainingConsumerInTxState) unsubscribe(s *Session, id string) error {
	return invalidOp(st, "unsubscribe")
}

func (drainingConsumerInTxState) ack(s *Session, received *Frame) error {
	f, err := s.client.Dialect.Ack(received, s.txID)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (drainingConsumerInTxState) nack(s *Session, received *Frame, requeue *bool) error {
	f, err := s.client.Dialect.Nack(received, s.txID, requeue)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (st drainingConsumerInTxState) begin(s *Session) error {
	return drainingOp("begin")
}

func (st drainingConsumerInTxState) commit(s *Session) error {
	return drainingOp("commit")
}

func (st drainingConsumerInTxState) abort(s *Session) error {
	return drainingOp("abort")
}

func (drainingConsumerInTxState) read(s *Session) (*Frame, error) {
	f, err := s.client.drainBuffered()
	if err != nil {
		return nil, err
	}
	if f == nil {
		s.setState(producerInTxState{})
		return nil, nil
	}
	return f, nil
}
