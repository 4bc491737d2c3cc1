package stomp

// consumerState permits send, ack/nack, read, further subscribe
// (stays Consumer), unsubscribe (→ Producer or DrainingConsumer
// depending on whether frames remain buffered), and begin (→
// ConsumerInTx); Consumer row.
type consumerState struct{}

func (consumerState) name() string { return "Consumer" }

func (consumerState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	return s.client.Send(destination, body, contentType, sync, headers...)
}

func (consumerState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	return addSubscription(s, opts)
}

func (consumerState) unsubscribe(s *Session, id string) error {
	wasLast, err := removeSubscription(s, id)
	if err != nil {
		return err
	}
	if !wasLast {
		return nil
	}
	if s.client.buffersEmpty() {
		s.setState(producerState{})
	} else {
		s.setState(drainingConsumerState{})
	}
	return nil
}

func (consumerState) ack(s *Session, received *Frame) error {
	f, err := s.client.Dialect.Ack(received, "")
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (consumerState) nack(s *Session, received *Frame, requeue *bool) error {
	f, err := s.client.Dialect.Nack(received, "", requeue)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (st consumerState) begin(s *Session) error {
	if err := beginCommon(s); err != nil {
		return err
	}
	s.setState(consumerInTxState{})
	return nil
}

func (st consumerState) commit(s *Session) error {
	return invalidOp(st, "commit")
}

func (st consumerState) abort(s *Session) error {
	return invalidOp(st, "abort")
}

func (consumerState) read(s *Session) (*Frame, error) {
	return s.client.ReadFrame()
}
