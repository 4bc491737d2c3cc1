package stomp

// consumerInTxState permits send/ack/nack (all tagged with the active
// transaction), read, further subscribe (stays ConsumerInTx),
// unsubscribe (→ ProducerInTx or DrainingConsumerInTx), and
// commit/abort (→ Consumer); nested begin is rejected;
// ConsumerInTx row.
type consumerInTxState struct{}

func (consumerInTxState) name() string { return "ConsumerInTx" }

func (st consumerInTxState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	headers = append(append([]string(nil), headers...), HKTransaction, s.txID)
	return s.client.Send(destination, body, contentType, sync, headers...)
}

func (consumerInTxState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	return addSubscription(s, opts)
}

func (consumerInTxState) unsubscribe(s *Session, id string) error {
	wasLast, err := removeSubscription(s, id)
	if err != nil {
		return err
	}
	if !wasLast {
		return nil
	}
	if s.client.buffersEmpty() {
		s.setState(producerInTxState{})
	} else {
		s.setState(drainingConsumerInTxState{})
	}
	return nil
}

func (consumerInTxState) ack(s *Session, received *Frame) error {
	f, err := s.client.Dialect.Ack(received, s.txID)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (consumerInTxState) nack(s *Session, received *Frame, requeue *bool) error {
	f, err := s.client.Dialect.Nack(received, s.txID, requeue)
	if err != nil {
		return err
	}
	return s.client.conn.WriteFrame(f)
}

func (st consumerInTxState) begin(s *Session) error {
	return invalidOp(st, "begin")
}

func (consumerInTxState) commit(s *Session) error {
	if err := endTx(s, s.client.Dialect.Commit); err != nil {
		return err
	}
	s.setState(consumerState{})
	return nil
}

func (consumerInTxState) abort(s *Session) error {
	if err := endTx(s, s.client.Dialect.Abort); err != nil {
		return err
	}
	s.setState(consumerState{})
	return nil
}

func (consumerInTxState) read(s *Session) (*Frame, error) {
	return s.client.ReadFrame()
}
