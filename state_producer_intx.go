package stomp

// producerInTxState permits send (tagged with the active transaction),
// subscribe (→ ConsumerInTx), commit/abort (→ Producer); nested begin
// is rejected; ProducerInTx row.
type producerInTxState struct{}

func (producerInTxState) name() string { return "ProducerInTx" }

func (st producerInTxState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	headers = append(append([]string(nil), headers...), HKTransaction, s.txID)
	return s.client.Send(destination, body, contentType, sync, headers...)
}

func (producerInTxState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	sub, err := addSubscription(s, opts)
	if err != nil {
		return nil, err
	}
	s.setState(consumerInTxState{})
	return sub, nil
}

func (st producerInTxState) unsubscribe(s *Session, id string) error {
	return invalidOp(st, "unsubscribe")
}

func (st producerInTxState) ack(s *Session, received *Frame) error {
	return invalidOp(st, "ack")
}

func (st producerInTxState) nack(s *Session, received *Frame, requeue *bool) error {
	return invalidOp(st, "nack")
}

func (st producerInTxState) begin(s *Session) error {
	return invalidOp(st, "begin")
}

func (producerInTxState) commit(s *Session) error {
	if err := endTx(s, s.client.Dialect.Commit); err != nil {
		return err
	}
	s.setState(producerState{})
	return nil
}

func (producerInTxState) abort(s *Session) error {
	if err := endTx(s, s.client.Dialect.Abort); err != nil {
		return err
	}
	s.setState(producerState{})
	return nil
}

func (st producerInTxState) read(s *Session) (*Frame, error) {
	return nil, invalidOp(st, "read")
}
