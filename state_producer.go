package stomp

// producerState permits only send, subscribe (→ Consumer) and begin
// (→ ProducerInTx); Producer row.
type producerState struct{}

func (producerState) name() string { return "Producer" }

func (producerState) send(s *Session, destination string, body []byte, contentType string, sync bool, headers ...string) error {
	return s.client.Send(destination, body, contentType, sync, headers...)
}

func (st producerState) subscribe(s *Session, opts SubscribeOptions) (*Subscription, error) {
	sub, err := addSubscription(s, opts)
	if err != nil {
		return nil, err
	}
	s.setState(consumerState{})
	return sub, nil
}

func (st producerState) unsubscribe(s *Session, id string) error {
	return invalidOp(st, "unsubscribe")
}

func (st producerState) ack(s *Session, received *Frame) error {
	return invalidOp(st, "ack")
}

func (st producerState) nack(s *Session, received *Frame, requeue *bool) error {
	return invalidOp(st, "nack")
}

func (st producerState) begin(s *Session) error {
	if err := beginCommon(s); err != nil {
		return err
	}
	s.setState(producerInTxState{})
	return nil
}

func (st producerState) commit(s *Session) error {
	return invalidOp(st, "commit")
}

func (st producerState) abort(s *Session) error {
	return invalidOp(st, "abort")
}

func (st producerState) read(s *Session) (*Frame, error) {
	return nil, invalidOp(st, "read")
}
