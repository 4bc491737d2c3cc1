package stomp

import (
	"container/list"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession returns a Session wired to a net.Pipe whose server side
// is continuously drained in the background, so WriteFrame calls made by
// state transitions never block waiting for a reader.
func newTestSession(t *testing.T, version Version) (*Session, *Connection) {
	t.Helper()
	client, server := net.Pipe()
	conn := &Connection{
		conn:          client,
		parser:        NewParser(),
		ActiveHost:    "pipe",
		connected:     true,
		readTimeout:   20 * time.Millisecond,
		writeTimeout:  time.Second,
		maxReadBytes:  4096,
		maxWriteBytes: 4096,
	}
	conn.parser.OnHeartbeat = func() { conn.observers.emptyLineRead() }

	go io.Copy(io.Discard, server)
	t.Cleanup(func() { server.Close() })

	c := &Client{
		conn:        conn,
		cfg:         NewConfig(),
		parser:      conn.parser,
		Version:     version,
		Dialect:     NewGeneric(version),
		unprocessed: list.New(),
	}
	return NewSession(c), conn
}

// sentFrameRecorder is an Observer that keeps every frame the
// Connection reports as sent.
type sentFrameRecorder struct {
	NopObserver
	frames []*Frame
}

func (r *sentFrameRecorder) SentFrame(f *Frame) { r.frames = append(r.frames, f) }

func TestScenarioS6SubscribeThenUnsubscribeWithEmptyBuffer(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	assert.Equal(t, "Producer", s.StateName())

	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "Consumer", s.StateName())

	err = s.Unsubscribe(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Producer", s.StateName())
}

func TestProducerRejectsUnsubscribeAckNackCommitAbortRead(t *testing.T) {
	s, _ := newTestSession(t, V1_2)

	var ist *InvalidState
	require.ErrorAs(t, s.Unsubscribe("1"), &ist)
	require.ErrorAs(t, s.Ack(NewFrame(MESSAGE)), &ist)
	require.ErrorAs(t, s.Nack(NewFrame(MESSAGE), nil), &ist)
	require.ErrorAs(t, s.Commit(), &ist)
	require.ErrorAs(t, s.Abort(), &ist)
	_, err := s.Read()
	require.ErrorAs(t, err, &ist)
}

func TestProducerBeginTransitionsToProducerInTx(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	require.NoError(t, s.Begin())
	assert.Equal(t, "ProducerInTx", s.StateName())
}

func TestProducerInTxRejectsNestedBeginAndSubscribeIsLegal(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	require.NoError(t, s.Begin())

	var ist *InvalidState
	require.ErrorAs(t, s.Begin(), &ist)

	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "ConsumerInTx", s.StateName())
}

func TestProducerInTxCommitReturnsToProducer(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	require.NoError(t, s.Begin())
	require.NoError(t, s.Commit())
	assert.Equal(t, "Producer", s.StateName())
}

func TestProducerInTxAbortReturnsToProducer(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	require.NoError(t, s.Begin())
	require.NoError(t, s.Abort())
	assert.Equal(t, "Producer", s.StateName())
}

func TestConsumerAckNackLegalAndUnsubscribeToProducerWhenEmpty(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckClient})
	require.NoError(t, err)

	received := NewFrame(MESSAGE, HKMessageID, "m-1")
	require.NoError(t, s.Ack(received))
	require.NoError(t, s.Nack(received, nil))

	require.NoError(t, s.Unsubscribe(sub.ID))
	assert.Equal(t, "Producer", s.StateName())
}

func TestConsumerUnsubscribeGoesToDrainingWhenBufferNonEmpty(t *testing.T) {
	s, conn := newTestSession(t, V1_2)
	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)

	conn.parser.AddData([]byte("MESSAGE\nmessage-id:m-1\n\nbody\x00"))

	require.NoError(t, s.Unsubscribe(sub.ID))
	assert.Equal(t, "DrainingConsumer", s.StateName())

	f, err := s.Read()
	require.NoError(t, err)
	require.NotNil(t, f)

	f, err = s.Read()
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, "Producer", s.StateName())
}

func TestConsumerRejectsCommitAbort(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	_, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)

	var ist *InvalidState
	require.ErrorAs(t, s.Commit(), &ist)
	require.ErrorAs(t, s.Abort(), &ist)
}

func TestConsumerInTxSendIsTaggedWithTransaction(t *testing.T) {
	s, conn := newTestSession(t, V1_2)
	_, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	require.NoError(t, s.Begin())
	assert.Equal(t, "ConsumerInTx", s.StateName())

	rec := &sentFrameRecorder{}
	conn.AddObserver(rec)
	err = s.Send("/queue/b", []byte("x"), "", false)
	require.NoError(t, err)
	assert.NotEmpty(t, conn.ActiveHost) // sanity: connection still active through the send
	require.Len(t, rec.frames, 1)
	tx, ok := rec.frames[0].Header(HKTransaction)
	require.True(t, ok)
	assert.Equal(t, s.txID, tx)
}

func TestConsumerInTxCommitReturnsToConsumer(t *testing.T) {
	s, _ := newTestSession(t, V1_2)
	_, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	require.NoError(t, s.Begin())
	require.NoError(t, s.Commit())
	assert.Equal(t, "Consumer", s.StateName())
}

func TestDrainingConsumerInTxRejectsSend(t *testing.T) {
	s, conn := newTestSession(t, V1_2)
	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	require.NoError(t, s.Begin())

	conn.parser.AddData([]byte("MESSAGE\nmessage-id:m-1\n\nbody\x00"))
	require.NoError(t, s.Unsubscribe(sub.ID))
	assert.Equal(t, "DrainingConsumerInTx", s.StateName())

	var ist *InvalidState
	require.ErrorAs(t, s.Send("/queue/b", []byte("x"), "", false), &ist)

	received := NewFrame(MESSAGE, HKMessageID, "m-2")
	require.NoError(t, s.Ack(received))

	_, err = s.Read()
	require.NoError(t, err)
	_, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, "ProducerInTx", s.StateName())
}

func TestDrainingConsumerRejectsSubscribeAndBeginWithDrainingMessage(t *testing.T) {
	s, conn := newTestSession(t, V1_2)
	sub, err := s.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)

	conn.parser.AddData([]byte("MESSAGE\nmessage-id:m-1\n\nbody\x00"))
	require.NoError(t, s.Unsubscribe(sub.ID))
	assert.Equal(t, "DrainingConsumer", s.StateName())

	var dm *DrainingMessage
	_, err = s.Subscribe(SubscribeOptions{Destination: "/queue/b", Ack: AckAuto})
	require.ErrorAs(t, err, &dm)
	require.ErrorAs(t, s.Begin(), &dm)

	// an operation absent from the legal set for an unrelated reason
	// (no active transaction to commit) still raises InvalidState, not
	// DrainingMessage.
	var ist *InvalidState
	require.ErrorAs(t, s.Commit(), &ist)
}

func TestSubscriptionIDGeneratorConcurrentAllocateRelease(t *testing.T) {
	const n = 64
	ids := make(chan string, n)
	releases := make(chan func(), n)
	for i := 0; i < n; i++ {
		go func() {
			id, release, err := NextSubscriptionID()
			require.NoError(t, err)
			ids <- id
			releases <- release
		}()
	}
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	for i := 0; i < n; i++ {
		(<-releases)()
	}
}
