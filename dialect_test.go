package stomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFrame(headers ...string) *Frame {
	return NewFrame(MESSAGE, headers...)
}

func TestGenericAckIDPrefersAckHeaderAt12(t *testing.T) {
	g := NewGeneric(V1_2)
	f := messageFrame(HKAck, "ack-123", HKMessageID, "msg-456")
	out, err := g.Ack(f, "")
	require.NoError(t, err)
	id, ok := out.Header(HKID)
	require.True(t, ok)
	assert.Equal(t, "ack-123", id)
}

func TestGenericAckFallsBackToMessageIDAt12(t *testing.T) {
	g := NewGeneric(V1_2)
	f := messageFrame(HKMessageID, "msg-456")
	out, err := g.Ack(f, "")
	require.NoError(t, err)
	id, ok := out.Header(HKID)
	require.True(t, ok)
	assert.Equal(t, "msg-456", id)
}

func TestGenericAckAt11UsesMessageIDAndSubscription(t *testing.T) {
	g := NewGeneric(V1_1)
	f := messageFrame(HKMessageID, "msg-456", HKSubscription, "sub-1")
	out, err := g.Ack(f, "")
	require.NoError(t, err)
	_, hasID := out.Header(HKID)
	assert.False(t, hasID)
	msgID, _ := out.Header(HKMessageID)
	assert.Equal(t, "msg-456", msgID)
	sub, _ := out.Header(HKSubscription)
	assert.Equal(t, "sub-1", sub)
}

func TestGenericAckAt10UsesMessageIDOnly(t *testing.T) {
	g := NewGeneric(V1_0)
	f := messageFrame(HKMessageID, "msg-456")
	out, err := g.Ack(f, "tx-1")
	require.NoError(t, err)
	msgID, _ := out.Header(HKMessageID)
	assert.Equal(t, "msg-456", msgID)
	tx, _ := out.Header(HKTransaction)
	assert.Equal(t, "tx-1", tx)
}

func TestScenarioS5NackRejectedAtV10(t *testing.T) {
	g := NewGeneric(V1_0)
	f := messageFrame(HKMessageID, "msg-456")
	out, err := g.Nack(f, "", nil)
	assert.Nil(t, out)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestGenericNackRejectsRequeue(t *testing.T) {
	g := NewGeneric(V1_1)
	f := messageFrame(HKMessageID, "msg-456")
	requeue := true
	out, err := g.Nack(f, "", &requeue)
	assert.Nil(t, out)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestGenericSubscribeRejectsClientIndividualAt10(t *testing.T) {
	g := NewGeneric(V1_0)
	_, err := g.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckClientIndividual})
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestGenericSubscribeAllowsClientIndividualAt11(t *testing.T) {
	g := NewGeneric(V1_1)
	f, err := g.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckClientIndividual})
	require.NoError(t, err)
	ack, _ := f.Header(HKAck)
	assert.Equal(t, string(AckClientIndividual), ack)
}

func TestActiveMQSubscribeAddsPrefetchAndDurableHeaders(t *testing.T) {
	a := NewActiveMQ(V1_1, 100)
	f, err := a.Subscribe(SubscribeOptions{
		Destination: "/topic/a",
		Ack:         AckAuto,
		Durable:     true,
		ClientID:    "client-1",
	})
	require.NoError(t, err)
	prefetch, ok := f.Header("activemq.prefetchSize")
	require.True(t, ok)
	assert.Equal(t, "100", prefetch)
	subName, ok := f.Header("activemq.subscriptionName")
	require.True(t, ok)
	assert.Equal(t, "client-1", subName)
	durableName, ok := f.Header("durable-subscriber-name")
	require.True(t, ok)
	assert.Equal(t, "client-1", durableName)
}

func TestActiveMQSubscribeOmitsPrefetchWhenZero(t *testing.T) {
	a := NewActiveMQ(V1_1, 0)
	f, err := a.Subscribe(SubscribeOptions{Destination: "/queue/a", Ack: AckAuto})
	require.NoError(t, err)
	_, ok := f.Header("activemq.prefetchSize")
	assert.False(t, ok)
}

func TestActiveMQNackRejectsRequeue(t *testing.T) {
	a := NewActiveMQ(V1_1, 0)
	f := messageFrame(HKMessageID, "msg-1")
	requeue := false
	out, err := a.Nack(f, "", &requeue)
	assert.Nil(t, out)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestRabbitMQSubscribeAddsPrefetchCountAndPersistent(t *testing.T) {
	r := NewRabbitMQ(V1_1, 50)
	f, err := r.Subscribe(SubscribeOptions{
		Destination: "/queue/a",
		Ack:         AckAuto,
		Durable:     true,
	})
	require.NoError(t, err)
	count, ok := f.Header("prefetch-count")
	require.True(t, ok)
	assert.Equal(t, "50", count)
	persistent, ok := f.Header("persistent")
	require.True(t, ok)
	assert.Equal(t, "true", persistent)
}

func TestRabbitMQNackSetsRequeueHeader(t *testing.T) {
	r := NewRabbitMQ(V1_1, 0)
	f := messageFrame(HKMessageID, "msg-1")
	requeue := true
	out, err := r.Nack(f, "", &requeue)
	require.NoError(t, err)
	v, ok := out.Header(HKRequeue)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestRabbitMQNackWithoutRequeueOmitsHeader(t *testing.T) {
	r := NewRabbitMQ(V1_1, 0)
	f := messageFrame(HKMessageID, "msg-1")
	out, err := r.Nack(f, "", nil)
	require.NoError(t, err)
	_, ok := out.Header(HKRequeue)
	assert.False(t, ok)
}

func TestApolloUsesGenericBehavior(t *testing.T) {
	a := NewApollo(V1_2)
	assert.Equal(t, Apollo, a.Name())
	f := messageFrame(HKAck, "ack-1")
	out, err := a.Ack(f, "")
	require.NoError(t, err)
	id, _ := out.Header(HKID)
	assert.Equal(t, "ack-1", id)
}

func TestSelectDialectDispatchesByName(t *testing.T) {
	tuning := Tuning{ActiveMQPrefetchSize: 10, RabbitMQPrefetchCount: 20}
	assert.Equal(t, ActiveMQ, SelectDialect(ActiveMQ, V1_1, tuning).Name())
	assert.Equal(t, RabbitMQ, SelectDialect(RabbitMQ, V1_1, tuning).Name())
	assert.Equal(t, Apollo, SelectDialect(Apollo, V1_1, tuning).Name())
	assert.Equal(t, Generic, SelectDialect(Generic, V1_1, tuning).Name())
}

func TestDetectDialectFromServerHeader(t *testing.T) {
	assert.Equal(t, ActiveMQ, DetectDialect("apache-activemq/5.16.0"))
	assert.Equal(t, RabbitMQ, DetectDialect("RabbitMQ/3.9.0"))
	assert.Equal(t, Apollo, DetectDialect("apache-apollo/1.7"))
	assert.Equal(t, Generic, DetectDialect("unknown-broker/1.0"))
}
