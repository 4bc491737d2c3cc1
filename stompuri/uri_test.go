package stompuri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleEndpointDefaultPort(t *testing.T) {
	target, err := Parse("tcp://broker.example.com")
	require.NoError(t, err)
	require.Len(t, target.Endpoints, 1)
	assert.Equal(t, "tcp", target.Endpoints[0].Scheme)
	assert.Equal(t, "broker.example.com", target.Endpoints[0].Host)
	assert.Equal(t, DefaultPort, target.Endpoints[0].Port)
	assert.False(t, target.Randomize)
}

func TestParseSingleEndpointExplicitPort(t *testing.T) {
	target, err := Parse("tcp://broker.example.com:61614")
	require.NoError(t, err)
	require.Len(t, target.Endpoints, 1)
	assert.Equal(t, 61614, target.Endpoints[0].Port)
}

func TestParseFailoverList(t *testing.T) {
	target, err := Parse("failover://(tcp://a:61613,tcp://b:61614)?randomize=true")
	require.NoError(t, err)
	require.Len(t, target.Endpoints, 2)
	assert.Equal(t, "a", target.Endpoints[0].Host)
	assert.Equal(t, 61613, target.Endpoints[0].Port)
	assert.Equal(t, "b", target.Endpoints[1].Host)
	assert.Equal(t, 61614, target.Endpoints[1].Port)
	assert.True(t, target.Randomize)
}

func TestParseFailoverDefaultsRandomizeFalse(t *testing.T) {
	target, err := Parse("failover://(tcp://a,tcp://b)")
	require.NoError(t, err)
	assert.False(t, target.Randomize)
}

func TestParseFailoverRejectsMissingParen(t *testing.T) {
	_, err := Parse("failover://tcp://a:61613")
	assert.Error(t, err)
}

func TestParseFailoverRejectsEmptyList(t *testing.T) {
	_, err := Parse("failover://()")
	assert.Error(t, err)
}

func TestParseRejectsMissingHost(t *testing.T) {
	_, err := Parse("tcp://")
	assert.Error(t, err)
}

func TestEndpointString(t *testing.T) {
	ep := Endpoint{Scheme: "tcp", Host: "broker", Port: 61613}
	assert.Equal(t, "tcp://broker:61613", ep.String())
}
