package stomp

// AckMode is one of the values legal in a SUBSCRIBE frame's "ack"
// header. client-individual is only legal at STOMP 1.1+.
type AckMode string

// Supported ack modes.
const (
	AckAuto             AckMode = "auto"
	AckClient           AckMode = "client"
	AckClientIndividual AckMode = "client-individual"
)
