// Package stomp implements a client for the STOMP (Simple Text Oriented
// Messaging Protocol) wire protocol, versions 1.0, 1.1 and 1.2, with
// broker-specific dialects for ActiveMQ, RabbitMQ and Apache Apollo.
//
// The package establishes a framed text session to a broker over a
// byte-stream transport (plain TCP or TLS), negotiates protocol version
// and heartbeat, and exposes a producer/consumer API with transactional
// semantics through Session.
//
// A Session runs on a single cooperating flow of control: the Client,
// Parser, Connection and state machine form one logical actor, and
// concurrent callers against the same Session must serialize externally.
// Multiple independent Sessions may run in separate goroutines; they
// share no mutable state except the process-wide subscription id
// allocator.
package stomp
