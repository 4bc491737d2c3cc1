package stomp

import "github.com/google/uuid"

// newReceiptID returns a fresh globally unique string suitable for a
// "receipt" header. Using a UUID (rather than a small process-local
// counter) means receipt ids never collide across processes sharing a
// broker's RECEIPT stream, which matters once multiple independent
// client processes log against the same broker.
func newReceiptID() string {
	return uuid.NewString()
}

// newTransactionID returns a fresh globally unique string suitable for
// a "transaction" header, generated the same way as receipt ids.
func newTransactionID() string {
	return uuid.NewString()
}
