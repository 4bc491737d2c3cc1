package stomp

// Well-known STOMP header names. Lookups against these are always
// case-insensitive (Frame.Header, Headers.Get); these constants exist
// so call sites never hand-spell a header name twice.
const (
	HKAcceptVersion  = "accept-version"
	HKAck            = "ack"
	HKClientID       = "client-id"
	HKContentLength  = "content-length"
	HKContentType    = "content-type"
	HKDestination    = "destination"
	HKHeartBeat      = "heart-beat"
	HKHost           = "host"
	HKID             = "id"
	HKLogin          = "login"
	HKMessage        = "message"
	HKMessageID      = "message-id"
	HKPasscode       = "passcode"
	HKReceipt        = "receipt"
	HKReceiptID      = "receipt-id"
	HKRequeue        = "requeue"
	HKSelector       = "selector"
	HKServer         = "server"
	HKSession        = "session"
	HKSubscription   = "subscription"
	HKTransaction    = "transaction"
	HKTransformation = "transformation"
	HKVersion        = "version"

	// Non-standard but broker-compatible extension headers letting a
	// caller suppress the library's default content-type/content-length
	// handling for one SEND.
	HKSuppressContentLength = "suppress-content-length"
	HKSuppressContentType   = "suppress-content-type"
)

// DefaultContentType is applied to outbound SEND frames that carry a
// body but specify no content-type, unless suppressed via
// HKSuppressContentType.
const DefaultContentType = "text/plain; charset=UTF-8"

// TransformationJSONMap is the recognized header value (case-insensitive)
// that marks a frame body as a JSON-encoded map.
const TransformationJSONMap = "jms-map-json"
