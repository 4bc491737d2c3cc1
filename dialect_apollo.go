package stomp

// apollo adapts generic for Apache Apollo, which tracks the generic
// STOMP 1.1/1.2 verb set closely enough that only dialect identity
// differs.
type apollo struct {
	generic
}

// NewApollo returns the Apollo dialect for the negotiated version.
func NewApollo(version Version) Protocol {
	return &apollo{generic: generic{version: version}}
}

func (a *apollo) Name() Name { return Apollo }
