package stomp

import "strings"

// Version is a negotiated STOMP protocol version. Versions are totally
// ordered; HasVersion reports self >= other. A session's Version is
// fixed once CONNECTED is received.
type Version string

// Supported protocol versions.
const (
	V1_0 Version = "1.0"
	V1_1 Version = "1.1"
	V1_2 Version = "1.2"
)

var versionRank = map[Version]int{
	V1_0: 0,
	V1_1: 1,
	V1_2: 2,
}

// SupportedVersions lists every version this library negotiates, in
// ascending order.
var SupportedVersions = []Version{V1_0, V1_1, V1_2}

// Valid reports whether v is one of the recognized protocol versions.
func (v Version) Valid() bool {
	_, ok := versionRank[v]
	return ok
}

// HasVersion reports whether v is at least as new as other. An invalid
// version compares as older than every valid version.
func (v Version) HasVersion(other Version) bool {
	rank, ok := versionRank[v]
	if !ok {
		return false
	}
	return rank >= versionRank[other]
}

// AcceptVersionHeader joins versions into the comma-separated value
// expected by CONNECT's "accept-version" header.
func AcceptVersionHeader(versions []Version) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

// ParseVersion validates and returns a Version, or ok=false if s is not
// one of the versions this library understands.
func ParseVersion(s string) (Version, bool) {
	v := Version(s)
	return v, v.Valid()
}
