// Package stompuri parses broker connection URIs: a single endpoint
// (scheme://host[:port]) or a failover list
// (failover://(url1,url2,...)?randomize=bool). It returns
// plain values (scheme, host, port) so the caller is free to dial them
// however it likes;
// it intentionally knows nothing about STOMP frames or sockets.
package stompuri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is used for any endpoint whose URI omits a port.
const DefaultPort = 61613

// Endpoint is one dialable broker address.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// String renders the endpoint back as scheme://host:port.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

// Target is the result of parsing a broker URI: one or more candidate
// endpoints plus the failover options that applied, if any.
type Target struct {
	Endpoints []Endpoint
	Randomize bool
}

// Parse parses raw as either a single endpoint URI or a
// failover://(...)?... URI. An unrecognized scheme on a single
// endpoint is preserved verbatim in Endpoint.Scheme for the caller's
// own transport selection.
func Parse(raw string) (Target, error) {
	if strings.HasPrefix(raw, "failover://") {
		return parseFailover(raw)
	}
	ep, err := parseEndpoint(raw)
	if err != nil {
		return Target{}, err
	}
	return Target{Endpoints: []Endpoint{ep}}, nil
}

func parseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("stompuri: invalid endpoint %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Endpoint{}, fmt.Errorf("stompuri: endpoint %q is missing a scheme or host", raw)
	}
	host := u.Hostname()
	port := DefaultPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, fmt.Errorf("stompuri: invalid port in %q: %w", raw, err)
		}
		port = n
	}
	return Endpoint{Scheme: u.Scheme, Host: host, Port: port}, nil
}

// parseFailover parses failover://(url1,url2,...)?randomize=bool.
// net/url cannot parse the parenthesized host-list form directly, so
// the list and the query string are split out manually before each
// piece is handed to url.Parse/url.ParseQuery.
func parseFailover(raw string) (Target, error) {
	rest := strings.TrimPrefix(raw, "failover://")
	if !strings.HasPrefix(rest, "(") {
		return Target{}, fmt.Errorf("stompuri: failover URI %q must start with '(' after the scheme", raw)
	}
	close := strings.Index(rest, ")")
	if close < 0 {
		return Target{}, fmt.Errorf("stompuri: failover URI %q has no closing ')'", raw)
	}
	list := rest[1:close]
	query := strings.TrimPrefix(rest[close+1:], "?")

	var target Target
	for _, one := range strings.Split(list, ",") {
		one = strings.TrimSpace(one)
		if one == "" {
			continue
		}
		ep, err := parseEndpoint(one)
		if err != nil {
			return Target{}, err
		}
		target.Endpoints = append(target.Endpoints, ep)
	}
	if len(target.Endpoints) == 0 {
		return Target{}, fmt.Errorf("stompuri: failover URI %q lists no endpoints", raw)
	}

	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return Target{}, fmt.Errorf("stompuri: invalid query in %q: %w", raw, err)
		}
		if v := values.Get("randomize"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Target{}, fmt.Errorf("stompuri: invalid randomize value %q: %w", v, err)
			}
			target.Randomize = b
		}
	}
	return target, nil
}
