package ratelimit

import "strings"

// unlimited marks a route the limiter never throttles.
var unlimited = EndpointConfig{}

// MatchEndpoint finds the config governing a path and method. Exact
// matches win over prefix matches; prefix matching applies only to
// configured paths ending in "/". Returns nil when nothing matches, in
// which case the caller applies the default limit.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/healthz" && method == "GET" {
		return &unlimited
	}

	var prefixMatch *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefixMatch == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefixMatch = c
		}
	}
	return prefixMatch
}
