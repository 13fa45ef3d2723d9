package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Prefix starts every cache key.
const Prefix = "yt"

// secretParams are query parameters left out of keys.
var secretParams = map[string]bool{
	"key":          true,
	"access_token": true,
}

// Key identifies a cached response.
type Key struct {
	// Resource is the API resource (e.g. "playlistItems").
	Resource string

	// Query are the request query parameters.
	Query url.Values
}

// String generates a deterministic key.
// Format: yt:resource:param1=v1:param2=v2a,v2b
//
// Example:
//
//	yt:playlistItems:maxResults=50:part=snippet:playlistId=PL123
func (k Key) String() string {
	parts := []string{Prefix}

	if resource := strings.Trim(k.Resource, "/"); resource != "" {
		parts = append(parts, resource)
	}

	names := make([]string, 0, len(k.Query))
	for name := range k.Query {
		if secretParams[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, name+"="+strings.Join(k.Query[name], ","))
	}

	return strings.Join(parts, ":")
}
