package sitezip

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters removed during canonicalization.
// Keys are matched case-insensitively; utm_ is a prefix match.
var trackingParams = []string{"fbclid", "gclid", "mc_eid"}

// Canonicalize normalizes a URL so that two URLs differing only by fragment
// or tracking query parameters compare equal. It strips the fragment, removes
// tracking parameters (utm_* by prefix; fbclid, gclid, mc_eid exactly),
// preserves the remaining query parameters in their original order, and
// lowercases the scheme and host.
//
// Canonicalize is pure, total and idempotent: input that cannot be parsed is
// returned trimmed but otherwise unchanged.
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = stripTracking(u.RawQuery)

	return u.String()
}

// stripTracking removes tracking parameters from a raw query string while
// keeping the remaining parameters in their original order. url.Values cannot
// be used here because it does not preserve order.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx != -1 {
			key = pair[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	for _, p := range trackingParams {
		if key == p {
			return true
		}
	}
	return false
}

// ScopeSet is the set of hostnames considered "same site" for a crawl.
// It is computed once from the seed URL and never mutated afterwards.
type ScopeSet map[string]struct{}

// NewScopeSet derives the same-site scope from a seed URL: the seed's host,
// the apex domain (host without a www. prefix, plus the last two labels for
// deeper subdomains), and the www. variant of the apex.
func NewScopeSet(seedURL string) ScopeSet {
	scope := make(ScopeSet)

	u, err := url.Parse(seedURL)
	if err != nil {
		return scope
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return scope
	}

	scope[host] = struct{}{}
	naked := strings.TrimPrefix(host, "www.")
	scope[naked] = struct{}{}
	scope["www."+naked] = struct{}{}
	if parts := strings.Split(naked, "."); len(parts) > 2 {
		scope[strings.Join(parts[len(parts)-2:], ".")] = struct{}{}
	}
	return scope
}

// Contains reports whether a hostname is part of the scope.
// Matching is case-insensitive.
func (s ScopeSet) Contains(host string) bool {
	_, ok := s[strings.ToLower(host)]
	return ok
}

// InScope reports whether a URL's host is part of the scope.
func (s ScopeSet) InScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return s.Contains(u.Hostname())
}
