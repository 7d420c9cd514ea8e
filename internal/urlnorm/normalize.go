// Package urlnorm canonicalizes URLs so the frontier can compare them for
// equality. Two URLs are the same crawl target iff their normalized forms
// are byte-equal.
package urlnorm

import (
	"net/url"
	"strings"
)

// ignoredPrefixes are dropped at ingress per the design doc: they never
// name a fetchable HTTP(S) resource.
var ignoredPrefixes = []string{"mailto:", "javascript:", "tel:", "#"}

// IsIgnored reports whether href should be dropped before normalization,
// e.g. "mailto:a@b.com" or "javascript:void(0)".
func IsIgnored(href string) bool {
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// Normalize resolves href against referer (if non-empty), lower-cases the
// scheme and host, percent-decodes unreserved octets, strips the fragment,
// and removes a trailing slash. The result is the canonical comparison key
// used by the frontier's seen set and the link graph.
func Normalize(href, referer string) (string, error) {
	if IsIgnored(href) {
		return "", errIgnored
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}

	if referer != "" {
		base, err := url.Parse(referer)
		if err != nil {
			return "", err
		}
		u = base.ResolveReference(u)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	decoded, err := decodeUnreserved(u.String())
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(decoded, "/"), nil
}

// Host returns the network-location component of a normalized URL. The
// crawler treats "www.h" and "h" as distinct hosts (a known limitation,
// not a bug — see the design doc).
func Host(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Host
}

// decodeUnreserved percent-decodes octets that map to RFC 3986 unreserved
// characters (letters, digits, '-', '.', '_', '~'), leaving reserved and
// already-meaningful percent-escapes (e.g. "%2F") untouched.
func decodeUnreserved(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]) {
			c := unhex(raw[i+1])<<4 | unhex(raw[i+2])
			if isUnreserved(c) {
				b.WriteByte(c)
				i += 2
				continue
			}
		}
		b.WriteByte(raw[i])
	}

	return b.String(), nil
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

type ignoredSchemeError string

func (e ignoredSchemeError) Error() string { return string(e) }

const errIgnored = ignoredSchemeError("urlnorm: ignored scheme")

// ErrIgnored reports whether err was returned because href had an ignored
// scheme (mailto:, javascript:, tel:, #) rather than a parse failure.
func ErrIgnored(err error) bool {
	_, ok := err.(ignoredSchemeError)
	return ok
}
