package page

import (
	"strings"
)

const hotelsPath = "/hotels"

// SearchURL is where the home search box navigates for query q.
func SearchURL(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return hotelsPath
	}
	return hotelsPath + "?q=" + encodeURIComponent(q)
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every UTF-8 byte except the
// unreserved marks A-Z a-z 0-9 - _ . ! ~ * ' ( ), matching browsers.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
