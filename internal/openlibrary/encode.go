package openlibrary

import "strings"

const upperhex = "0123456789ABCDEF"

// encodeQuery percent-encodes query text for the search URL. Every byte
// outside the RFC 3986 unreserved set (letters, digits, '-', '_', '.', '~')
// is escaped as '%' followed by its two-digit hex value.
func encodeQuery(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}
