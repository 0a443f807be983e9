package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxEscapedLen bounds the escaped form of a segment. Logins and emails are
// user controlled, so without a bound a hostile input could produce
// arbitrarily long cache keys. Segments escaping beyond the bound are
// truncated and disambiguated with a hash of the full raw input.
const maxEscapedLen = 64

// IdentifierSanitizer escapes arbitrary user-controlled strings (logins,
// emails) into safe cache-key segments. The transform is total and
// deterministic, and it is injective for every input whose escaped form fits
// maxEscapedLen; longer inputs are distinguished by a 64-bit xxhash, which is
// a non-cryptographic best-effort guarantee.
type IdentifierSanitizer struct{}

// NewIdentifierSanitizer returns a sanitizer. It carries no state; the zero
// value is equally usable.
func NewIdentifierSanitizer() IdentifierSanitizer {
	return IdentifierSanitizer{}
}

// EscapeForCacheKey escapes raw for inclusion in a cache key or tag segment.
// ASCII letters and digits pass through, '_' doubles to "__", and every other
// byte becomes "_xx" with its lowercase hex value, so the separator bytes
// used by the identifier generator can never appear in the output.
func (IdentifierSanitizer) EscapeForCacheKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/2)

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '_':
			b.WriteString("__")
		default:
			b.WriteByte('_')
			const hexdigits = "0123456789abcdef"
			b.WriteByte(hexdigits[c>>4])
			b.WriteByte(hexdigits[c&0x0f])
		}
	}

	out := b.String()
	if len(out) > maxEscapedLen {
		sum := xxhash.Sum64String(raw)
		out = out[:maxEscapedLen-18] + "_h" + strconv.FormatUint(sum, 16)
	}
	return out
}
