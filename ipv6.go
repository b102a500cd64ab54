package weburl

import (
	"errors"
	"strconv"
	"strings"
)

// This file implements §4.2.1 (the IPv6 parser) and the IPv6 half of
// §4.2.3 (serialization with the `::` compression rule). Grounded the
// same way as ipv4.go: none of the pack's net/url forks implement the
// embedded-IPv4-suffix or "shorthand" compression rules faithfully, so
// this is written directly from the WHATWG algorithm's piece-by-piece
// walk, in the style of the pack's explicit state-driven parsers
// (terorie-oddb-go/fasturl, the retrieved whatwg-url parser).

// IPv6Address is eight 16-bit pieces in host byte order (pieces[0] is
// the leftmost group as written/serialized).
type IPv6Address [8]uint16

var (
	ErrIPv6TooManyPieces     = errors.New("weburl: IPv6 address has too many pieces")
	ErrIPv6TooFewPieces      = errors.New("weburl: IPv6 address has too few pieces")
	ErrIPv6BadHexDigit       = errors.New("weburl: invalid IPv6 hex piece")
	ErrIPv6MisplacedCompress = errors.New("weburl: misplaced '::' in IPv6 address")
	ErrIPv6MultipleCompress  = errors.New("weburl: multiple '::' in IPv6 address")
	ErrIPv6BadEmbeddedIPv4   = errors.New("weburl: invalid embedded IPv4 address in IPv6 address")
)

// ParseIPv6 parses the bytes between (but not including) the '[' and
// ']' delimiters.
func ParseIPv6(s string) (IPv6Address, error) {
	var addr IPv6Address
	pieceIndex := 0
	compress := -1 // index in addr where the "::" run starts, or -1
	i := 0
	n := len(s)

	if n > 0 && s[0] == ':' {
		if n < 2 || s[1] != ':' {
			return addr, ErrIPv6MisplacedCompress
		}
		i = 2
		pieceIndex++
		compress = pieceIndex
	}

	for i < n {
		if pieceIndex == 8 {
			return addr, ErrIPv6TooManyPieces
		}
		if s[i] == ':' {
			if compress != -1 {
				return addr, ErrIPv6MultipleCompress
			}
			i++
			pieceIndex++
			compress = pieceIndex
			continue
		}

		start := i
		value := 0
		length := 0
		for i < n && length < 4 && isHexDigit(s[i]) {
			v, _ := hexValue(s[i])
			value = value*16 + int(v)
			i++
			length++
		}

		if i < n && s[i] == '.' {
			// Embedded IPv4: only allowed in the last two pieces.
			if length == 0 {
				return addr, ErrIPv6BadEmbeddedIPv4
			}
			if pieceIndex > 6 {
				return addr, ErrIPv6BadEmbeddedIPv4
			}
			v4, err := parseEmbeddedIPv4(s[start:])
			if err != nil {
				return addr, err
			}
			addr[pieceIndex] = uint16(v4 >> 16)
			addr[pieceIndex+1] = uint16(v4 & 0xFFFF)
			pieceIndex += 2
			i = n
			break
		}

		if i < n && s[i] == ':' {
			i++
			if i >= n {
				return addr, ErrIPv6MisplacedCompress
			}
		} else if i < n {
			return addr, ErrIPv6BadHexDigit
		}
		if length == 0 {
			return addr, ErrIPv6BadHexDigit
		}
		addr[pieceIndex] = uint16(value)
		pieceIndex++
	}

	if compress != -1 {
		swaps := pieceIndex - compress
		for j := 1; j <= swaps; j++ {
			addr[compress+swaps-j], addr[8-j] = addr[8-j], addr[compress+swaps-j]
		}
		pieceIndex = 8
	}
	if pieceIndex != 8 {
		return addr, ErrIPv6TooFewPieces
	}
	return addr, nil
}

// parseEmbeddedIPv4 parses an embedded dotted-decimal IPv4 suffix
// (RFC 4291 style: four decimal octets, no hex/octal radix, but a
// bare numeric run per piece — matching the WHATWG embedded-v4 rules,
// which are slightly looser than ParseIPv4Strict: components may omit
// leading-zero rejection during the lenient first pass the standard
// describes, but must be <= 255 and there must be exactly four).
func parseEmbeddedIPv4(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, ErrIPv6BadEmbeddedIPv4
	}
	var v uint32
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, ErrIPv6BadEmbeddedIPv4
		}
		for _, c := range []byte(p) {
			if !isASCIIDigit(c) {
				return 0, ErrIPv6BadEmbeddedIPv4
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return 0, ErrIPv6BadEmbeddedIPv4
		}
		v = v<<8 | uint32(n)
	}
	return v, nil
}

// Serialize renders the address with the `::` compression rule: the
// longest run of zero pieces with length >= 2 is replaced by `::`
// (leftmost run wins ties); the result is NOT wrapped in brackets
// (Host.Serialize and IPv6Address.String add them).
func (a IPv6Address) Serialize() string {
	start, _ := longestZeroRun(a)

	var b strings.Builder
	ignore0 := false
	for i := 0; i < 8; i++ {
		if ignore0 && a[i] == 0 {
			continue
		} else if ignore0 {
			ignore0 = false
		}
		if i == start {
			if i == 0 {
				b.WriteString("::")
			} else {
				b.WriteByte(':')
			}
			ignore0 = true
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(a[i]), 16))
		if i != 7 {
			b.WriteByte(':')
		}
	}
	return b.String()
}

// longestZeroRun finds the longest run of zero pieces with length >=
// 2, returning its start index and length, or (-1, 0) if none
// qualifies. Leftmost run wins on ties.
func longestZeroRun(a IPv6Address) (start, length int) {
	bestStart, bestLen := -1, 0
	curStart, curLen := -1, 0
	for i := 0; i < 8; i++ {
		if a[i] == 0 {
			if curStart == -1 {
				curStart = i
			}
			curLen++
		} else {
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
			curStart, curLen = -1, 0
		}
	}
	if curLen > bestLen {
		bestStart, bestLen = curStart, curLen
	}
	if bestLen < 2 {
		return -1, 0
	}
	return bestStart, bestLen
}

func (a IPv6Address) String() string { return "[" + a.Serialize() + "]" }
