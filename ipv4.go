package weburl

import (
	"errors"
	"strconv"
	"strings"
)

// This file implements §4.2.2: the IPv4 parser and §4.2.3's IPv4
// serialization, with a strict dotted-decimal variant for §4.2.2's
// "dotted_decimal" mode. Grounded on the radix-sniffing logic common
// to every net/url-family implementation in the pack
// (wenfang-golang1.6-src's src/net/url, terorie-oddb-go/fasturl), none
// of which implement the legacy octal/hex component syntax this
// component restores per the WHATWG algorithm.

// IPv4Address is a 32-bit IPv4 address stored in host byte order
// (i.e. the same order a dotted-decimal serialization reads
// left-to-right).
type IPv4Address uint32

var (
	// ErrIPv4TooManyComponents reports more than 4 dot-separated parts.
	ErrIPv4TooManyComponents = errors.New("weburl: IPv4 address has too many components")
	// ErrIPv4ComponentOverflow reports a component too large for its
	// position (a u32 per-component, u8 for all but the last).
	ErrIPv4ComponentOverflow = errors.New("weburl: IPv4 address component out of range")
	// ErrIPv4InvalidComponent reports a component with no valid digits.
	ErrIPv4InvalidComponent = errors.New("weburl: IPv4 address component is not a number")
	// ErrIPv4NotDottedDecimal is returned by ParseIPv4Strict when the
	// input is not exactly four decimal octets.
	ErrIPv4NotDottedDecimal = errors.New("weburl: not a strict dotted-decimal IPv4 address")
)

// ParseIPv4 parses s per the WHATWG IPv4 parser algorithm: 1-4
// components split on '.', with an optional single trailing empty
// component (a trailing dot), each parsed in a radix deduced from its
// prefix (0x/0X -> hex, a leading 0 with length >= 2 -> octal,
// otherwise decimal). All but the last component must fit in a byte;
// the last must fit in the 5-N trailing bytes it fills (N = number of
// components), which keeps the recombined value within u32.
func ParseIPv4(s string) (IPv4Address, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 || len(parts) > 4 {
		return 0, ErrIPv4TooManyComponents
	}

	numbers := make([]uint64, len(parts))
	for i, p := range parts {
		n, ok := parseIPv4Component(p)
		if !ok {
			return 0, ErrIPv4InvalidComponent
		}
		numbers[i] = n
	}
	for i := 0; i < len(numbers)-1; i++ {
		if numbers[i] > 0xFF {
			return 0, ErrIPv4ComponentOverflow
		}
	}
	last := numbers[len(numbers)-1]
	maxLast := uint64(1) << (8 * uint(5-len(numbers)))
	if last >= maxLast {
		return 0, ErrIPv4ComponentOverflow
	}

	var value uint32
	for i := 0; i < len(numbers)-1; i++ {
		value = (value << 8) | uint32(numbers[i])
	}
	value = value<<(8*uint(5-len(numbers))) | uint32(last)
	return IPv4Address(value), nil
}

// parseIPv4Component parses one '.'-separated part with radix
// deduced from its prefix, reporting false if it contains no valid
// digits for that radix or overflows a uint64 accumulator (which is
// always wide enough to then be checked against the byte/u32 bounds
// above).
func parseIPv4Component(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	radix := 10
	switch {
	case len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		radix = 16
		s = s[2:]
	case len(s) >= 2 && s[0] == '0':
		radix = 8
		s = s[1:]
	}
	if s == "" {
		// Only a bare "0x"/"0X" leaves an empty remainder (a lone
		// "0" takes the decimal path above); it has no digits and
		// is rejected.
		return 0, radix != 16
	}
	n, err := strconv.ParseUint(s, radix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseIPv4Strict implements the "dotted_decimal" variant of §4.2.2:
// exactly four components, each a plain decimal integer in 0-255, no
// leading zeros tolerated beyond a single "0", no hex/octal, no
// trailing dot.
func ParseIPv4Strict(s string) (IPv4Address, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, ErrIPv4NotDottedDecimal
	}
	var value uint32
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, ErrIPv4NotDottedDecimal
		}
		if len(p) > 1 && p[0] == '0' {
			return 0, ErrIPv4NotDottedDecimal
		}
		for _, c := range []byte(p) {
			if !isASCIIDigit(c) {
				return 0, ErrIPv4NotDottedDecimal
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return 0, ErrIPv4NotDottedDecimal
		}
		value = value<<8 | uint32(n)
	}
	return IPv4Address(value), nil
}

// looksLikeIPv4Numeric reports whether label is syntactically a
// candidate for IPv4 parsing: it must be non-empty and consist only of
// decimal digits, or of "0x"/"0X" followed by hex digits, per §4.2's
// "last label looks numeric" rule. The caller (tryParseIPv4Host)
// applies this to the last domain label.
func looksLikeIPv4Numeric(label string) bool {
	if label == "" {
		return false
	}
	if len(label) >= 2 && label[0] == '0' && (label[1] == 'x' || label[1] == 'X') {
		for i := 2; i < len(label); i++ {
			if !isHexDigit(label[i]) {
				return false
			}
		}
		return true
	}
	for _, c := range []byte(label) {
		if !isASCIIDigit(c) {
			return false
		}
	}
	return true
}

// Serialize renders a dotted-decimal representation of the address.
func (a IPv4Address) Serialize() string {
	v := uint32(a)
	return strconv.Itoa(int(v>>24&0xFF)) + "." +
		strconv.Itoa(int(v>>16&0xFF)) + "." +
		strconv.Itoa(int(v>>8&0xFF)) + "." +
		strconv.Itoa(int(v&0xFF))
}

func (a IPv4Address) String() string { return a.Serialize() }
