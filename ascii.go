package weburl

import (
	"strings"

	"github.com/willf/bitset"
)

// This file implements §4.1 of the specification: ASCII classification,
// percent-encode sets, and the percent/form codecs. Classification
// tables are backed by github.com/willf/bitset, following the approach
// taken by the whatwg-url parser retrieved alongside this pack (which
// builds its ASCIIAlpha/ASCIIDigit/percent-encode-set tables the same
// way) rather than hand-rolled switch statements over 256 cases.

// isHexDigit reports whether b is one of 0-9, a-f, A-F.
func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

// hexValue returns the numeric value of a hex digit and true, or
// (0, false) if b is not a hex digit.
func hexValue(b byte) (uint8, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// asciiLower lowercases an ASCII byte using the bit-0x20 trick; bytes
// outside A-Z pass through unchanged.
func asciiLower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b | 0x20
	}
	return b
}

func isASCIIAlpha(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isASCIIDigit(b byte) bool { return '0' <= b && b <= '9' }

func isASCIIAlphanumeric(b byte) bool { return isASCIIAlpha(b) || isASCIIDigit(b) }

// byteSet is a 256-entry membership table over byte values, backed by
// a bitset.BitSet so that percent-encode sets and classification
// tables are built and combined the same way nlnwa-whatwg-url builds
// its ASCIIAlpha/ASCIIDigit/percent-encode-set tables.
type byteSet struct {
	bits *bitset.BitSet
}

func newByteSet() byteSet {
	return byteSet{bits: bitset.New(256)}
}

func (s byteSet) add(b byte) byteSet {
	s.bits.Set(uint(b))
	return s
}

func (s byteSet) addRange(lo, hi byte) byteSet {
	for c := int(lo); c <= int(hi); c++ {
		s.bits.Set(uint(c))
	}
	return s
}

func (s byteSet) union(other byteSet) byteSet {
	out := newByteSet()
	out.bits.InPlaceUnion(s.bits)
	out.bits.InPlaceUnion(other.bits)
	return out
}

func (s byteSet) test(b byte) bool { return s.bits.Test(uint(b)) }

var (
	c0ControlSet = func() byteSet {
		s := newByteSet()
		s.addRange(0x00, 0x1F)
		return s
	}()

	asciiTabOrNewlineSet = func() byteSet {
		s := newByteSet()
		s.add('\t').add('\n').add('\r')
		return s
	}()

	c0OrSpaceSet = func() byteSet {
		s := newByteSet()
		s.addRange(0x00, 0x1F)
		s.add(' ')
		return s
	}()
)

// isURLCodePoint reports whether b, taken as an ASCII byte, is a URL
// code point per the GLOSSARY: alphanumerics plus
// !$&'()*+,-./:;=?@_~ . Non-ASCII bytes (>=0x80) report false here;
// the parser only calls this on ASCII bytes, and full code
// point membership (U+00A0..U+10FFFD minus surrogates/noncharacters)
// is checked separately on decoded runes by isURLCodePointRune.
func isURLCodePoint(b byte) bool {
	if isASCIIAlphanumeric(b) {
		return true
	}
	switch b {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
		':', ';', '=', '?', '@', '_', '~':
		return true
	}
	return false
}

// isURLCodePointRune reports whether r is a URL code point, covering
// the non-ASCII range U+00A0-U+10FFFD minus surrogates and
// noncharacters.
func isURLCodePointRune(r rune) bool {
	if r < 0x80 {
		return isURLCodePoint(byte(r))
	}
	if r < 0xA0 {
		return false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return false
	}
	if r >= 0xFDD0 && r <= 0xFDEF {
		return false
	}
	if (r & 0xFFFE) == 0xFFFE { // last two code points of every plane
		return false
	}
	return r <= 0x10FFFD
}

// isForbiddenHostCodePoint reports whether b may never appear in an
// opaque host, per the GLOSSARY.
func isForbiddenHostCodePoint(b byte) bool {
	switch b {
	case 0x00, '\t', '\n', '\r', ' ', '#', '/', ':', '<', '>', '?', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return false
}

// isForbiddenDomainCodePoint reports whether b may never appear in a
// domain host: every forbidden-host code point, plus C0 controls,
// '%', and 0x7F (DEL).
func isForbiddenDomainCodePoint(b byte) bool {
	if isForbiddenHostCodePoint(b) {
		return true
	}
	if b <= 0x1F || b == 0x7F || b == '%' {
		return true
	}
	return false
}

// PercentEncodeSet names one of the predicate sets used to decide
// which bytes a given URL component escapes.
type PercentEncodeSet byteSet

// extra builds a fresh, unshared byteSet holding just the listed bytes,
// for unioning onto a base set without mutating the base's storage.
func extra(bs ...byte) byteSet {
	s := newByteSet()
	for _, b := range bs {
		s.add(b)
	}
	return s
}

var (
	// C0ControlPercentEncodeSet escapes C0 controls and anything > 0x7E.
	C0ControlPercentEncodeSet = PercentEncodeSet(func() byteSet {
		s := newByteSet()
		s.addRange(0x7F, 0xFF)
		return s.union(c0ControlSet)
	}())

	// FragmentPercentEncodeSet is C0ControlPercentEncodeSet plus
	// space, quote, <, >, and backtick.
	FragmentPercentEncodeSet = PercentEncodeSet(
		byteSet(C0ControlPercentEncodeSet).union(extra(' ', '"', '<', '>', '`')),
	)

	// QueryPercentEncodeSet is C0ControlPercentEncodeSet plus
	// space, quote, #, <, >.
	QueryPercentEncodeSet = PercentEncodeSet(
		byteSet(C0ControlPercentEncodeSet).union(extra(' ', '"', '#', '<', '>')),
	)

	// SpecialQueryPercentEncodeSet is QueryPercentEncodeSet plus '\''.
	SpecialQueryPercentEncodeSet = PercentEncodeSet(
		byteSet(QueryPercentEncodeSet).union(extra('\'')),
	)

	// PathPercentEncodeSet is QueryPercentEncodeSet plus ?, `, {, }.
	PathPercentEncodeSet = PercentEncodeSet(
		byteSet(QueryPercentEncodeSet).union(extra('?', '`', '{', '}')),
	)

	// UserinfoPercentEncodeSet is PathPercentEncodeSet plus
	// /, :, ;, =, @, [, \, ], ^, |.
	UserinfoPercentEncodeSet = PercentEncodeSet(
		byteSet(PathPercentEncodeSet).union(extra('/', ':', ';', '=', '@', '[', '\\', ']', '^', '|')),
	)

	// ComponentPercentEncodeSet is UserinfoPercentEncodeSet plus
	// $, %, &, +, ,.
	ComponentPercentEncodeSet = PercentEncodeSet(
		byteSet(UserinfoPercentEncodeSet).union(extra('$', '%', '&', '+', ',')),
	)

	// FormURLEncodePercentEncodeSet is ComponentPercentEncodeSet plus
	// !, ', (, ), ~ (the x-www-form-urlencoded set).
	FormURLEncodePercentEncodeSet = PercentEncodeSet(
		byteSet(ComponentPercentEncodeSet).union(extra('!', '\'', '(', ')', '~')),
	)
)

// PercentEncode emits %HH (uppercase hex) for every byte of s that
// satisfies set, passing every other byte through unchanged. Non-ASCII
// bytes (UTF-8 continuation/lead bytes, value >= 0x80) are always
// encoded regardless of set, since every defined set includes 0x7F-0xFF.
func PercentEncode(s []byte, set PercentEncodeSet) []byte {
	bs := byteSet(set)
	var out []byte
	for _, b := range s {
		if bs.test(b) {
			out = appendPercentByte(out, b)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// PercentEncodeString is the string-typed convenience wrapper around
// PercentEncode.
func PercentEncodeString(s string, set PercentEncodeSet) string {
	return string(PercentEncode([]byte(s), set))
}

const upperHex = "0123456789ABCDEF"

func appendPercentByte(out []byte, b byte) []byte {
	return append(out, '%', upperHex[b>>4], upperHex[b&0xF])
}

// PercentDecode replaces every well-formed %HH triplet in s with the
// decoded byte; malformed triplets (not followed by two hex digits)
// are left as a literal '%'.
func PercentDecode(s []byte) []byte {
	if !containsPercent(s) {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := hexValue(s[i+1])
			lo, ok2 := hexValue(s[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

// PercentDecodeString is the string-typed convenience wrapper around
// PercentDecode.
func PercentDecodeString(s string) string {
	return string(PercentDecode([]byte(s)))
}

func containsPercent(s []byte) bool {
	for _, b := range s {
		if b == '%' {
			return true
		}
	}
	return false
}

// decodedByteIterator lazily yields the percent-decoded bytes of a
// slice without materializing the whole output, per §4.1's "lazy
// adapters that yield decoded bytes".
type decodedByteIterator struct {
	s   []byte
	pos int
}

func newDecodedByteIterator(s []byte) *decodedByteIterator {
	return &decodedByteIterator{s: s}
}

// next returns the next decoded byte and true, or (0, false) at EOF.
func (it *decodedByteIterator) next() (byte, bool) {
	if it.pos >= len(it.s) {
		return 0, false
	}
	b := it.s[it.pos]
	if b == '%' && it.pos+2 < len(it.s) {
		if hi, ok1 := hexValue(it.s[it.pos+1]); ok1 {
			if lo, ok2 := hexValue(it.s[it.pos+2]); ok2 {
				it.pos += 3
				return hi<<4 | lo, true
			}
		}
	}
	it.pos++
	return b, true
}

// reset restarts iteration from the beginning, keeping the view
// restartable and allocation-free as required by §9.
func (it *decodedByteIterator) reset() { it.pos = 0 }

// FormEncode encodes s per the x-www-form-urlencoded set, additionally
// mapping space to '+'.
func FormEncode(s []byte) []byte {
	var out []byte
	bs := byteSet(FormURLEncodePercentEncodeSet)
	for _, b := range s {
		switch {
		case b == ' ':
			out = append(out, '+')
		case bs.test(b):
			out = appendPercentByte(out, b)
		default:
			out = append(out, b)
		}
	}
	return out
}

// FormEncodeString is the string-typed convenience wrapper around
// FormEncode.
func FormEncodeString(s string) string { return string(FormEncode([]byte(s))) }

// FormDecode decodes s: '+' becomes space, then %HH triplets are
// decoded as in PercentDecode.
func FormDecode(s []byte) []byte {
	tmp := make([]byte, len(s))
	copy(tmp, s)
	for i, b := range tmp {
		if b == '+' {
			tmp[i] = ' '
		}
	}
	return PercentDecode(tmp)
}

// FormDecodeString is the string-typed convenience wrapper around
// FormDecode.
func FormDecodeString(s string) string { return string(FormDecode([]byte(s))) }

// isASCIILower reports whether s contains no ASCII uppercase letter.
func isASCIILower(s string) bool {
	return !strings.ContainsFunc(s, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
}
