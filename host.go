package weburl

import (
	"errors"
	"strings"
)

// This file implements §4.2 and its data model §3.2: the Host sum
// type and the top-level ParseHost dispatcher. Grounded on the
// wenfang-golang1.6-src net/url parseHost (which only handles the
// domain/IPv6/opaque cases, never IPv4-numeric detection or the
// opaque/empty split this spec requires) and enriched with the
// numeric-last-label + radix rules from the WHATWG algorithm as
// reproduced in the retrieved whatwg-url parser (other_examples).

// HostKind tags which variant a Host value holds.
type HostKind uint8

const (
	HostAbsent HostKind = iota
	HostDomain
	HostOpaque
	HostEmpty
	HostIPv4
	HostIPv6
)

// Host is a sum type over the six host variants named in §3.2. Exactly
// one of the typed fields is meaningful, selected by Kind.
type Host struct {
	Kind   HostKind
	domain string // ASCII bytes, HostDomain only
	opaque string // bytes, HostOpaque only
	v4     IPv4Address
	v6     IPv6Address
}

var (
	ErrHostEmptyNotAllowed   = errors.New("weburl: host parser: empty host not allowed for this scheme")
	ErrHostForbiddenCodePoint = errors.New("weburl: host parser: forbidden code point")
	ErrHostUnterminatedIPv6  = errors.New("weburl: host parser: '[' without matching ']'")
)

func AbsentHost() Host { return Host{Kind: HostAbsent} }
func EmptyHost() Host  { return Host{Kind: HostEmpty} }

func DomainHost(asciiLabels string) Host {
	return Host{Kind: HostDomain, domain: asciiLabels}
}

func OpaqueHost(bytes string) Host {
	return Host{Kind: HostOpaque, opaque: bytes}
}

func IPv4Host(a IPv4Address) Host { return Host{Kind: HostIPv4, v4: a} }
func IPv6Host(a IPv6Address) Host { return Host{Kind: HostIPv6, v6: a} }

// Domain returns the stored ASCII label string and true, if Kind is
// HostDomain.
func (h Host) Domain() (string, bool) {
	if h.Kind != HostDomain {
		return "", false
	}
	return h.domain, true
}

// Opaque returns the stored opaque bytes and true, if Kind is HostOpaque.
func (h Host) Opaque() (string, bool) {
	if h.Kind != HostOpaque {
		return "", false
	}
	return h.opaque, true
}

// IPv4 returns the address and true, if Kind is HostIPv4.
func (h Host) IPv4() (IPv4Address, bool) {
	if h.Kind != HostIPv4 {
		return 0, false
	}
	return h.v4, true
}

// IPv6 returns the address and true, if Kind is HostIPv6.
func (h Host) IPv6() (IPv6Address, bool) {
	if h.Kind != HostIPv6 {
		return IPv6Address{}, false
	}
	return h.v6, true
}

// Labels splits a domain host into its dot-separated ASCII labels; it
// is the empty slice for every other Kind, satisfying §6's "a domain
// exposes its ASCII labels".
func (h Host) Labels() []string {
	if h.Kind != HostDomain || h.domain == "" {
		return nil
	}
	return strings.Split(h.domain, ".")
}

// IsIDN reports whether any label of a domain host carries the ACE
// prefix "xn--". Since this library does not perform IDNA mapping
// (§9's documented gap), this is a syntactic check on whatever ASCII
// the caller already supplied, not a semantic Unicode judgement.
func (h Host) IsIDN() bool {
	for _, label := range h.Labels() {
		if strings.HasPrefix(strings.ToLower(label), "xn--") {
			return true
		}
	}
	return false
}

// Serialize renders h per §4.2.3.
func (h Host) Serialize() string {
	switch h.Kind {
	case HostAbsent, HostEmpty:
		return ""
	case HostDomain:
		return h.domain
	case HostOpaque:
		return h.opaque
	case HostIPv4:
		return h.v4.Serialize()
	case HostIPv6:
		return "[" + h.v6.Serialize() + "]"
	default:
		return ""
	}
}

// Equal compares two hosts by variant and value.
func (h Host) Equal(o Host) bool {
	if h.Kind != o.Kind {
		return false
	}
	switch h.Kind {
	case HostDomain:
		return h.domain == o.domain
	case HostOpaque:
		return h.opaque == o.opaque
	case HostIPv4:
		return h.v4 == o.v4
	case HostIPv6:
		return h.v6 == o.v6
	default:
		return true
	}
}

// ParseHost implements §4.2's algorithm. isSpecial reports whether the
// owning URL's scheme is one of the six special schemes; isFile
// narrows empty-host handling further for file.
func ParseHost(input string, isSpecial, isFile bool) (Host, error) {
	if input == "" {
		if isSpecial && !isFile {
			return Host{}, ErrHostEmptyNotAllowed
		}
		return EmptyHost(), nil
	}

	if input[0] == '[' {
		if input[len(input)-1] != ']' {
			return Host{}, ErrHostUnterminatedIPv6
		}
		addr, err := ParseIPv6(input[1 : len(input)-1])
		if err != nil {
			return Host{}, err
		}
		return IPv6Host(addr), nil
	}

	if !isSpecial {
		return parseOpaqueHost(input)
	}

	decoded := asciiLowerString(string(PercentDecode([]byte(input))))
	// (IDNA ToASCII mapping would run here; out of scope, §9.)
	for i := 0; i < len(decoded); i++ {
		if isForbiddenDomainCodePoint(decoded[i]) {
			return Host{}, ErrHostForbiddenCodePoint
		}
	}

	if host, ok, err := tryParseIPv4Host(decoded); ok {
		if err != nil {
			return Host{}, err
		}
		return host, nil
	}

	return DomainHost(decoded), nil
}

// ParseFileHost parses a file: URL's host component, where empty is
// always permitted (callers use this instead of ParseHost(s, true,
// true) to make that allowance explicit at call sites).
func ParseFileHost(input string) (Host, error) {
	return ParseHost(input, true, true)
}

func parseOpaqueHost(input string) (Host, error) {
	for i := 0; i < len(input); i++ {
		if isForbiddenHostCodePoint(input[i]) {
			return Host{}, ErrHostForbiddenCodePoint
		}
	}
	encoded := PercentEncode([]byte(input), C0ControlPercentEncodeSet)
	if len(encoded) == 0 {
		return EmptyHost(), nil
	}
	return OpaqueHost(string(encoded)), nil
}

// tryParseIPv4Host applies §4.2's "last label looks numeric" rule: it
// only attempts IPv4 parsing (and only ever returns ok=true) when the
// last dot-separated label of decoded is syntactically numeric: a
// syntactically numeric label that overflows IPv4 bounds is still a
// hard error (not a fallthrough to Domain), per spec.md §4.2 step 3.
func tryParseIPv4Host(decoded string) (Host, bool, error) {
	labels := strings.Split(decoded, ".")
	last := labels[len(labels)-1]
	if !looksLikeIPv4Numeric(last) {
		return Host{}, false, nil
	}
	addr, err := ParseIPv4(decoded)
	if err != nil {
		return Host{}, true, err
	}
	return IPv4Host(addr), true, nil
}
