package weburl

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// This file implements §3.3's storage model and §6's getters,
// including Origin(). Copy-on-write is modeled with a reference-
// counted backing buffer (storageBuf): a pointer to a struct holding
// both the bytes and a share count. Setters never write into an
// existing buffer; they build a new one and swap it in (replaceWith),
// so a buffer shared by clones is never modified.

// storageBuf is the heap-allocated backing store for a URL's canonical
// serialization. It is shared (by pointer) between URL values that
// have not diverged; CloneURL bumps refs, and a setter replaces the
// mutated URL's buffer with a freshly built one.
type storageBuf struct {
	bytes []byte
	refs  int32
}

func newStorageBuf(b []byte) *storageBuf {
	return &storageBuf{bytes: b, refs: 1}
}

// URL is the library's core value type: a canonical serialized byte
// buffer plus the structure record describing how to slice it, per
// §3.3. The zero value is not a valid URL; construct one with Parse.
type URL struct {
	buf *storageBuf
	s   URLStructure
}

// ensureUnique gives u exclusive ownership of its backing buffer,
// copying it first if another URL value shares it. The setters do not
// call it: they rebuild the buffer through buildStorage and swap it in
// with replaceWith, which keeps the §5/§8 COW-non-aliasing invariant.
func (u *URL) ensureUnique() {
	if u.buf.refs <= 1 {
		return
	}
	cp := make([]byte, len(u.buf.bytes))
	copy(cp, u.buf.bytes)
	u.buf.refs--
	u.buf = newStorageBuf(cp)
}

// CloneURL returns a value sharing u's backing buffer under copy-on-
// write: mutating the clone (or u) allocates a fresh buffer for
// the side that is written, per §5's "mutating a copy never
// disturbs other observers".
func (u *URL) CloneURL() *URL {
	u.buf.refs++
	return &URL{buf: u.buf, s: u.s}
}

func (u *URL) bytes() []byte { return u.buf.bytes }

func (u *URL) slice(start, end int) string {
	if start >= end {
		return ""
	}
	return string(u.buf.bytes[start:end])
}

// Serialized returns the canonical serialization, satisfying §8's
// idempotence invariant when fed back into Parse.
func (u *URL) Serialized() string { return string(u.buf.bytes) }

func (u *URL) String() string { return u.Serialized() }

// Scheme returns the scheme, without the trailing colon.
func (u *URL) Scheme() string { return u.slice(0, u.s.SchemeEnd) }

// SchemeKind returns the scheme's special-ness classification.
func (u *URL) SchemeKind() SchemeKind { return u.s.SchemeKind }

// Username returns the percent-encoded username, or "" if absent.
func (u *URL) Username() string {
	return u.slice(u.s.usernameStart(), u.s.UsernameEnd)
}

// Password returns the percent-encoded password (without the leading
// ':'), and whether a ':' password token was present at all (even if
// the password itself is empty).
func (u *URL) Password() (string, bool) {
	if !u.s.hasPassword() {
		return "", false
	}
	return u.slice(u.s.PasswordStart, u.s.PasswordEnd), true
}

// Hostname returns the serialized host component (no brackets
// stripped for IPv6 — use Host() for the typed form).
func (u *URL) Hostname() string { return u.slice(u.s.HostStart, u.s.HostEnd) }

// Host returns the typed Host value, reconstructed from the stored
// bytes and HostKind (cheap: IPv4/IPv6 are fixed-width, Domain/Opaque
// are just the stored bytes).
func (u *URL) Host() Host {
	raw := u.Hostname()
	switch u.s.HostKind {
	case HostAbsent:
		return AbsentHost()
	case HostEmpty:
		return EmptyHost()
	case HostDomain:
		return DomainHost(raw)
	case HostOpaque:
		return OpaqueHost(raw)
	case HostIPv4:
		addr, _ := ParseIPv4Strict(raw)
		return IPv4Host(addr)
	case HostIPv6:
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		addr, _ := ParseIPv6(inner)
		return IPv6Host(addr)
	default:
		return AbsentHost()
	}
}

// Port returns the port as a string (no default-port elision applied
// here — defaults are never stored per §3.3 invariant 5) and whether
// a port is present.
func (u *URL) Port() (string, bool) {
	if !u.s.hasPort() {
		return "", false
	}
	return u.slice(u.s.PortStart, u.s.PortEnd), true
}

// PortOrDefault returns the effective port: the explicit port if
// present, else the scheme's default port.
func (u *URL) PortOrDefault() (uint16, bool) {
	if p, ok := u.Port(); ok {
		n, err := strconv.Atoi(p)
		if err == nil {
			return uint16(n), true
		}
	}
	return u.s.SchemeKind.defaultPort()
}

// Path returns the serialized path, including its leading '/' for
// non-opaque paths, or the single opaque segment verbatim for
// cannot-be-a-base URLs.
func (u *URL) Path() string { return u.slice(u.s.PathStart, u.s.PathEnd) }

// PathComponents returns a zero-allocation iterator over the path's
// segments (split on '/'), per §6's `path_components` and §9's "lazy
// views... restartable iterators that do not allocate".
func (u *URL) PathComponents() *PathIterator {
	return &PathIterator{path: u.Path()}
}

// PathIterator walks path segments one at a time.
type PathIterator struct {
	path string
	pos  int
}

// Next returns the next segment (without its separating '/') and
// true, or ("", false) once exhausted.
func (it *PathIterator) Next() (string, bool) {
	if it.pos >= len(it.path) {
		return "", false
	}
	rest := it.path[it.pos:]
	if len(rest) > 0 && rest[0] == '/' {
		rest = rest[1:]
		it.pos++
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		it.pos += idx
		return rest[:idx], true
	}
	it.pos = len(it.path)
	return rest, true
}

// Reset restarts the iterator from the first segment.
func (it *PathIterator) Reset() { it.pos = 0 }

// CannotBeABase reports whether this URL has an opaque, single-
// segment path and no authority (§3.3 invariant 3, GLOSSARY).
func (u *URL) CannotBeABase() bool { return u.s.CannotBeABase }

// Query returns the raw query bytes (without the leading '?'), and
// whether a query is present at all (nil vs "" per §3.3 invariant 6).
func (u *URL) Query() (string, bool) {
	if !u.s.hasQuery() {
		return "", false
	}
	return u.slice(u.s.QueryStart, u.s.QueryEnd), true
}

// Fragment returns the raw fragment bytes (without the leading '#'),
// and whether a fragment is present.
func (u *URL) Fragment() (string, bool) {
	if !u.s.hasFragment() {
		return "", false
	}
	return u.slice(u.s.FragmentStart, u.s.FragmentEnd), true
}

// QueryIsKnownFormEncoded reports §3.3's optimization flag.
func (u *URL) QueryIsKnownFormEncoded() bool { return u.s.QueryIsKnownFormEncoded }

// Origin computes the tuple described in §6. Opaque origins are
// represented by Opaque==true, in which case the other fields
// are meaningless (and, per the Standard, two opaque origins are
// never equal to one another, including themselves — Equal reflects
// this).
type Origin struct {
	Opaque bool
	Scheme string
	Host   Host
	Port   uint16
	hasPort bool
	serial  int64 // distinguishes opaque origins; never reused by value
}

// Equal compares two origins; an opaque origin is never equal to
// anything, including another opaque origin with the same serial,
// matching "globally unique and self-unequal" in §6.
func (o Origin) Equal(other Origin) bool {
	if o.Opaque || other.Opaque {
		return false
	}
	return o.Scheme == other.Scheme && o.Host.Equal(other.Host) &&
		o.hasPort == other.hasPort && o.Port == other.Port
}

var opaqueOriginCounter int64

func newOpaqueOrigin() Origin {
	serial := atomic.AddInt64(&opaqueOriginCounter, 1)
	return Origin{Opaque: true, serial: serial}
}

// Origin implements §6's origin tuple rules: special non-file/non-blob
// URLs produce (scheme, host, port-or-default); file: is opaque;
// blob: with a parseable cannot-be-a-base path recurses into the inner
// URL; everything else is opaque.
func (u *URL) Origin() Origin {
	switch u.s.SchemeKind {
	case SchemeHTTP, SchemeHTTPS, SchemeWS, SchemeWSS, SchemeFTP:
		port, hasPort := u.Port()
		var portNum uint16
		if hasPort {
			n, _ := strconv.Atoi(port)
			portNum = uint16(n)
		} else {
			portNum, hasPort = u.s.SchemeKind.defaultPort()
		}
		return Origin{Scheme: u.Scheme(), Host: u.Host(), Port: portNum, hasPort: hasPort}
	case SchemeFile:
		return newOpaqueOrigin()
	default:
		if u.Scheme() == "blob" && u.s.CannotBeABase {
			if inner, ok := TryParse(u.Path()); ok {
				return inner.Origin()
			}
		}
		return newOpaqueOrigin()
	}
}
