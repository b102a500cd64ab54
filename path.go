package weburl

import "strings"

// This file implements §4.3: path segment streaming, dot-segment
// popping, the Windows drive-letter quirks for file: URLs, and sigil
// bookkeeping. Grounded on the shortenPath/isWindowsDriveLetter/
// isDoubleDotPathSegment family in the retrieved whatwg-url parser
// (other_examples) — none of the pack's net/url forks implement
// drive-letter handling at all, since plain net/url never parses
// file: URLs specially.

// pathSegments is a mutable segment list used while building a path
// during parsing or a setter's path sub-parser.
type pathSegments struct {
	segs []string
}

func (p *pathSegments) push(s string) { p.segs = append(p.segs, s) }

// popOne removes the last segment, honoring the file: URL rule that a
// pop must never remove a lone normalized Windows drive letter
// segment (".." past "C:" is a no-op, matching shortenPath in the
// retrieved reference parser).
func (p *pathSegments) popOne(isFile bool) {
	if len(p.segs) == 0 {
		return
	}
	if isFile && len(p.segs) == 1 && isNormalizedWindowsDriveLetter(p.segs[0]) {
		return
	}
	p.segs = p.segs[:len(p.segs)-1]
}

func (p *pathSegments) isEmpty() bool { return len(p.segs) == 0 }

// isDotSegment reports whether seg is "." or "%2e" (case-insensitive).
func isDotSegment(seg string) bool {
	return seg == "." || strings.EqualFold(seg, "%2e")
}

// isDotDotSegment reports whether seg is "..", "%2e.", ".%2e", or
// "%2e%2e" (case-insensitive in the percent-encoded parts).
func isDotDotSegment(seg string) bool {
	if seg == ".." {
		return true
	}
	lower := strings.ToLower(seg)
	return lower == "%2e." || lower == ".%2e" || lower == "%2e%2e"
}

// isWindowsDriveLetter reports whether seg is exactly two bytes, an
// ASCII letter followed by ':' or '|'.
func isWindowsDriveLetter(seg string) bool {
	return len(seg) == 2 && isASCIIAlpha(seg[0]) && (seg[1] == ':' || seg[1] == '|')
}

// isNormalizedWindowsDriveLetter is isWindowsDriveLetter narrowed to
// the ':' form only (the form produced after normalization).
func isNormalizedWindowsDriveLetter(seg string) bool {
	return len(seg) == 2 && isASCIIAlpha(seg[0]) && seg[1] == ':'
}

// startsWithWindowsDriveLetter reports whether s begins with a drive
// letter segment immediately followed by EOF, '/', '\', '?', or '#' —
// the lookahead file: URLs use to decide whether to inherit a base
// path (per startsWithAWindowsDriveLetter in the reference parser).
func startsWithWindowsDriveLetter(s []byte) bool {
	if len(s) < 2 || !isASCIIAlpha(s[0]) || (s[1] != ':' && s[1] != '|') {
		return false
	}
	if len(s) == 2 {
		return true
	}
	switch s[2] {
	case '/', '\\', '?', '#':
		return true
	default:
		return false
	}
}

// normalizeDriveLetterSegment rewrites a two-byte drive-letter segment
// so its second byte is always ':' (file: URLs normalize '|' to ':').
func normalizeDriveLetterSegment(seg string) string {
	if len(seg) == 2 && seg[1] == '|' {
		return seg[:1] + ":"
	}
	return seg
}

// percentEncodePathSegment encodes one path segment with the path set
// (special-path set is the same predicate set here; the only
// difference special schemes make to path encoding is the backslash
// separator rule applied by the caller before segments are split).
func percentEncodePathSegment(seg []byte) []byte {
	return PercentEncode(seg, PathPercentEncodeSet)
}

// serializePath renders a non-opaque path's segments, joined by '/'
// with a leading '/', per the canonical serialization the parser and
// setters both produce.
func serializePath(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

// pathNeedsSigil reports whether, given no host, the serialized path
// begins with "//" and therefore needs the "/." path-sigil (§3.3
// invariant 4, §4.3's "Path sigil").
func pathNeedsSigil(serializedPath string) bool {
	return strings.HasPrefix(serializedPath, "//")
}

// firstSegmentLength returns the byte length of the first path
// segment (without its leading '/'), used by URLStructure's setter
// fast path (§4.5).
func firstSegmentLength(segs []string) int {
	if len(segs) == 0 {
		return 0
	}
	return len(segs[0])
}

// opaquePathEncode percent-encodes a cannot-be-a-base URL's single
// opaque path segment with the C0 control set, per §4.3's "Opaque path
// mode".
func opaquePathEncode(s []byte) []byte {
	return PercentEncode(s, C0ControlPercentEncodeSet)
}
