package weburl

import "strings"

// SchemeKind tags a URL scheme as one of the six *special* schemes
// defined by the WHATWG URL Standard, or Other for everything else.
// Special schemes get backslash-as-separator, domain (not opaque)
// hosts, path normalization, and default-port elision.
type SchemeKind uint8

const (
	SchemeOther SchemeKind = iota
	SchemeHTTP
	SchemeHTTPS
	SchemeWS
	SchemeWSS
	SchemeFTP
	SchemeFile
)

// schemeKindOf classifies a scheme string (already lowercased, without
// the trailing colon) per RFC3986 and the WHATWG special-scheme table.
func schemeKindOf(scheme string) SchemeKind {
	switch scheme {
	case "http":
		return SchemeHTTP
	case "https":
		return SchemeHTTPS
	case "ws":
		return SchemeWS
	case "wss":
		return SchemeWSS
	case "ftp":
		return SchemeFTP
	case "file":
		return SchemeFile
	default:
		return SchemeOther
	}
}

// IsSpecial reports whether k is one of the six special schemes.
func (k SchemeKind) IsSpecial() bool {
	return k != SchemeOther
}

// IsFile reports whether k is the file scheme.
func (k SchemeKind) IsFile() bool {
	return k == SchemeFile
}

// defaultPort returns the scheme's default port and whether it has one.
// file has no default port.
func (k SchemeKind) defaultPort() (uint16, bool) {
	switch k {
	case SchemeHTTP, SchemeWS:
		return 80, true
	case SchemeHTTPS, SchemeWSS:
		return 443, true
	case SchemeFTP:
		return 21, true
	default:
		return 0, false
	}
}

// String renders the canonical lowercase scheme name for the special
// kinds; SchemeOther has no canonical rendering on its own (the actual
// scheme bytes live in URL storage).
func (k SchemeKind) String() string {
	switch k {
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	case SchemeWS:
		return "ws"
	case SchemeWSS:
		return "wss"
	case SchemeFTP:
		return "ftp"
	case SchemeFile:
		return "file"
	default:
		return "other"
	}
}

// isValidSchemeStart reports whether b can start a scheme.
func isValidSchemeStart(b byte) bool { return isASCIIAlpha(b) }

// isValidSchemeChar reports whether b can appear after the first byte
// of a scheme.
func isValidSchemeChar(b byte) bool {
	return isASCIIAlphanumeric(b) || b == '+' || b == '-' || b == '.'
}

// isValidSchemeString reports whether s is a syntactically valid
// scheme (sans trailing colon): alpha, then alphanumeric/+/-/.
func isValidSchemeString(s string) bool {
	if s == "" || !isValidSchemeStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isValidSchemeChar(s[i]) {
			return false
		}
	}
	return true
}

// normalizeSchemeString trims a trailing ':' that callers of the
// scheme setter are permitted to include; it does not change case
// (SetScheme lowercases separately).
func normalizeSchemeString(s string) string {
	return strings.TrimSuffix(s, ":")
}
