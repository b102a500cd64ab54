package weburl

import "strconv"

// This file implements §4.6: the per-component setters. Each one
// reconstructs the URL's logical parseContext (urlToContext, parser.go),
// validates and splices in the new component using the same
// sub-parsers the state machine uses (ParseHost, the path segment
// rules, the percent-encode sets), then rebuilds the canonical buffer
// with buildStorage and swaps it in. This mirrors how region23-
// urlparser's own setters work: validate, mutate a field, reserialize,
// rather than the WHATWG spec's in-place "parser with a state
// override" walk, which this package's two-phase buffer model doesn't
// fit as directly.

// replaceWith swaps u's storage for n's, releasing u's old buffer
// reference. Used by every setter on success.
func (u *URL) replaceWith(n *URL) {
	if u.buf != nil {
		u.buf.refs--
	}
	u.buf = n.buf
	u.s = n.s
}

// SetScheme re-scheme's the URL, per §4.6: the new scheme must be
// syntactically valid, preserve special-ness, and file: may not carry
// credentials or a port.
func (u *URL) SetScheme(scheme string) *SetterError {
	scheme = normalizeSchemeString(scheme)
	lower := asciiLowerString(scheme)
	if !isValidSchemeString(lower) {
		return ErrInvalidScheme
	}
	newKind := schemeKindOf(lower)
	ctx := urlToContext(u)
	if newKind.IsSpecial() != ctx.schemeKind.IsSpecial() {
		return ErrChangeOfSchemeSpecialness
	}
	if newKind == SchemeFile && (ctx.hasCredentials() || ctx.hasPort) {
		return ErrNewSchemeCannotHaveCredentialsOrPort
	}
	if newKind.IsSpecial() && newKind != SchemeFile && ctx.hasHost && ctx.host.Kind == HostEmpty {
		return ErrNewSchemeCannotHaveEmptyHostname
	}
	ctx.scheme = lower
	ctx.schemeKind = newKind
	cleanDefaultPort(ctx)
	u.replaceWith(buildStorage(ctx))
	return nil
}

// hasCredentials reports whether ctx carries a non-empty username or
// any password token, mirroring URLStructure.hasCredentials for the
// pre-serialization context.
func (ctx *parseContext) hasCredentials() bool {
	return ctx.username != "" || ctx.hasPassword
}

// SetUsername replaces the username, percent-encoded with the userinfo
// set. Per §4.6, this is a no-op error if the URL has no host, is
// cannot-be-a-base, or uses the file scheme (none of which support
// credentials).
func (u *URL) SetUsername(username string) *SetterError {
	ctx := urlToContext(u)
	if ctx.cannotBeABase || !ctx.hasHost || ctx.schemeKind == SchemeFile {
		return ErrCannotHaveCredentialsOrPort
	}
	ctx.username = PercentEncodeString(username, UserinfoPercentEncodeSet)
	u.replaceWith(buildStorage(ctx))
	return nil
}

// SetPassword replaces the password. Passing hasPassword=false removes
// the ':' token entirely; hasPassword=true with password=="" keeps an
// empty password present (§3.3 invariant 6's null/empty distinction).
func (u *URL) SetPassword(password string, hasPassword bool) *SetterError {
	ctx := urlToContext(u)
	if ctx.cannotBeABase || !ctx.hasHost || ctx.schemeKind == SchemeFile {
		return ErrCannotHaveCredentialsOrPort
	}
	ctx.hasPassword = hasPassword
	if hasPassword {
		ctx.password = PercentEncodeString(password, UserinfoPercentEncodeSet)
	} else {
		ctx.password = ""
	}
	u.replaceWith(buildStorage(ctx))
	return nil
}

// SetHost reparses and replaces the host. An empty hostname is only
// permitted for file: (becomes the empty host) or a non-special scheme
// with no credentials/port and at least one path segment remaining
// (becomes an absent host); every other scheme rejects an empty
// hostname outright.
func (u *URL) SetHost(hostname string) *SetterError {
	ctx := urlToContext(u)
	if ctx.cannotBeABase {
		return ErrCannotSetHostOnCannotBeABaseURL
	}
	if hostname == "" {
		if ctx.schemeKind.IsSpecial() && ctx.schemeKind != SchemeFile {
			return ErrSchemeDoesNotSupportNilOrEmptyHostnames
		}
		if ctx.hasCredentials() || ctx.hasPort {
			return ErrCannotSetEmptyHostnameWithCredentialsOrPort
		}
		if ctx.schemeKind == SchemeFile {
			ctx.host = EmptyHost()
			ctx.hasHost = true
		} else {
			if len(ctx.pathSegs) == 0 {
				return ErrCannotRemoveHostnameWithoutPath
			}
			ctx.host = AbsentHost()
			ctx.hasHost = false
		}
		u.replaceWith(buildStorage(ctx))
		return nil
	}
	host, err := ParseHost(hostname, ctx.schemeKind.IsSpecial(), ctx.schemeKind.IsFile())
	if err != nil {
		return ErrInvalidHostname
	}
	ctx.host = host
	ctx.hasHost = true
	u.replaceWith(buildStorage(ctx))
	return nil
}

// SetPort replaces the port. hasPort=false removes it. file:, cannot-
// be-a-base, and hostless URLs never carry a port.
func (u *URL) SetPort(port uint32, hasPort bool) *SetterError {
	ctx := urlToContext(u)
	if ctx.cannotBeABase || !ctx.hasHost || ctx.schemeKind == SchemeFile {
		return ErrCannotHaveCredentialsOrPort
	}
	if hasPort {
		if port > 65535 {
			return ErrPortValueOutOfBounds
		}
		ctx.port = port
		ctx.hasPort = true
		cleanDefaultPort(ctx)
	} else {
		ctx.port = 0
		ctx.hasPort = false
	}
	u.replaceWith(buildStorage(ctx))
	return nil
}

// SetPortString is the string-input convenience form of SetPort,
// matching how an HTTP-style caller typically has the port as text; an
// empty string removes the port.
func (u *URL) SetPortString(port string) *SetterError {
	if port == "" {
		return u.SetPort(0, false)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 {
		return ErrPortValueOutOfBounds
	}
	return u.SetPort(uint32(n), true)
}

// SetPath reparses and replaces the path. Rejected outright on
// cannot-be-a-base URLs (§4.6). Setting a hostless, non-special URL's
// path to "" is also rejected: re-parsing "scheme:" with no path would
// produce a cannot-be-a-base URL, breaking the storage invariant that
// CannotBeABase never flips on a round trip (see
// ErrPathWouldBreakIdempotence).
func (u *URL) SetPath(path string) *SetterError {
	ctx := urlToContext(u)
	if ctx.cannotBeABase {
		return ErrCannotSetPathOnCannotBeABaseURL
	}
	segs := parsePathInput(path, ctx.schemeKind)
	if !ctx.hasHost && len(segs) == 0 {
		return ErrPathWouldBreakIdempotence
	}
	ctx.pathSegs = segs
	u.replaceWith(buildStorage(ctx))
	return nil
}

// SetQuery replaces the query. hasQuery=false removes it entirely
// (nil, distinct from present-but-empty per §3.3 invariant 6); the raw
// query is re-percent-encoded with the scheme-appropriate query set,
// and QueryIsKnownFormEncoded is reset to false since an arbitrary
// caller-supplied string is not known to be form-encoded.
func (u *URL) SetQuery(query string, hasQuery bool) *SetterError {
	ctx := urlToContext(u)
	if !hasQuery {
		ctx.query = nil
		u.replaceWith(buildStorage(ctx))
		return nil
	}
	set := QueryPercentEncodeSet
	if ctx.schemeKind.IsSpecial() {
		set = SpecialQueryPercentEncodeSet
	}
	q := PercentEncodeString(query, set)
	ctx.query = &q
	n := buildStorage(ctx)
	u.replaceWith(n)
	return nil
}

// SetFragment replaces the fragment. hasFragment=false removes it.
func (u *URL) SetFragment(fragment string, hasFragment bool) *SetterError {
	ctx := urlToContext(u)
	if !hasFragment {
		ctx.fragment = nil
		u.replaceWith(buildStorage(ctx))
		return nil
	}
	f := PercentEncodeString(fragment, FragmentPercentEncodeSet)
	ctx.fragment = &f
	u.replaceWith(buildStorage(ctx))
	return nil
}

// parsePathInput splits a caller-supplied path string into segments,
// applying the same dot-segment and file: drive-letter rules statePath
// applies during parsing (parser.go), so a setter-built path and a
// parsed one normalize identically.
func parsePathInput(input string, schemeKind SchemeKind) []string {
	ps := &pathSegments{}
	i, n := 0, len(input)
	if n == 0 && !schemeKind.IsSpecial() {
		return nil
	}
	if n > 0 && (input[0] == '/' || (schemeKind.IsSpecial() && input[0] == '\\')) {
		i = 1 // the leading separator starts the path; it is not a segment
	}
	for i <= n {
		start := i
		for i < n && input[i] != '/' && !(schemeKind.IsSpecial() && input[i] == '\\') {
			i++
		}
		seg := string(percentEncodePathSegment([]byte(input[start:i])))
		switch {
		case isDotDotSegment(seg):
			ps.popOne(schemeKind == SchemeFile)
			if i >= n {
				ps.push("")
			}
		case isDotSegment(seg):
			if i >= n {
				ps.push("")
			}
		default:
			if schemeKind == SchemeFile && len(ps.segs) == 0 && isWindowsDriveLetter(seg) {
				seg = normalizeDriveLetterSegment(seg)
			}
			ps.push(seg)
		}
		i++
	}
	return ps.segs
}

func asciiLowerString(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = asciiLower(c)
	}
	return string(b)
}
