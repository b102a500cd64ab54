package weburl

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// This file implements §4.4: the URL parser state machine. The walk
// below — state names, transition order, the authority/host/port
// buffer handling, the file: drive-letter special cases — is adapted
// directly from the retrieved whatwg-url parser's basicParser
// (other_examples/3ba66546_nlnwa-whatwg-url__url-parser.go.go), which
// is itself the closest thing in the pack to a ground-truth Go
// rendering of the WHATWG algorithm. It is restructured here in two
// phases to fit this spec's storage model (§3.3/§4.5): the state
// machine builds a logical parseContext (this file), then
// buildStorage assembles the canonical byte buffer and URLStructure
// from it (storage.go), rather than splicing a
// shared buffer mid-walk the way a field-per-component parser like
// nlnwa's or region23-urlparser's can get away with.

type parserState int

const (
	stateSchemeStart parserState = iota
	stateScheme
	stateNoScheme
	stateSpecialRelativeOrAuthority
	statePathOrAuthority
	stateRelative
	stateRelativeSlash
	stateSpecialAuthoritySlashes
	stateSpecialAuthorityIgnoreSlashes
	stateAuthority
	stateHost
	statePort
	stateFile
	stateFileSlash
	stateFileHost
	statePathStart
	statePath
	stateOpaquePath
	stateQuery
	stateFragment
	stateNone parserState = -1
)

// parseContext is the logical, not-yet-serialized result of a walk
// through the state machine: one field per component, the same shape
// every field-per-component parser in the pack uses internally, kept
// here purely as scratch state before buildStorage lays it out into
// §3.3's buffer+offsets form.
type parseContext struct {
	scheme     string
	schemeKind SchemeKind

	username string
	password string
	hasPassword bool

	host    Host
	hasHost bool

	port    uint32
	hasPort bool

	pathSegs      []string
	cannotBeABase bool
	opaqueSeg     string

	query    *string
	fragment *string
}

// ValidationError records one "non-fatal" condition spec.md §4.4 says
// parsers must handle silently; ParseOptions.ReportValidationErrors
// opts into collecting them instead of only logging them.
type ValidationError struct {
	Code string
}

// ParseOptions supplements spec.md with an opt-in validation-error
// collection path, grounded on nlnwa-whatwg-url's
// Parser.ReportValidationErrors field (other_examples).
type ParseOptions struct {
	ReportValidationErrors bool
}

type parseRun struct {
	opts   ParseOptions
	errs   []ValidationError
}

func (r *parseRun) nonFatal(code string) {
	logNonFatal(code, "")
	if r.opts.ReportValidationErrors {
		r.errs = append(r.errs, ValidationError{Code: code})
	}
}

// TryParse parses input with no base URL, returning (nil, false) on
// any syntactic failure, matching spec.md §4.4's "no partial success".
func TryParse(input string) (*URL, bool) {
	u, _, ok := parse(input, nil, stateNone, ParseOptions{})
	return u, ok
}

// Parse is the error-returning convenience wrapper around TryParse.
func Parse(input string) (*URL, error) {
	u, ok := TryParse(input)
	if !ok {
		return nil, ErrNotAURL
	}
	return u, nil
}

// ParseWithOptions parses input, additionally collecting non-fatal
// validation events when opts.ReportValidationErrors is set.
func ParseWithOptions(input string, opts ParseOptions) (*URL, []ValidationError, bool) {
	return parse(input, nil, stateNone, opts)
}

// Resolve parses input using u as the base URL, implementing §6's
// `resolve(input) -> Option<URL>` = parse with self as base.
func (u *URL) Resolve(input string) (*URL, bool) {
	r, _, ok := parse(input, u, stateNone, ParseOptions{})
	return r, ok
}

func parse(input string, base *URL, override parserState, opts ParseOptions) (*URL, []ValidationError, bool) {
	run := &parseRun{opts: opts}

	raw := []byte(input)
	trimmed, didTrim := trimC0AndSpace(raw)
	if didTrim {
		run.nonFatal("leading-or-trailing-c0-or-space")
	}
	filtered, didFilter := removeTabsAndNewlines(trimmed)
	if didFilter {
		run.nonFatal("tab-or-newline-in-input")
	}

	ctx, ok := runStateMachine(filtered, base, override, run)
	if !ok {
		return nil, run.errs, false
	}

	u := buildStorage(ctx)
	return u, run.errs, true
}

func runStateMachine(input []byte, base *URL, override parserState, run *parseRun) (*parseContext, bool) {
	ctx := &parseContext{}
	overridden := override != stateNone
	state := stateSchemeStart
	if overridden {
		state = override
	}

	var baseCtx *parseContext
	if base != nil {
		baseCtx = urlToContext(base)
	}

	r := newCodePointReader(input)
	var buf strings.Builder
	atFlag := false
	bracketDepth := 0
	passwordSeen := false

	for {
		c := r.next()

		switch state {
		case stateSchemeStart:
			if c < 0x80 && isASCIIAlpha(byte(c)) {
				buf.WriteByte(asciiLower(byte(c)))
				state = stateScheme
			} else if !overridden {
				state = stateNoScheme
				r.pos = 0
				buf.Reset()
			} else {
				return nil, false
			}

		case stateScheme:
			if c < 0x80 && isValidSchemeChar(byte(c)) {
				buf.WriteByte(asciiLower(byte(c)))
			} else if c == ':' {
				scheme := buf.String()
				kind := schemeKindOf(scheme)
				if overridden {
					if ctx.schemeKind.IsSpecial() != kind.IsSpecial() {
						return ctx, true // no-op per stateOverride rules
					}
					if kind == SchemeFile && (ctx.username != "" || ctx.password != "" || ctx.hasPort) {
						return ctx, true
					}
					if ctx.schemeKind == SchemeFile && ctx.hasHost && ctx.host.Kind == HostEmpty {
						return ctx, true
					}
				}
				ctx.scheme = scheme
				ctx.schemeKind = kind
				if overridden {
					cleanDefaultPort(ctx)
					return ctx, true
				}
				buf.Reset()
				if kind == SchemeFile {
					if !r.remainingStartsWith("//") {
						run.nonFatal("special-scheme-missing-following-solidus")
					}
					state = stateFile
				} else if kind.IsSpecial() && baseCtx != nil && baseCtx.schemeKind == kind {
					state = stateSpecialRelativeOrAuthority
				} else if kind.IsSpecial() {
					state = stateSpecialAuthoritySlashes
				} else if r.remainingStartsWith("/") {
					state = statePathOrAuthority
					r.next()
				} else {
					ctx.cannotBeABase = true
					state = stateOpaquePath
				}
			} else if !overridden {
				buf.Reset()
				state = stateNoScheme
				r.pos = 0
			} else {
				return nil, false
			}

		case stateNoScheme:
			if baseCtx == nil || (baseCtx.cannotBeABase && c != '#') {
				return nil, false
			}
			if baseCtx.cannotBeABase && c == '#' {
				ctx.scheme = baseCtx.scheme
				ctx.schemeKind = baseCtx.schemeKind
				ctx.pathSegs = baseCtx.pathSegs
				ctx.opaqueSeg = baseCtx.opaqueSeg
				ctx.cannotBeABase = true
				ctx.query = copyStringPtr(baseCtx.query)
				ctx.fragment = new(string)
				state = stateFragment
				continue
			}
			if baseCtx.schemeKind != SchemeFile {
				state = stateRelative
				r.rewindLast()
			} else {
				state = stateFile
				r.rewindLast()
			}

		case stateSpecialRelativeOrAuthority:
			if c == '/' && r.remainingStartsWith("/") {
				state = stateSpecialAuthorityIgnoreSlashes
				r.next()
			} else {
				run.nonFatal("missing-solidus-after-special-scheme")
				state = stateRelative
				r.rewindLast()
			}

		case statePathOrAuthority:
			if c == '/' {
				state = stateAuthority
			} else {
				state = statePath
				r.rewindLast()
			}

		case stateRelative:
			ctx.scheme = baseCtx.scheme
			ctx.schemeKind = baseCtx.schemeKind
			if r.atEOF() && c == eof {
				inheritAuthority(ctx, baseCtx)
				ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
				ctx.query = copyStringPtr(baseCtx.query)
				return ctx, true
			}
			switch {
			case c == '/':
				state = stateRelativeSlash
			case c == '?':
				inheritAuthority(ctx, baseCtx)
				ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
				q := ""
				ctx.query = &q
				state = stateQuery
			case c == '#':
				inheritAuthority(ctx, baseCtx)
				ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
				ctx.query = copyStringPtr(baseCtx.query)
				f := ""
				ctx.fragment = &f
				state = stateFragment
			case ctx.schemeKind.IsSpecial() && c == '\\':
				run.nonFatal("invalid-reverse-solidus")
				state = stateRelativeSlash
			default:
				inheritAuthority(ctx, baseCtx)
				ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
				if len(ctx.pathSegs) > 0 {
					ctx.pathSegs = ctx.pathSegs[:len(ctx.pathSegs)-1]
				}
				state = statePath
				r.rewindLast()
			}

		case stateRelativeSlash:
			if ctx.schemeKind.IsSpecial() && (c == '/' || c == '\\') {
				if c == '\\' {
					run.nonFatal("invalid-reverse-solidus")
				}
				state = stateSpecialAuthorityIgnoreSlashes
			} else if c == '/' {
				state = stateAuthority
			} else {
				ctx.username = baseCtx.username
				ctx.password = baseCtx.password
				ctx.hasPassword = baseCtx.hasPassword
				ctx.host = baseCtx.host
				ctx.hasHost = baseCtx.hasHost
				ctx.port = baseCtx.port
				ctx.hasPort = baseCtx.hasPort
				state = statePath
				r.rewindLast()
			}

		case stateSpecialAuthoritySlashes:
			if c == '/' && r.remainingStartsWith("/") {
				state = stateSpecialAuthorityIgnoreSlashes
				r.next()
			} else {
				run.nonFatal("missing-solidus-after-special-scheme")
				state = stateSpecialAuthorityIgnoreSlashes
				r.rewindLast()
			}

		case stateSpecialAuthorityIgnoreSlashes:
			if c != '/' && c != '\\' {
				state = stateAuthority
				r.rewindLast()
			} else {
				run.nonFatal("special-scheme-missing-following-solidus")
			}

		case stateAuthority:
			if c == '@' {
				run.nonFatal("invalid-credentials")
				if atFlag {
					buf2 := "%40" + buf.String()
					buf.Reset()
					buf.WriteString(buf2)
				}
				atFlag = true
				applyCredentials(ctx, buf.String(), &passwordSeen)
				buf.Reset()
			} else if c == eof || c == '/' || c == '?' || c == '#' ||
				(ctx.schemeKind.IsSpecial() && c == '\\') {
				if atFlag && buf.Len() == 0 {
					return nil, false
				}
				rewindBy(r, utf8.RuneCountInString(buf.String())+1)
				buf.Reset()
				state = stateHost
			} else {
				buf.WriteRune(c)
			}

		case stateHost:
			if overridden && ctx.schemeKind == SchemeFile {
				r.rewindLast()
				state = stateFileHost
			} else if c == ':' && bracketDepth == 0 {
				if buf.Len() == 0 {
					return nil, false
				}
				host, err := ParseHost(buf.String(), ctx.schemeKind.IsSpecial(), ctx.schemeKind.IsFile())
				if err != nil {
					return nil, false
				}
				ctx.host = host
				ctx.hasHost = true
				buf.Reset()
				state = statePort
				if override == stateHost {
					return ctx, true
				}
			} else if c == eof || c == '/' || c == '?' || c == '#' ||
				(ctx.schemeKind.IsSpecial() && c == '\\') {
				r.rewindLast()
				if ctx.schemeKind.IsSpecial() && buf.Len() == 0 {
					return nil, false
				}
				if overridden && buf.Len() == 0 && (ctx.username != "" || ctx.password != "" || ctx.hasPort) {
					return ctx, true
				}
				host, err := ParseHost(buf.String(), ctx.schemeKind.IsSpecial(), ctx.schemeKind.IsFile())
				if err != nil {
					return nil, false
				}
				ctx.host = host
				ctx.hasHost = true
				buf.Reset()
				state = statePathStart
				if overridden {
					return ctx, true
				}
			} else {
				if c == '[' {
					bracketDepth++
				} else if c == ']' {
					bracketDepth--
				}
				buf.WriteRune(c)
			}

		case statePort:
			if c >= '0' && c <= '9' {
				buf.WriteRune(c)
			} else if c == eof || c == '/' || c == '?' || c == '#' ||
				(ctx.schemeKind.IsSpecial() && c == '\\') || overridden {
				if buf.Len() > 0 {
					n, err := strconv.Atoi(buf.String())
					if err != nil || n > 65535 {
						return nil, false
					}
					ctx.port = uint32(n)
					ctx.hasPort = true
					cleanDefaultPort(ctx)
					buf.Reset()
				}
				if overridden {
					return ctx, true
				}
				state = statePathStart
				r.rewindLast()
			} else {
				return nil, false
			}

		case stateFile:
			ctx.scheme = "file"
			ctx.schemeKind = SchemeFile
			ctx.host = EmptyHost()
			ctx.hasHost = true
			if c == '/' || c == '\\' {
				if c == '\\' {
					run.nonFatal("invalid-reverse-solidus")
				}
				state = stateFileSlash
			} else if baseCtx != nil && baseCtx.schemeKind == SchemeFile {
				if c == eof {
					ctx.host = baseCtx.host
					ctx.hasHost = baseCtx.hasHost
					ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
					ctx.query = copyStringPtr(baseCtx.query)
				} else if c == '?' {
					ctx.host = baseCtx.host
					ctx.hasHost = baseCtx.hasHost
					ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
					q := ""
					ctx.query = &q
					state = stateQuery
				} else if c == '#' {
					ctx.host = baseCtx.host
					ctx.hasHost = baseCtx.hasHost
					ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
					ctx.query = copyStringPtr(baseCtx.query)
					f := ""
					ctx.fragment = &f
					state = stateFragment
				} else {
					if !startsWithWindowsDriveLetter(r.remainingFrom()) {
						ctx.host = baseCtx.host
						ctx.hasHost = baseCtx.hasHost
						ctx.pathSegs = append([]string(nil), baseCtx.pathSegs...)
						popPathSegment(ctx)
					} else {
						run.nonFatal("file-invalid-windows-drive-letter")
					}
					state = statePath
					r.rewindLast()
				}
			} else {
				state = statePath
				r.rewindLast()
			}

		case stateFileSlash:
			if c == '/' || c == '\\' {
				if c == '\\' {
					run.nonFatal("invalid-reverse-solidus")
				}
				state = stateFileHost
			} else {
				if baseCtx != nil && baseCtx.schemeKind == SchemeFile && !startsWithWindowsDriveLetter(r.remainingFrom()) {
					if len(baseCtx.pathSegs) > 0 && isNormalizedWindowsDriveLetter(baseCtx.pathSegs[0]) {
						ctx.pathSegs = append(ctx.pathSegs, baseCtx.pathSegs[0])
					} else {
						ctx.host = baseCtx.host
						ctx.hasHost = baseCtx.hasHost
					}
				}
				state = statePath
				r.rewindLast()
			}

		case stateFileHost:
			if c == eof || c == '/' || c == '\\' || c == '?' || c == '#' {
				r.rewindLast()
				if !overridden && isWindowsDriveLetter(buf.String()) {
					run.nonFatal("file-invalid-windows-drive-letter")
					state = statePath
				} else if buf.Len() == 0 {
					ctx.host = EmptyHost()
					ctx.hasHost = true
					if overridden {
						return ctx, true
					}
					state = statePathStart
				} else {
					host, err := ParseHost(buf.String(), true, true)
					if err != nil {
						return nil, false
					}
					if h, ok := host.Domain(); ok && h == "localhost" {
						host = EmptyHost()
					}
					ctx.host = host
					ctx.hasHost = true
					if overridden {
						return ctx, true
					}
					buf.Reset()
					state = statePathStart
				}
			} else {
				buf.WriteRune(c)
			}

		case statePathStart:
			if ctx.schemeKind.IsSpecial() {
				if c == '\\' {
					run.nonFatal("invalid-reverse-solidus")
				}
				state = statePath
				if c != '/' && c != '\\' {
					r.rewindLast()
				}
			} else if !overridden && c == '?' {
				q := ""
				ctx.query = &q
				state = stateQuery
			} else if !overridden && c == '#' {
				f := ""
				ctx.fragment = &f
				state = stateFragment
			} else if c != eof {
				state = statePath
				if c != '/' {
					r.rewindLast()
				}
			}

		case statePath:
			atSegEnd := c == eof || c == '/' || (ctx.schemeKind.IsSpecial() && c == '\\') ||
				(!overridden && (c == '?' || c == '#'))
			if atSegEnd {
				if ctx.schemeKind.IsSpecial() && c == '\\' {
					run.nonFatal("invalid-reverse-solidus")
				}
				seg := buf.String()
				if isDotDotSegment(seg) {
					popPathSegment(ctx)
					if c != '/' && !(ctx.schemeKind.IsSpecial() && c == '\\') {
						ctx.pathSegs = append(ctx.pathSegs, "")
					}
				} else if isDotSegment(seg) {
					if c != '/' && !(ctx.schemeKind.IsSpecial() && c == '\\') {
						ctx.pathSegs = append(ctx.pathSegs, "")
					}
				} else {
					if ctx.schemeKind == SchemeFile && len(ctx.pathSegs) == 0 && isWindowsDriveLetter(seg) {
						if ctx.hasHost && ctx.host.Kind != HostEmpty {
							run.nonFatal("file-invalid-windows-drive-letter-host")
							ctx.host = EmptyHost()
						}
						seg = normalizeDriveLetterSegment(seg)
					}
					ctx.pathSegs = append(ctx.pathSegs, seg)
				}
				buf.Reset()
				if ctx.schemeKind == SchemeFile && (c == eof || c == '?' || c == '#') {
					for len(ctx.pathSegs) > 1 && ctx.pathSegs[0] == "" {
						run.nonFatal("invalid-reverse-solidus")
						ctx.pathSegs = ctx.pathSegs[1:]
					}
				}
				if c == '?' {
					q := ""
					ctx.query = &q
					state = stateQuery
				} else if c == '#' {
					f := ""
					ctx.fragment = &f
					state = stateFragment
				}
			} else {
				if !isURLCodePointRune(c) && c != '%' {
					run.nonFatal("invalid-url-unit")
				}
				buf.Write(percentEncodePathSegment([]byte(string(c))))
			}

		case stateOpaquePath:
			if c == '?' {
				q := ""
				ctx.query = &q
				state = stateQuery
			} else if c == '#' {
				f := ""
				ctx.fragment = &f
				state = stateFragment
			} else {
				if c != eof {
					if !isURLCodePointRune(c) && c != '%' {
						run.nonFatal("invalid-url-unit")
					}
					ctx.opaqueSeg += string(opaquePathEncode([]byte(string(c))))
				}
			}

		case stateQuery:
			if !overridden && c == '#' {
				f := ""
				ctx.fragment = &f
				state = stateFragment
			} else if c != eof {
				if !isURLCodePointRune(c) && c != '%' {
					run.nonFatal("invalid-url-unit")
				}
				set := QueryPercentEncodeSet
				if ctx.schemeKind.IsSpecial() {
					set = SpecialQueryPercentEncodeSet
				}
				*ctx.query += string(PercentEncode([]byte(string(c)), set))
			}

		case stateFragment:
			if c != eof {
				if !isURLCodePointRune(c) && c != '%' {
					run.nonFatal("invalid-url-unit")
				}
				*ctx.fragment += string(PercentEncode([]byte(string(c)), FragmentPercentEncodeSet))
			}
		}

		if c == eof && r.pos > len(r.s) {
			break
		}
	}

	if ctx.schemeKind == SchemeOther && ctx.scheme == "" {
		return nil, false
	}
	return ctx, true
}

func rewindBy(r *codePointReader, n int) {
	for i := 0; i < n; i++ {
		r.rewindLast()
	}
}

func applyCredentials(ctx *parseContext, raw string, passwordSeen *bool) {
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == ':' && !*passwordSeen {
			*passwordSeen = true
			ctx.hasPassword = true
			i++
			continue
		}
		enc := string(PercentEncode([]byte{c}, UserinfoPercentEncodeSet))
		if *passwordSeen {
			ctx.password += enc
		} else {
			ctx.username += enc
		}
		i++
	}
}

func inheritAuthority(ctx, base *parseContext) {
	ctx.username = base.username
	ctx.password = base.password
	ctx.hasPassword = base.hasPassword
	ctx.host = base.host
	ctx.hasHost = base.hasHost
	ctx.port = base.port
	ctx.hasPort = base.hasPort
}

func popPathSegment(ctx *parseContext) {
	ps := &pathSegments{segs: ctx.pathSegs}
	ps.popOne(ctx.schemeKind == SchemeFile)
	ctx.pathSegs = ps.segs
}

func cleanDefaultPort(ctx *parseContext) {
	if dp, ok := ctx.schemeKind.defaultPort(); ok && ctx.hasPort && uint32(dp) == ctx.port {
		ctx.hasPort = false
		ctx.port = 0
	}
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// urlToContext reconstructs a parseContext from an already-built URL,
// so the state machine can use a previously parsed URL as a base
// without re-parsing its serialization.
func urlToContext(u *URL) *parseContext {
	ctx := &parseContext{
		scheme:        u.Scheme(),
		schemeKind:    u.s.SchemeKind,
		username:      u.Username(),
		cannotBeABase: u.s.CannotBeABase,
	}
	if pw, ok := u.Password(); ok {
		ctx.password = pw
		ctx.hasPassword = true
	}
	ctx.host = u.Host()
	ctx.hasHost = u.s.hasAuthority()
	if p, ok := u.Port(); ok {
		n, _ := strconv.Atoi(p)
		ctx.port = uint32(n)
		ctx.hasPort = true
	}
	if ctx.cannotBeABase {
		ctx.opaqueSeg = u.Path()
	} else {
		it := u.PathComponents()
		for seg, ok := it.Next(); ok; seg, ok = it.Next() {
			ctx.pathSegs = append(ctx.pathSegs, seg)
		}
	}
	if q, ok := u.Query(); ok {
		ctx.query = &q
	}
	if f, ok := u.Fragment(); ok {
		ctx.fragment = &f
	}
	return ctx
}
