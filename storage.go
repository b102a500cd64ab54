package weburl

import "strconv"

// This file implements the second half of §4.4/§4.5: buildStorage
// takes the logical parseContext a state-machine walk produces and
// lays it out into the single canonical byte buffer plus URLStructure
// offsets §3.3 mandates. None of the pack's examples serialize this
// way (they all mutate a shared buffer mid-walk), so the layout order
// below follows spec.md §3.3/§4.5's field list directly: scheme,
// optional sigil, userinfo, host, port, path, query, fragment.

func buildStorage(ctx *parseContext) *URL {
	var b []byte
	var st URLStructure
	st.SchemeKind = ctx.schemeKind
	st.CannotBeABase = ctx.cannotBeABase

	b = append(b, ctx.scheme...)
	st.SchemeEnd = len(b)
	b = append(b, ':')

	var pathStr string
	if ctx.cannotBeABase {
		pathStr = ctx.opaqueSeg
	} else {
		pathStr = serializePath(ctx.pathSegs)
	}

	if ctx.hasHost {
		st.Sigil = SigilAuthority
		b = append(b, '/', '/')

		if ctx.username != "" || ctx.hasPassword {
			b = append(b, ctx.username...)
			st.UsernameEnd = len(b)
			if ctx.hasPassword {
				b = append(b, ':')
				st.PasswordStart = len(b)
				b = append(b, ctx.password...)
				st.PasswordEnd = len(b)
			} else {
				st.PasswordStart = -1
				st.PasswordEnd = -1
			}
			b = append(b, '@')
		} else {
			st.UsernameEnd = len(b)
			st.PasswordStart = -1
			st.PasswordEnd = -1
		}

		st.HostStart = len(b)
		b = append(b, ctx.host.Serialize()...)
		st.HostEnd = len(b)
		st.HostKind = ctx.host.Kind

		if ctx.hasPort {
			b = append(b, ':')
			st.PortStart = len(b)
			b = append(b, strconv.FormatUint(uint64(ctx.port), 10)...)
			st.PortEnd = len(b)
		} else {
			st.PortStart = -1
			st.PortEnd = -1
		}
	} else {
		st.UsernameEnd = len(b)
		st.PasswordStart = -1
		st.PasswordEnd = -1
		st.HostStart = len(b)
		st.HostEnd = len(b)
		st.HostKind = HostAbsent
		st.PortStart = -1
		st.PortEnd = -1

		if !ctx.cannotBeABase && pathNeedsSigil(pathStr) {
			st.Sigil = SigilPath
			b = append(b, '/', '.')
		} else {
			st.Sigil = SigilNone
		}
	}

	st.PathStart = len(b)
	b = append(b, pathStr...)
	st.PathEnd = len(b)
	if ctx.cannotBeABase {
		st.FirstPathComponentLength = len(pathStr)
	} else {
		st.FirstPathComponentLength = firstSegmentLength(ctx.pathSegs)
	}

	if ctx.query != nil {
		b = append(b, '?')
		st.QueryStart = len(b)
		b = append(b, *ctx.query...)
		st.QueryEnd = len(b)
	} else {
		st.QueryStart = -1
		st.QueryEnd = -1
	}

	if ctx.fragment != nil {
		b = append(b, '#')
		st.FragmentStart = len(b)
		b = append(b, *ctx.fragment...)
		st.FragmentEnd = len(b)
	} else {
		st.FragmentStart = -1
		st.FragmentEnd = -1
	}

	return &URL{buf: newStorageBuf(b), s: st}
}
