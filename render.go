package weburl

import (
	"strings"

	"golang.org/x/net/idna"
)

// This file implements §6's domain renderer hook, the one place this
// package intentionally stops short of a built-in behavior (the IDNA
// gap documented in SPEC_FULL.md/DESIGN.md): Host only stores and
// compares ASCII labels, and any Unicode or policy-filtered display
// form is produced by a caller-supplied DomainRenderer. The
// process_domain/process_label/ready_to_return shape mirrors a visitor
// callback rather than returning a single string, so a renderer can
// short-circuit (e.g. a suffix-list trimmer that only cares about the
// last two labels) without this package building a whole-domain string
// it would then have to hand back and forth.

// DomainRenderer lets a caller assemble a display form of a domain
// host without this package taking an opinion on Unicode mapping or
// suffix-list policy. ProcessDomain is called once per Render call
// with the full ASCII domain; ProcessLabel is then called once per
// label, outermost (right-most, e.g. the TLD) first, with isEnd true
// on the final (left-most, e.g. the registrable label) call.
// ReadyToReturn lets the renderer stop early once it has what it
// needs.
type DomainRenderer interface {
	ProcessDomain(domain string)
	ProcessLabel(label string, isEnd bool)
	ReadyToReturn() bool
}

// Render walks h's labels through r, short-circuiting once
// r.ReadyToReturn() reports true. It is a no-op for any Host that
// isn't HostDomain.
func (h Host) Render(r DomainRenderer) {
	if h.Kind != HostDomain {
		return
	}
	r.ProcessDomain(h.domain)
	if r.ReadyToReturn() {
		return
	}
	labels := h.Labels()
	for i := len(labels) - 1; i >= 0; i-- {
		r.ProcessLabel(labels[i], i == 0)
		if r.ReadyToReturn() {
			return
		}
	}
}

// UnicodeDomainRenderer is a concrete DomainRenderer, grounded on
// region23-urlparser's own idna.ToUnicode call in its Normalize
// method, that decodes every "xn--" (Punycode/ACE) label back to its
// Unicode form and joins the result with '.'. It never mutates the
// Host it was built from; call it through Host.Render to obtain the
// display string via Unicode().
type UnicodeDomainRenderer struct {
	labels []string
	done   bool
}

func NewUnicodeDomainRenderer() *UnicodeDomainRenderer {
	return &UnicodeDomainRenderer{}
}

func (r *UnicodeDomainRenderer) ProcessDomain(domain string) {}

func (r *UnicodeDomainRenderer) ProcessLabel(label string, isEnd bool) {
	if decoded, err := idna.ToUnicode(label); err == nil {
		label = decoded
	}
	r.labels = append([]string{label}, r.labels...)
	if isEnd {
		r.done = true
	}
}

func (r *UnicodeDomainRenderer) ReadyToReturn() bool { return r.done }

// Unicode returns the joined Unicode display form accumulated so far.
func (r *UnicodeDomainRenderer) Unicode() string { return strings.Join(r.labels, ".") }
