package weburl

import (
	"sort"
	"strings"
)

// This file implements §6's form_params view and §3.3's
// query_is_known_form_encoded optimization flag. Grounded on the
// key=value&key=value pair semantics every net/url-family example in
// the pack implements via url.Values, adapted here to read/write
// through this package's own query getter/setter rather than a
// separately-owned map, so a write always goes back through
// buildStorage and keeps the canonical buffer authoritative.

// QueryPair is one form-decoded key/value pair from a query string.
type QueryPair struct {
	Key   string
	Value string
}

// FormParams is a view over a URL's query as x-www-form-urlencoded
// pairs. It holds no state of its own; every method reads or writes
// through the URL it was obtained from.
type FormParams struct {
	u *URL
}

// FormParams returns the form-parameters view over u's query.
func (u *URL) FormParams() FormParams { return FormParams{u: u} }

// pairs returns the current query decoded into ordered key/value
// pairs; stretches of '&' with neither a key nor a value are skipped,
// per §6.
func (f FormParams) pairs() []QueryPair {
	raw, ok := f.u.Query()
	if !ok {
		return nil
	}
	return parseFormPairs(raw)
}

func parseFormPairs(raw string) []QueryPair {
	var out []QueryPair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, hasEq := strings.Cut(part, "=")
		p := QueryPair{Key: FormDecodeString(k)}
		if hasEq {
			p.Value = FormDecodeString(v)
		}
		out = append(out, p)
	}
	return out
}

func serializeFormPairs(pairs []QueryPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(FormEncodeString(p.Key))
		b.WriteByte('=')
		b.WriteString(FormEncodeString(p.Value))
	}
	return b.String()
}

// commit replaces the URL's query with pairs' form-encoded
// serialization, or removes the query entirely (nil, not "") if pairs
// is empty, and marks query_is_known_form_encoded true, per §6's
// "write operations... set query_is_known_form_encoded = true".
func (f FormParams) commit(pairs []QueryPair) {
	ctx := urlToContext(f.u)
	if len(pairs) == 0 {
		ctx.query = nil
		n := buildStorage(ctx)
		n.s.QueryIsKnownFormEncoded = true
		f.u.replaceWith(n)
		return
	}
	q := serializeFormPairs(pairs)
	ctx.query = &q
	n := buildStorage(ctx)
	n.s.QueryIsKnownFormEncoded = true
	f.u.replaceWith(n)
}

// Get returns the value of the first pair whose key matches, and
// whether one was found.
func (f FormParams) Get(key string) (string, bool) {
	for _, p := range f.pairs() {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of every pair whose key matches, in order.
func (f FormParams) GetAll(key string) []string {
	var out []string
	for _, p := range f.pairs() {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Contains reports whether any pair has the given key.
func (f FormParams) Contains(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Append adds a new pair at the end, without disturbing any existing
// pair with the same key.
func (f FormParams) Append(key, value string) {
	all := append(f.pairs(), QueryPair{Key: key, Value: value})
	f.commit(all)
}

// AppendFromMap appends every entry of m, sorted by key bytes
// ascending (§9's "dictionary ordering" rule for deterministic output
// from an unordered source).
func (f FormParams) AppendFromMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	all := f.pairs()
	for _, k := range keys {
		all = append(all, QueryPair{Key: k, Value: m[k]})
	}
	f.commit(all)
}

// Set replaces the value of the first pair with the given key and
// removes every other pair with that key; if no pair has that key, it
// is appended.
func (f FormParams) Set(key, value string) {
	all := f.pairs()
	found := false
	out := all[:0:0]
	for _, p := range all {
		if p.Key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, QueryPair{Key: key, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, QueryPair{Key: key, Value: value})
	}
	f.commit(out)
}

// Remove deletes the first pair with the given key, if any.
func (f FormParams) Remove(key string) {
	all := f.pairs()
	for i, p := range all {
		if p.Key == key {
			f.commit(append(append([]QueryPair{}, all[:i]...), all[i+1:]...))
			return
		}
	}
}

// RemoveAll deletes every pair with the given key.
func (f FormParams) RemoveAll(key string) {
	all := f.pairs()
	out := all[:0:0]
	for _, p := range all {
		if p.Key != key {
			out = append(out, p)
		}
	}
	f.commit(out)
}

// Assign replaces the entire query with pairs, in the given order.
// Assigning an empty slice removes the query (nil, not ""), per §6.
func (f FormParams) Assign(pairs []QueryPair) {
	f.commit(append([]QueryPair(nil), pairs...))
}

// All returns every current pair, in order; a convenience for callers
// that want a plain slice rather than stepping an iterator.
func (f FormParams) All() []QueryPair { return f.pairs() }

// FormParamIterator walks a query's pairs one at a time without
// requiring the caller to materialize the full slice up front, in the
// spirit of §9's restartable, allocation-minimal views (the
// underlying query bytes are still decoded per pair on Next, not
// pre-split).
type FormParamIterator struct {
	raw string
	pos int
}

// Iterate returns a fresh iterator over f's current query.
func (f FormParams) Iterate() *FormParamIterator {
	raw, _ := f.u.Query()
	return &FormParamIterator{raw: raw}
}

// Next returns the next pair and true, or a zero QueryPair and false
// once exhausted. Empty "&&" stretches are skipped transparently.
func (it *FormParamIterator) Next() (QueryPair, bool) {
	for it.pos < len(it.raw) {
		rest := it.raw[it.pos:]
		idx := strings.IndexByte(rest, '&')
		var part string
		if idx < 0 {
			part = rest
			it.pos = len(it.raw)
		} else {
			part = rest[:idx]
			it.pos += idx + 1
		}
		if part == "" {
			continue
		}
		k, v, hasEq := strings.Cut(part, "=")
		p := QueryPair{Key: FormDecodeString(k)}
		if hasEq {
			p.Value = FormDecodeString(v)
		}
		return p, true
	}
	return QueryPair{}, false
}

// Reset restarts the iterator from the first pair.
func (it *FormParamIterator) Reset() { it.pos = 0 }
