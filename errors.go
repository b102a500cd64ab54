package weburl

import "errors"

// This file implements §7's error table. The parser itself never
// returns a typed error to callers (spec.md §4.4: "returns None on
// unrecoverable syntactic error... does not report a position"); the
// sentinel below only exists so Parse (the convenience, error-
// returning wrapper around TryParse) has something to wrap. Setter
// errors are the closed, named sentinel set in §7, matching how
// region23-urlparser declares ErrProtocolScheme et al. as package-
// level errors.New values rather than a custom error interface.

// ErrNotAURL is returned by Parse when TryParse reports failure; it
// carries no position or cause, matching spec.md §4.4's "no partial
// success" / "does not report a position".
var ErrNotAURL = errors.New("weburl: input could not be parsed as a URL")

// SetterError is the closed error enum from §7. Every setter that can
// fail returns one of these exact values, never a wrapped or
// constructed one, so callers can compare with ==  or errors.Is.
type SetterError struct {
	code string
}

func (e *SetterError) Error() string { return "weburl: " + e.code }

var (
	ErrInvalidScheme                            = &SetterError{"invalid scheme"}
	ErrChangeOfSchemeSpecialness                 = &SetterError{"setting scheme would change special-ness"}
	ErrNewSchemeCannotHaveCredentialsOrPort       = &SetterError{"new scheme cannot carry credentials or a port"}
	ErrNewSchemeCannotHaveEmptyHostname           = &SetterError{"new scheme does not allow an empty hostname"}
	ErrInvalidHostname                           = &SetterError{"invalid hostname"}
	ErrSchemeDoesNotSupportNilOrEmptyHostnames     = &SetterError{"scheme does not support a nil or empty hostname"}
	ErrCannotSetEmptyHostnameWithCredentialsOrPort = &SetterError{"cannot set an empty hostname while credentials or a port are present"}
	ErrCannotSetHostOnCannotBeABaseURL             = &SetterError{"cannot set host on a cannot-be-a-base URL"}
	ErrCannotSetPathOnCannotBeABaseURL             = &SetterError{"cannot set path on a cannot-be-a-base URL"}
	ErrCannotHaveCredentialsOrPort                = &SetterError{"scheme does not allow credentials or a port"}
	ErrPortValueOutOfBounds                      = &SetterError{"port value out of bounds"}
	ErrCannotRemoveHostnameWithoutPath             = &SetterError{"cannot remove hostname without also removing the path"}
	// ErrPathWouldBreakIdempotence is this implementation's resolution
	// of §9's "cannot-be-a-base + empty path" open question: setting
	// path to "" on a non-special, hostless URL is rejected rather
	// than silently produced, because re-parsing it would flip
	// CannotBeABase and violate §3.3 invariant 1. See SPEC_FULL.md and
	// DESIGN.md.
	ErrPathWouldBreakIdempotence = &SetterError{"setting path to empty would break idempotence on reparse"}
)
