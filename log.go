package weburl

import "github.com/sirupsen/logrus"

// This file is the ambient logging stack named in SPEC_FULL.md,
// carried over from grafana-k6 (the pack's only repo with its own
// go.mod), which wires github.com/sirupsen/logrus as a package-level,
// swappable logger rather than printing directly. It never influences
// parsing/setter results — every call site here is a Debug-level
// observability hook for the "non-fatal" conditions spec.md §4.4
// calls out.

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package-level logger used for non-fatal
// validation diagnostics. Passing nil restores the standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = logrus.StandardLogger()
		return
	}
	log = l
}

func logNonFatal(event, input string) {
	log.WithField("event", event).Debug("weburl: non-fatal validation condition: " + input)
}
