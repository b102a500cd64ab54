package weburl_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// Bootstraps the Ginkgo suite for the integration-style parse/
// serialize/setter specs below, matching region23-urlparser's own
// BDD-style test file.

func TestWeburl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "weburl suite")
}
