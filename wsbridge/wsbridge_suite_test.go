package wsbridge_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWsbridge(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wsbridge Suite")
}
