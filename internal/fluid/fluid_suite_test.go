package fluid_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFluid(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fluid Solver Suite")
}
