//go:build !amd64 && !arm64

package hwy

func init() {
	// Other architectures run the scalar kernels with math.FMA's software
	// path unless the Go port lowers it to an instruction, which is not
	// detectable from here.
	hasFMA = false
	setScalarMode()
}
