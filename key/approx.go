package key

import "github.com/cwbudde/algo-approx"

// fastExpF is the shared fast-exponential primitive the CQT and tuning
// Gaussian weights, the DBN belief weights, and the classical softmax stage
// route through.
func fastExpF(x float32) float32 {
	return approx.FastExp(x)
}
