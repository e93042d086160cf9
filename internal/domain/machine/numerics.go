package machine

import "math/cmplx"

// lncosh is the numerically-stable log(cosh(z)) used throughout the RBM
// forward pass: naive cosh(z) overflows float64 for |Re(z)| beyond
// roughly 710, which happens routinely once a handful of hidden-unit
// activations saturate. For |Re(z)| below the crossover the exact
// complex log(cosh(z)) is used; above it, cosh(z) is replaced by its
// leading exponential asymptotic.
func lncosh(z complex128) complex128 {
	x := real(z)
	ax := x
	if ax < 0 {
		ax = -ax
	}
	if ax < 12 {
		return cmplx.Log(cmplx.Cosh(z))
	}
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	const ln2 = 0.6931471805599453
	return complex(ax-ln2, sign*imag(z))
}

// lncoshVec applies lncosh elementwise.
func lncoshVec(z []complex128) []complex128 {
	out := make([]complex128, len(z))
	for i, zi := range z {
		out[i] = lncosh(zi)
	}
	return out
}

// tanhVec applies complex tanh elementwise, used by the log-derivative.
func tanhVec(z []complex128) []complex128 {
	out := make([]complex128, len(z))
	for i, zi := range z {
		out[i] = cmplx.Tanh(zi)
	}
	return out
}

func sumComplex(z []complex128) complex128 {
	var s complex128
	for _, zi := range z {
		s += zi
	}
	return s
}
