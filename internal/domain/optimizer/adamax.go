package optimizer

import "math"

// AdaMax tracks a running L-infinity norm of the gradient per real
// coordinate (treating the real and imaginary parts of a complex
// parameter as two independent real coordinates, per the Wirtinger
// convention the rest of the optimizer package uses) and a bias-
// corrected first moment, in the style of Adam's L-infinity variant:
//
//	m  <- beta1*m + (1-beta1)*g
//	u  <- max(beta2*u, |g|)
//	theta <- theta - (eta/(1-beta1^t)) * m/(u+eps)
type AdaMax struct {
	Eta, Beta1, Beta2, Eps float64

	t          int
	mRe, mIm   []float64
	uRe, uIm   []float64
}

// NewAdaMax builds an AdaMax optimizer with the conventional defaults
// if beta1/beta2/eps are zero.
func NewAdaMax(eta, beta1, beta2, eps float64) *AdaMax {
	if beta1 == 0 {
		beta1 = 0.9
	}
	if beta2 == 0 {
		beta2 = 0.999
	}
	if eps == 0 {
		eps = 1e-8
	}
	return &AdaMax{Eta: eta, Beta1: beta1, Beta2: beta2, Eps: eps}
}

// Init implements Optimizer.
func (o *AdaMax) Init(npar int) {
	o.mRe = make([]float64, npar)
	o.mIm = make([]float64, npar)
	o.uRe = make([]float64, npar)
	o.uIm = make([]float64, npar)
	o.t = 0
}

// Update implements Optimizer.
func (o *AdaMax) Update(params, grad []complex128) []complex128 {
	o.t++
	bias := 1 - math.Pow(o.Beta1, float64(o.t))
	out := make([]complex128, len(params))
	for i := range params {
		gr, gi := real(grad[i]), imag(grad[i])

		o.mRe[i] = o.Beta1*o.mRe[i] + (1-o.Beta1)*gr
		o.mIm[i] = o.Beta1*o.mIm[i] + (1-o.Beta1)*gi

		o.uRe[i] = math.Max(o.Beta2*o.uRe[i], math.Abs(gr))
		o.uIm[i] = math.Max(o.Beta2*o.uIm[i], math.Abs(gi))

		stepRe := (o.Eta / bias) * o.mRe[i] / (o.uRe[i] + o.Eps)
		stepIm := (o.Eta / bias) * o.mIm[i] / (o.uIm[i] + o.Eps)

		out[i] = params[i] - complex(stepRe, stepIm)
	}
	return out
}

// Reset implements Optimizer.
func (o *AdaMax) Reset() {
	o.t = 0
	for i := range o.mRe {
		o.mRe[i], o.mIm[i], o.uRe[i], o.uIm[i] = 0, 0, 0, 0
	}
}
