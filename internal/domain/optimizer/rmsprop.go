package optimizer

import "math"

// RMSProp keeps a decayed running mean of squared gradients per
// coordinate and scales the step by its inverse square root:
//
//	Eg2 <- rho*Eg2 + (1-rho)*g^2
//	theta <- theta - eta*g/sqrt(Eg2+eps)
type RMSProp struct {
	Eta, Rho, Eps float64

	eg2Re, eg2Im []float64
}

// NewRMSProp builds an RMSProp optimizer with the conventional
// defaults if rho/eps are zero.
func NewRMSProp(eta, rho, eps float64) *RMSProp {
	if rho == 0 {
		rho = 0.9
	}
	if eps == 0 {
		eps = 1e-8
	}
	return &RMSProp{Eta: eta, Rho: rho, Eps: eps}
}

// Init implements Optimizer.
func (o *RMSProp) Init(npar int) {
	o.eg2Re = make([]float64, npar)
	o.eg2Im = make([]float64, npar)
}

// Update implements Optimizer.
func (o *RMSProp) Update(params, grad []complex128) []complex128 {
	out := make([]complex128, len(params))
	for i := range params {
		gr, gi := real(grad[i]), imag(grad[i])
		o.eg2Re[i] = o.Rho*o.eg2Re[i] + (1-o.Rho)*gr*gr
		o.eg2Im[i] = o.Rho*o.eg2Im[i] + (1-o.Rho)*gi*gi
		stepRe := o.Eta * gr / math.Sqrt(o.eg2Re[i]+o.Eps)
		stepIm := o.Eta * gi / math.Sqrt(o.eg2Im[i]+o.Eps)
		out[i] = params[i] - complex(stepRe, stepIm)
	}
	return out
}

// Reset implements Optimizer.
func (o *RMSProp) Reset() {
	for i := range o.eg2Re {
		o.eg2Re[i], o.eg2Im[i] = 0, 0
	}
}
