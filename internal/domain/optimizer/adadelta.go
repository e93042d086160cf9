package optimizer

import "math"

// AdaDelta keeps a decayed running average of squared gradients and of
// squared parameter updates, and needs no explicit learning rate:
//
//	Eg2 <- rho*Eg2 + (1-rho)*g^2
//	delta <- -sqrt(Edx2+eps)/sqrt(Eg2+eps) * g
//	Edx2 <- rho*Edx2 + (1-rho)*delta^2
//	theta <- theta + delta
type AdaDelta struct {
	Rho, Eps float64

	eg2Re, eg2Im   []float64
	edx2Re, edx2Im []float64
}

// NewAdaDelta builds an AdaDelta optimizer with the conventional
// defaults if rho/eps are zero.
func NewAdaDelta(rho, eps float64) *AdaDelta {
	if rho == 0 {
		rho = 0.95
	}
	if eps == 0 {
		eps = 1e-6
	}
	return &AdaDelta{Rho: rho, Eps: eps}
}

// Init implements Optimizer.
func (o *AdaDelta) Init(npar int) {
	o.eg2Re = make([]float64, npar)
	o.eg2Im = make([]float64, npar)
	o.edx2Re = make([]float64, npar)
	o.edx2Im = make([]float64, npar)
}

func (o *AdaDelta) updateCoord(eg2, edx2 *float64, g float64) float64 {
	*eg2 = o.Rho*(*eg2) + (1-o.Rho)*g*g
	delta := -math.Sqrt(*edx2+o.Eps) / math.Sqrt(*eg2+o.Eps) * g
	*edx2 = o.Rho*(*edx2) + (1-o.Rho)*delta*delta
	return delta
}

// Update implements Optimizer.
func (o *AdaDelta) Update(params, grad []complex128) []complex128 {
	out := make([]complex128, len(params))
	for i := range params {
		dr := o.updateCoord(&o.eg2Re[i], &o.edx2Re[i], real(grad[i]))
		di := o.updateCoord(&o.eg2Im[i], &o.edx2Im[i], imag(grad[i]))
		out[i] = params[i] + complex(dr, di)
	}
	return out
}

// Reset implements Optimizer.
func (o *AdaDelta) Reset() {
	for i := range o.eg2Re {
		o.eg2Re[i], o.eg2Im[i], o.edx2Re[i], o.edx2Im[i] = 0, 0, 0, 0
	}
}
