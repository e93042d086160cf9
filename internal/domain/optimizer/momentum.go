package optimizer

// Momentum accumulates an exponentially-weighted running sum of
// gradients and steps along it: m <- beta*m + g; theta <- theta - eta*m.
type Momentum struct {
	Eta  float64
	Beta float64

	m []complex128
}

// NewMomentum builds a Momentum optimizer.
func NewMomentum(eta, beta float64) *Momentum {
	return &Momentum{Eta: eta, Beta: beta}
}

// Init implements Optimizer.
func (o *Momentum) Init(npar int) {
	o.m = make([]complex128, npar)
}

// Update implements Optimizer.
func (o *Momentum) Update(params, grad []complex128) []complex128 {
	out := make([]complex128, len(params))
	beta := complex(o.Beta, 0)
	eta := complex(o.Eta, 0)
	for i := range params {
		o.m[i] = beta*o.m[i] + grad[i]
		out[i] = params[i] - eta*o.m[i]
	}
	return out
}

// Reset implements Optimizer.
func (o *Momentum) Reset() {
	for i := range o.m {
		o.m[i] = 0
	}
}
