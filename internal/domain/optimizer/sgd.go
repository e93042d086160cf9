package optimizer

// SGD is plain gradient descent: theta <- theta - eta*g.
type SGD struct {
	Eta float64
}

// NewSGD builds an SGD optimizer with the given learning rate.
func NewSGD(eta float64) *SGD { return &SGD{Eta: eta} }

// Init implements Optimizer. SGD carries no per-coordinate state.
func (o *SGD) Init(npar int) {}

// Update implements Optimizer.
func (o *SGD) Update(params, grad []complex128) []complex128 {
	out := make([]complex128, len(params))
	for i := range params {
		out[i] = params[i] - complex(o.Eta, 0)*grad[i]
	}
	return out
}

// Reset implements Optimizer. SGD has no transient state to clear.
func (o *SGD) Reset() {}
