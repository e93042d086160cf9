package hilbert

import (
	"fmt"
	"math/rand"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// Custom is a Hilbert space defined directly by an explicit local-state
// alphabet, for configurations that do not fit the Spin or Boson
// built-ins.
type Custom struct {
	size  int
	local []float64
}

// NewCustom builds a Custom Hilbert space of the given configuration
// length over the given local alphabet.
func NewCustom(size int, localStates []float64) (*Custom, error) {
	if len(localStates) == 0 {
		return nil, vmcerr.New(vmcerr.Config, "hilbert.NewCustom", fmt.Errorf("local alphabet must not be empty"))
	}
	return &Custom{size: size, local: append([]float64(nil), localStates...)}, nil
}

// IsDiscrete implements Hilbert.
func (h *Custom) IsDiscrete() bool { return true }

// LocalSize implements Hilbert.
func (h *Custom) LocalSize() int { return len(h.local) }

// Size implements Hilbert.
func (h *Custom) Size() int { return h.size }

// LocalStates implements Hilbert.
func (h *Custom) LocalStates() []float64 { return append([]float64(nil), h.local...) }

// Random implements Hilbert.
func (h *Custom) Random(v []float64, rng *rand.Rand) error {
	if len(v) != h.size {
		return vmcerr.Newf(vmcerr.Domain, "hilbert.Custom.Random", "configuration length %d does not match Size() %d", len(v), h.size)
	}
	for i := range v {
		v[i] = h.local[rng.Intn(len(h.local))]
	}
	return nil
}

// Update implements Hilbert.
func (h *Custom) Update(v []float64, sites []int, newValues []float64) {
	for i, s := range sites {
		v[s] = newValues[i]
	}
}
