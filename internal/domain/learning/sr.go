package learning

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// rankThreshold is the relative cutoff below which a diagonal entry of
// R in the QR factorization of the (real-embedded) geometric tensor is
// treated as rank-deficient.
const rankThreshold = 1e-6

// Precondition turns the raw gradient direction agg.b into the SR step
// delta solving S*delta = b, where S is the quantum geometric tensor
// <Ok^dagger Ok> (regularized by d.Cfg.DiagShift on the diagonal) built
// from the same centered sample batch that produced b. It dispatches to
// the direct QR solve or the matrix-free conjugate-gradient solve
// according to d.Cfg.UseIterative.
func (d *Driver) Precondition(agg *aggregates) ([]complex128, error) {
	centered := d.centeredOk(agg.okMean)
	shift := d.Cfg.DiagShift

	var delta []complex128
	var err error
	if d.Cfg.UseIterative {
		delta, err = d.solveIterative(centered, agg.b, shift)
	} else {
		delta, err = d.solveDirect(centered, agg.b, shift)
	}
	if err != nil {
		return nil, err
	}

	if d.Cfg.RescaleShift {
		return d.normalizeStep(centered, delta, shift)
	}
	return delta, nil
}

// normalizeStep rescales the solved step delta <- delta / sqrt(Re(delta^H
// S delta)), S including the diagonal shift, per sr.hh's RescaleShift
// option (sr.hh:325-327,344-346): once delta solves S*delta=b, its norm
// under the S-metric itself is renormalized to one, rather than scaling
// the regularization before solving.
func (d *Driver) normalizeStep(centered [][]complex128, delta []complex128, shift float64) ([]complex128, error) {
	op := &srOperator{d: d, centered: centered, shift: shift}
	sDelta, err := op.apply(delta)
	if err != nil {
		return nil, err
	}
	norm := math.Sqrt(real(dotConj(delta, sDelta)))
	if norm <= 0 {
		return delta, nil
	}
	out := make([]complex128, len(delta))
	for i, x := range delta {
		out[i] = x / complex(norm, 0)
	}
	return out, nil
}

// buildLocalS assembles the dense npar x npar complex Hermitian geometric
// tensor S = Ok^H Ok / Mw from the local centered batch, without the
// diagonal shift (solveDirect adds it after the cross-worker sum); it
// does not aggregate across workers, since only the direct solver needs
// the full matrix explicitly (the iterative solver stays matrix-free and
// aggregates per conjugate-gradient step instead).
func (d *Driver) buildLocalS(centered [][]complex128, npar int) [][]complex128 {
	s := make([][]complex128, npar)
	for i := range s {
		s[i] = make([]complex128, npar)
	}
	for _, row := range centered {
		for i, oi := range row {
			ci := cmplx.Conj(oi)
			for j, oj := range row {
				s[i][j] += ci * oj
			}
		}
	}
	mw := complex(float64(len(centered)), 0)
	for i := range s {
		for j := range s[i] {
			s[i][j] /= mw
		}
	}
	return s
}

// solveDirect all-reduce-sums the local S contributions, embeds the
// resulting complex Hermitian system as a real 2n x 2n system, and
// solves it with gonum's QR factorization. gonum exposes no complex
// QR/solve path in this module's dependency set, so the complex system
// S*delta=b is rewritten in terms of its real and imaginary parts:
//
//	[ Re(S)  -Im(S) ] [Re(delta)]   [Re(b)]
//	[ Im(S)   Re(S) ] [Im(delta)] = [Im(b)]
//
// a standard complex-to-real embedding (Im(S) is antisymmetric because
// S is Hermitian, so the block matrix stays real and well-posed whenever
// S is positive definite).
func (d *Driver) solveDirect(centered [][]complex128, b []complex128, shift float64) ([]complex128, error) {
	npar := d.npar
	localS := d.buildLocalS(centered, npar)
	flatLocal := make([]complex128, npar*npar)
	for i := 0; i < npar; i++ {
		for j := 0; j < npar; j++ {
			flatLocal[i*npar+j] = localS[i][j]
		}
	}
	flatSummed, err := d.Comm.AllReduceSumComplex(flatLocal)
	if err != nil {
		return nil, err
	}
	w := float64(d.Comm.Size())

	n := npar
	a := mat.NewDense(2*n, 2*n, nil)
	rhs := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sij := flatSummed[i*n+j] / complex(w, 0)
			if i == j {
				sij += complex(shift, 0)
			}
			re, im := real(sij), imag(sij)
			a.Set(i, j, re)
			a.Set(i, n+j, -im)
			a.Set(n+i, j, im)
			a.Set(n+i, n+j, re)
		}
		rhs.SetVec(i, real(b[i]))
		rhs.SetVec(n+i, imag(b[i]))
	}

	var qr mat.QR
	qr.Factorize(a)
	if err := checkRankDeficiency(&qr, n); err != nil {
		return nil, err
	}
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, rhs); err != nil {
		return nil, vmcerr.New(vmcerr.Numeric, "learning.solveDirect", vmcerr.ErrRankDeficient)
	}

	delta := make([]complex128, n)
	for i := 0; i < n; i++ {
		delta[i] = complex(x.AtVec(i), x.AtVec(n+i))
	}
	return delta, nil
}

func checkRankDeficiency(qr *mat.QR, n int) error {
	var r mat.Dense
	qr.RTo(&r)
	maxDiag := 0.0
	for i := 0; i < 2*n; i++ {
		if v := math.Abs(r.At(i, i)); v > maxDiag {
			maxDiag = v
		}
	}
	if maxDiag == 0 {
		return vmcerr.New(vmcerr.Numeric, "learning.solveDirect", vmcerr.ErrRankDeficient)
	}
	for i := 0; i < 2*n; i++ {
		if math.Abs(r.At(i, i)) < rankThreshold*maxDiag {
			return vmcerr.New(vmcerr.Numeric, "learning.solveDirect", vmcerr.ErrRankDeficient)
		}
	}
	return nil
}

// maxCGIterations bounds the matrix-free conjugate-gradient solve.
const maxCGIterations = 10000

// cgTolerance is the relative residual norm at which CG is considered
// converged, matching the spec's matrix-free SR tolerance.
const cgTolerance = 1e-3

// srOperator applies x -> (1/(W*Mw)) * Ok^H(Ok x) + shift*x without ever
// materializing S, all-reduce-summing the cross-worker contribution at
// every application so every rank computes the identical result.
type srOperator struct {
	d        *Driver
	centered [][]complex128
	shift    float64
}

func (op *srOperator) apply(x []complex128) ([]complex128, error) {
	ox := make([]complex128, len(op.centered))
	for i, row := range op.centered {
		var s complex128
		for j, oij := range row {
			s += oij * x[j]
		}
		ox[i] = s
	}
	local := make([]complex128, len(x))
	for j := range local {
		var s complex128
		for i, row := range op.centered {
			s += cmplx.Conj(row[j]) * ox[i]
		}
		local[j] = s
	}
	summed, err := op.d.Comm.AllReduceSumComplex(local)
	if err != nil {
		return nil, err
	}
	denom := complex(float64(op.d.Comm.Size()*len(op.centered)), 0)
	out := make([]complex128, len(x))
	for j := range out {
		out[j] = summed[j]/denom + complex(op.shift, 0)*x[j]
	}
	return out, nil
}

// solveIterative solves S*delta=b for a Hermitian positive-definite S
// with matrix-free conjugate gradient, never forming S explicitly. Every
// rank runs the identical CG recursion because every matrix-vector
// product is itself an all-reduce, grounded on sr.hh's iterative solver
// but adapted to the complex-valued geometric tensor (gonum's CG only
// covers the real case, so this loop is hand-rolled).
func (d *Driver) solveIterative(centered [][]complex128, b []complex128, shift float64) ([]complex128, error) {
	n := len(b)
	op := &srOperator{d: d, centered: centered, shift: shift}

	x := make([]complex128, n)
	r := make([]complex128, n)
	copy(r, b)
	p := make([]complex128, n)
	copy(p, r)

	bNorm := normComplex(b)
	if bNorm == 0 {
		return x, nil
	}
	rsOld := dotConj(r, r)

	for iter := 0; iter < maxCGIterations; iter++ {
		if math.Sqrt(real(rsOld)) < cgTolerance*bNorm {
			return x, nil
		}
		ap, err := op.apply(p)
		if err != nil {
			return nil, err
		}
		pAp := dotConj(p, ap)
		alpha := rsOld / pAp
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		rsNew := dotConj(r, r)
		if math.Sqrt(real(rsNew)) < cgTolerance*bNorm {
			return x, nil
		}
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	return nil, vmcerr.New(vmcerr.Numeric, "learning.solveIterative", vmcerr.ErrCGNonConvergence)
}

func dotConj(a, b []complex128) complex128 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return s
}

func normComplex(v []complex128) float64 {
	var s float64
	for _, x := range v {
		s += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(s)
}
