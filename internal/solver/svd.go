package solver

import (
	"gonum.org/v1/gonum/mat"
)

// pseudoSolve computes the minimum-norm least-squares solution of J·Δ = f
// through a thin SVD of J. jac is rows×cols in row-major order. Both
// over-constrained (rows > cols) and under-constrained (cols > rows) systems
// degrade gracefully: the former yields the least-squares step, the latter
// the minimum-norm one. A defective factorisation or a fully rank-deficient
// Jacobian yields a zero step.
func pseudoSolve(rows, cols int, jac, f []float64) []float64 {
	j := mat.NewDense(rows, cols, jac)

	var svd mat.SVD
	if ok := svd.Factorize(j, mat.SVDThin); !ok {
		return make([]float64, cols)
	}

	rank := effectiveRank(svd.Values(nil), rows, cols)
	if rank == 0 {
		return make([]float64, cols)
	}

	var delta mat.VecDense
	svd.SolveVecTo(&delta, mat.NewVecDense(rows, f), rank)

	out := make([]float64, cols)
	for i := range out {
		out[i] = delta.AtVec(i)
	}
	return out
}

// effectiveRank counts singular values above a relative cutoff, the usual
// max(m,n)·eps·σ₀ pseudoinverse threshold.
func effectiveRank(sv []float64, rows, cols int) int {
	if len(sv) == 0 {
		return 0
	}
	dim := rows
	if cols > dim {
		dim = cols
	}
	const eps = 2.220446049250313e-16
	cutoff := float64(dim) * eps * sv[0]
	rank := 0
	for _, v := range sv {
		if v > cutoff {
			rank++
		}
	}
	return rank
}
