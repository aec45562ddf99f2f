package battery

import (
	"errors"
	"math"
)

var errSingularSystem = errors.New("singular regression system")

// olsFit solves y = Xb by ordinary least squares through the normal
// equations. Rows of X are observations and the caller supplies the
// intercept column. It returns the coefficient vector and the residual
// sum of squares, or errSingularSystem when the design matrix is rank
// deficient (a constant regressor, duplicated columns).
func olsFit(X [][]float64, y []float64) ([]float64, float64, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, 0, errSingularSystem
	}
	k := len(X[0])
	if k == 0 || n < k {
		return nil, 0, errSingularSystem
	}

	// Normal equations: (X'X) b = X'y.
	xtx := make([][]float64, k)
	xty := make([]float64, k)
	for i := 0; i < k; i++ {
		xtx[i] = make([]float64, k)
	}
	for r := 0; r < n; r++ {
		row := X[r]
		for i := 0; i < k; i++ {
			xty[i] += row[i] * y[r]
			for j := i; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	beta, err := solveLinear(xtx, xty)
	if err != nil {
		return nil, 0, err
	}

	var ssr float64
	for r := 0; r < n; r++ {
		pred := 0.0
		for i := 0; i < k; i++ {
			pred += X[r][i] * beta[i]
		}
		resid := y[r] - pred
		ssr += resid * resid
	}
	if math.IsNaN(ssr) || math.IsInf(ssr, 0) {
		return nil, 0, errSingularSystem
	}
	return beta, ssr, nil
}

// solveLinear solves Ax = b in place by Gaussian elimination with partial
// pivoting. A vanishing pivot reports the system as singular rather than
// producing garbage coefficients.
func solveLinear(A [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, errSingularSystem
		}
		if pivot != col {
			A[pivot], A[col] = A[col], A[pivot]
			b[pivot], b[col] = b[col], b[pivot]
		}
		for r := col + 1; r < n; r++ {
			factor := A[r][col] / A[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				A[r][c] -= factor * A[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= A[r][c] * x[c]
		}
		x[r] = sum / A[r][r]
	}
	return x, nil
}
