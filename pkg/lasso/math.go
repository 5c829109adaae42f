package lasso

import "math"

// matVec computes X·b for row-major X.
func matVec(X [][]float64, b []float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		s := 0.0
		for j, v := range row {
			s += v * b[j]
		}
		out[i] = s
	}
	return out
}

// matTVec computes Xᵀ·r.
func matTVec(X [][]float64, r []float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X[0]))
	for i, row := range X {
		for j, v := range row {
			out[j] += v * r[i]
		}
	}
	return out
}

func norm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func norm1(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += math.Abs(x)
	}
	return s
}

// softThreshold is the proximal operator of t·‖·‖₁.
func softThreshold(z []float64, t float64) []float64 {
	out := make([]float64, len(z))
	for i, x := range z {
		switch {
		case x > t:
			out[i] = x - t
		case x < -t:
			out[i] = x + t
		}
	}
	return out
}

// lipschitz estimates ‖X‖₂² by power iteration, the Lipschitz constant of
// the least-squares gradient.
func lipschitz(X [][]float64, iters int) float64 {
	if len(X) == 0 || len(X[0]) == 0 {
		return 1
	}
	v := make([]float64, len(X[0]))
	for i := range v {
		v[i] = 1
	}
	sigma := 0.0
	for k := 0; k < iters; k++ {
		w := matTVec(X, matVec(X, v))
		sigma = norm2(w)
		if sigma == 0 {
			return 1
		}
		for i := range w {
			w[i] /= sigma
		}
		v = w
	}
	return sigma
}
