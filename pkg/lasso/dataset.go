package lasso

import (
	"math"
	"math/rand"

	"github.com/optbench/optbench/pkg/bench"
)

// Dataset simulates a sparse regression problem: a gaussian design with
// AR(1) feature correlation rho, a sparse ground-truth vector and gaussian
// noise on the targets.
type Dataset struct {
	bench.Identity

	nSamples  int
	nFeatures int
	rho       float64
	seed      int64

	// cached first generation, repeated calls return the same data
	data map[string]interface{}
}

// NewDataset builds a simulated dataset configuration. Recognized
// parameters: n_samples, n_features, rho, random_state.
func NewDataset(params ...bench.Param) (bench.Dataset, error) {
	d := &Dataset{
		Identity:  bench.NewIdentity("simulated", params...),
		nSamples:  50,
		nFeatures: 100,
		rho:       0,
		seed:      27,
	}
	for _, p := range bench.Params(params) {
		switch p.Key {
		case "n_samples":
			v, ok := p.Value.(int)
			if !ok || v <= 0 {
				return nil, bench.NewConfigError("n_samples must be a positive integer", nil)
			}
			d.nSamples = v
		case "n_features":
			v, ok := p.Value.(int)
			if !ok || v <= 0 {
				return nil, bench.NewConfigError("n_features must be a positive integer", nil)
			}
			d.nFeatures = v
		case "rho":
			v, ok := toFloat(p.Value)
			if !ok || v < 0 || v >= 1 {
				return nil, bench.NewConfigError("rho must be in [0, 1)", nil)
			}
			d.rho = v
		case "random_state":
			v, ok := p.Value.(int)
			if !ok {
				return nil, bench.NewConfigError("random_state must be an integer", nil)
			}
			d.seed = int64(v)
		default:
			return nil, bench.NewConfigError("unknown dataset parameter "+p.Key, nil)
		}
	}
	return d, nil
}

// GetData returns the problem scale and the objective-construction data.
// The simulation runs once; repeated calls return the cached result.
func (d *Dataset) GetData() (int, map[string]interface{}, error) {
	if d.data != nil {
		return d.nFeatures, d.data, nil
	}

	rng := rand.New(rand.NewSource(d.seed))

	X := make([][]float64, d.nSamples)
	corr := math.Sqrt(1 - d.rho*d.rho)
	for i := range X {
		row := make([]float64, d.nFeatures)
		row[0] = rng.NormFloat64()
		for j := 1; j < d.nFeatures; j++ {
			row[j] = d.rho*row[j-1] + corr*rng.NormFloat64()
		}
		X[i] = row
	}

	// sparse ground truth, one feature in ten active
	beta := make([]float64, d.nFeatures)
	for j := range beta {
		if rng.Float64() < 0.1 {
			beta[j] = rng.NormFloat64()
		}
	}

	y := matVec(X, beta)
	for i := range y {
		y[i] += 0.01 * rng.NormFloat64()
	}

	d.data = map[string]interface{}{"X": X, "y": y}
	return d.nFeatures, d.data, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}
