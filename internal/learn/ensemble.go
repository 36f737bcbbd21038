package learn

import (
	"errors"
	"math/rand"
)

// ErrNoSamples is returned when training is attempted on an empty table.
var ErrNoSamples = errors.New("no training samples")

// ErrDimensionMismatch is returned when inputs and targets disagree in length.
var ErrDimensionMismatch = errors.New("inputs and targets differ in length")

// Options controls ensemble training.
type Options struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	MinLeaf  int   `json:"min_leaf"`
	Seed     int64 `json:"seed"`
}

// DefaultOptions returns the training defaults. The fixed seed keeps
// repeated training runs over the same corpus identical.
func DefaultOptions() Options {
	return Options{Trees: 25, MaxDepth: 8, MinLeaf: 2, Seed: 42}
}

// Classifier is a bagged tree ensemble for binary targets. The predicted
// probability is the mean leaf value over member trees.
type Classifier struct {
	Options     Options `json:"options"`
	NumFeatures int     `json:"num_features"`
	Trees       []*Tree `json:"trees"`
}

// TrainClassifier fits a fresh classifier on 0/1 targets.
func TrainClassifier(X [][]float64, y []int, opts Options) (*Classifier, error) {
	if len(X) == 0 {
		return nil, ErrNoSamples
	}
	if len(X) != len(y) {
		return nil, ErrDimensionMismatch
	}

	targets := make([]float64, len(y))
	for i, v := range y {
		targets[i] = float64(v)
	}

	return &Classifier{
		Options:     opts,
		NumFeatures: len(X[0]),
		Trees:       fitEnsemble(X, targets, opts),
	}, nil
}

// PredictProba returns the failure probability for one input vector.
func (c *Classifier) PredictProba(x []float64) float64 {
	p := ensembleMean(c.Trees, x)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Regressor is a bagged tree ensemble for continuous targets.
type Regressor struct {
	Options     Options `json:"options"`
	NumFeatures int     `json:"num_features"`
	Trees       []*Tree `json:"trees"`
}

// TrainRegressor fits a fresh regressor.
func TrainRegressor(X [][]float64, y []float64, opts Options) (*Regressor, error) {
	if len(X) == 0 {
		return nil, ErrNoSamples
	}
	if len(X) != len(y) {
		return nil, ErrDimensionMismatch
	}

	return &Regressor{
		Options:     opts,
		NumFeatures: len(X[0]),
		Trees:       fitEnsemble(X, y, opts),
	}, nil
}

// Predict returns the estimated target for one input vector.
func (r *Regressor) Predict(x []float64) float64 {
	return ensembleMean(r.Trees, x)
}

// fitEnsemble trains opts.Trees trees on bootstrap samples drawn from a
// single seeded source, so the whole ensemble is a pure function of
// (X, y, opts).
func fitEnsemble(X [][]float64, y []float64, opts Options) []*Tree {
	rng := rand.New(rand.NewSource(opts.Seed))
	params := treeParams{maxDepth: opts.MaxDepth, minLeaf: opts.MinLeaf}
	n := len(X)

	trees := make([]*Tree, opts.Trees)
	for t := range trees {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		trees[t] = fitTree(X, y, idx, params)
	}
	return trees
}

func ensembleMean(trees []*Tree, x []float64) float64 {
	if len(trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(trees))
}
