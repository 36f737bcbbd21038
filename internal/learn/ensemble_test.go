package learn

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// separable builds a table where feature 0 fully determines the class.
func separable(n int) ([][]float64, []int) {
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		if i%2 == 0 {
			X[i] = []float64{10, float64(i)}
			y[i] = 0
		} else {
			X[i] = []float64{90, float64(i)}
			y[i] = 1
		}
	}
	return X, y
}

func TestTrainClassifier_SeparatesClasses(t *testing.T) {
	X, y := separable(40)

	clf, err := TrainClassifier(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainClassifier failed: %v", err)
	}

	if p := clf.PredictProba([]float64{10, 5}); p > 0.2 {
		t.Errorf("negative-side probability = %v, want near 0", p)
	}
	if p := clf.PredictProba([]float64{90, 5}); p < 0.8 {
		t.Errorf("positive-side probability = %v, want near 1", p)
	}
}

func TestTrainClassifier_Deterministic(t *testing.T) {
	X, y := separable(30)

	a, err := TrainClassifier(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainClassifier failed: %v", err)
	}
	b, err := TrainClassifier(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainClassifier failed: %v", err)
	}

	probes := [][]float64{{10, 1}, {50, 2}, {90, 3}}
	for _, x := range probes {
		if pa, pb := a.PredictProba(x), b.PredictProba(x); pa != pb {
			t.Errorf("same seed gave different predictions: %v vs %v", pa, pb)
		}
	}
}

func TestTrainClassifier_ProbabilityBounds(t *testing.T) {
	X, y := separable(20)

	clf, err := TrainClassifier(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainClassifier failed: %v", err)
	}

	for _, x := range [][]float64{{-1000, 0}, {1000, 0}, {50, 50}} {
		p := clf.PredictProba(x)
		if p < 0 || p > 1 {
			t.Errorf("probability %v out of [0, 1] for %v", p, x)
		}
	}
}

func TestTrainRegressor_ApproximatesTarget(t *testing.T) {
	X := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range X {
		X[i] = []float64{float64(i)}
		if i < 25 {
			y[i] = 5
		} else {
			y[i] = 55
		}
	}

	reg, err := TrainRegressor(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainRegressor failed: %v", err)
	}

	if got := reg.Predict([]float64{10}); math.Abs(got-5) > 10 {
		t.Errorf("Predict(10) = %v, want near 5", got)
	}
	if got := reg.Predict([]float64{40}); math.Abs(got-55) > 10 {
		t.Errorf("Predict(40) = %v, want near 55", got)
	}
}

func TestTrain_InputValidation(t *testing.T) {
	if _, err := TrainClassifier(nil, nil, DefaultOptions()); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := TrainClassifier([][]float64{{1}}, []int{0, 1}, DefaultOptions()); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := TrainRegressor(nil, nil, DefaultOptions()); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := TrainRegressor([][]float64{{1}}, []float64{1, 2}, DefaultOptions()); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestClassifier_SurvivesSerialization(t *testing.T) {
	X, y := separable(30)

	clf, err := TrainClassifier(X, y, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainClassifier failed: %v", err)
	}

	data, err := json.Marshal(clf)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var restored Classifier
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	probe := []float64{90, 7}
	if a, b := clf.PredictProba(probe), restored.PredictProba(probe); a != b {
		t.Errorf("restored classifier predicts %v, original %v", b, a)
	}
}

func TestSingleSamplePredictsItsTarget(t *testing.T) {
	reg, err := TrainRegressor([][]float64{{1, 2}}, []float64{42}, DefaultOptions())
	if err != nil {
		t.Fatalf("TrainRegressor failed: %v", err)
	}
	if got := reg.Predict([]float64{1, 2}); got != 42 {
		t.Errorf("Predict = %v, want 42", got)
	}
}
