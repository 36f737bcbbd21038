// Package learn implements the tree learners behind the failure-type model
// bank: CART-style regression trees combined into small seeded bagging
// ensembles. Training is deterministic for a given input and seed, which is
// what makes repeated runs over the same artifacts reproducible.
package learn

import "sort"

// Node is one tree node. Exported fields so trained trees serialize to JSON.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"` // leaf prediction (mean target)
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// Tree is a single fitted decision tree.
type Tree struct {
	Root *Node `json:"root"`
}

// Predict walks the tree for one input vector.
func (t *Tree) Predict(x []float64) float64 {
	n := t.Root
	for n != nil && !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return 0
	}
	return n.Value
}

type treeParams struct {
	maxDepth int
	minLeaf  int
}

// fitTree builds a tree over the rows selected by idx. Splits minimize the
// summed squared error of the two sides; for 0/1 targets this is equivalent
// to the Gini criterion, so one tree type serves both learners.
func fitTree(X [][]float64, y []float64, idx []int, p treeParams) *Tree {
	return &Tree{Root: buildNode(X, y, idx, 0, p)}
}

func buildNode(X [][]float64, y []float64, idx []int, depth int, p treeParams) *Node {
	if len(idx) == 0 {
		return &Node{Leaf: true}
	}

	mean := meanTarget(y, idx)
	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf || isConstant(y, idx) {
		return &Node{Leaf: true, Value: mean}
	}

	feature, threshold, ok := bestSplit(X, y, idx, p.minLeaf)
	if !ok {
		return &Node{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &Node{Leaf: true, Value: mean}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildNode(X, y, left, depth+1, p),
		Right:     buildNode(X, y, right, depth+1, p),
	}
}

// bestSplit scans every feature in order and every boundary between distinct
// consecutive values, using prefix sums so each feature costs one sort plus
// one linear pass. Feature order breaks score ties deterministically.
func bestSplit(X [][]float64, y []float64, idx []int, minLeaf int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	numFeatures := len(X[idx[0]])

	var totalSum, totalSq float64
	for _, i := range idx {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}

	bestScore := totalSq - totalSum*totalSum/float64(n) // parent SSE; split must improve
	order := make([]int, n)

	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][f] < X[order[b]][f]
		})

		var leftSum, leftSq float64
		for pos := 0; pos < n-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// Only split between distinct feature values.
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}
			nl := pos + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) +
				(rightSq - rightSum*rightSum/float64(nr))
			if sse < bestScore {
				bestScore = sse
				feature = f
				threshold = (X[order[pos]][f] + X[order[pos+1]][f]) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

func meanTarget(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func isConstant(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}
