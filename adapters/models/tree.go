package models

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a regression tree. Leaves carry the mean response
// of their partition.
type treeNode struct {
	feature int
	thresh  float64
	value   float64
	left    *treeNode
	right   *treeNode
}

func (t *treeNode) isLeaf() bool { return t.left == nil }

func (t *treeNode) predict(row []float64) float64 {
	node := t
	for !node.isLeaf() {
		if row[node.feature] <= node.thresh {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// treeParams controls tree growth. A nil rng with mtry 0 tries every
// feature at every split, which keeps single-tree growth deterministic.
type treeParams struct {
	maxDepth int
	minLeaf  int
	mtry     int
	rng      *rand.Rand
}

// growTree recursively partitions idx by the variance-minimizing split.
func growTree(rows [][]float64, y []float64, idx []int, depth int, p treeParams) *treeNode {
	node := &treeNode{value: subsetMean(y, idx)}
	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf {
		return node
	}

	feature, thresh, ok := bestSplit(rows, y, idx, p)
	if !ok {
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if rows[i][feature] <= thresh {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < p.minLeaf || len(rightIdx) < p.minLeaf {
		return node
	}

	node.feature = feature
	node.thresh = thresh
	node.left = growTree(rows, y, leftIdx, depth+1, p)
	node.right = growTree(rows, y, rightIdx, depth+1, p)
	return node
}

// bestSplit scans candidate features for the threshold minimizing the
// combined child sum of squares, using running sums over the sorted order.
func bestSplit(rows [][]float64, y []float64, idx []int, p treeParams) (feature int, thresh float64, ok bool) {
	nFeatures := len(rows[0])
	candidates := make([]int, 0, nFeatures)
	if p.rng != nil && p.mtry > 0 && p.mtry < nFeatures {
		perm := p.rng.Perm(nFeatures)
		candidates = append(candidates, perm[:p.mtry]...)
		sort.Ints(candidates)
	} else {
		for f := 0; f < nFeatures; f++ {
			candidates = append(candidates, f)
		}
	}

	bestScore := math.Inf(1)
	order := make([]int, len(idx))
	for _, f := range candidates {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return rows[order[a]][f] < rows[order[b]][f] })

		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			nl := float64(pos + 1)
			nr := float64(len(order) - pos - 1)
			if pos+1 < p.minLeaf || len(order)-pos-1 < p.minLeaf {
				continue
			}
			cur := rows[i][f]
			next := rows[order[pos+1]][f]
			if cur == next {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			score := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if score < bestScore {
				bestScore = score
				feature = f
				thresh = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, thresh, ok
}

func subsetMean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	s := 0.0
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}
