package predictor

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxBins is the number of histogram bins per feature.
const DefaultMaxBins = 64

const minSplitGain = 1e-12

// binner discretizes each feature column into at most maxBins buckets.
// A value x falls in bucket b when edges[b-1] < x <= edges[b].
type binner struct {
	edges [][]float64
}

func fitBinner(X [][]float64, maxBins int) binner {
	if len(X) == 0 {
		return binner{}
	}
	cols := len(X[0])
	b := binner{edges: make([][]float64, cols)}
	col := make([]float64, len(X))
	for j := range cols {
		for i, r := range X {
			col[i] = r[j]
		}
		sort.Float64s(col)
		b.edges[j] = columnEdges(col, maxBins)
	}
	return b
}

// columnEdges returns split thresholds for a sorted column: midpoints between
// distinct values when they fit in maxBins, empirical quantiles otherwise.
func columnEdges(sorted []float64, maxBins int) []float64 {
	distinct := slices.Compact(slices.Clone(sorted))
	if len(distinct) <= 1 {
		return nil
	}
	if len(distinct) <= maxBins {
		edges := make([]float64, len(distinct)-1)
		for k := range edges {
			edges[k] = (distinct[k] + distinct[k+1]) / 2
		}
		return edges
	}
	maxValue := sorted[len(sorted)-1]
	edges := make([]float64, 0, maxBins-1)
	for k := 1; k < maxBins; k++ {
		q := stat.Quantile(float64(k)/float64(maxBins), stat.Empirical, sorted, nil)
		if q >= maxValue {
			break
		}
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	return edges
}

// transform returns the bucket index of every value, column-major.
func (b binner) transform(X [][]float64) [][]uint16 {
	out := make([][]uint16, len(b.edges))
	for j, edges := range b.edges {
		out[j] = make([]uint16, len(X))
		for i, r := range X {
			out[j][i] = uint16(sort.SearchFloat64s(edges, r[j]))
		}
	}
	return out
}

type treeParams struct {
	maxDepth       int // 0 means unlimited
	maxLeaves      int // 0 means unlimited
	minSamplesLeaf int
	minChildWeight float64
	lambda         float64
}

type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

type regressionTree struct {
	nodes []treeNode
}

func (t *regressionTree) predict(x []float64) float64 {
	n := t.nodes[0]
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n.value
}

// treeStats accumulates per-feature split gain and split counts.
type treeStats struct {
	gain   []float64
	splits []float64
}

func newTreeStats(features int) treeStats {
	return treeStats{gain: make([]float64, features), splits: make([]float64, features)}
}

type candidateSplit struct {
	feature int
	bin     int
	gain    float64
}

type openLeaf struct {
	node  int
	rows  []int
	depth int
	split candidateSplit
	ok    bool
}

// grower fits second-order regression trees on pre-binned features.
// Growth is best-first: the open leaf with the largest gain is split next,
// which is depth-wise growth when maxLeaves is unlimited and leaf-wise
// growth under a leaf budget.
type grower struct {
	bins  [][]uint16
	edges [][]float64
	p     treeParams

	histG [][]float64
	histH [][]float64
	histN [][]int
}

func newGrower(b binner, bins [][]uint16, p treeParams) *grower {
	g := &grower{bins: bins, edges: b.edges, p: p}
	g.histG = make([][]float64, len(b.edges))
	g.histH = make([][]float64, len(b.edges))
	g.histN = make([][]int, len(b.edges))
	for j, e := range b.edges {
		g.histG[j] = make([]float64, len(e)+1)
		g.histH[j] = make([]float64, len(e)+1)
		g.histN[j] = make([]int, len(e)+1)
	}
	return g
}

func (g *grower) leafValue(sumG, sumH float64) float64 {
	den := sumH + g.p.lambda
	if den == 0 {
		return 0
	}
	return -sumG / den
}

func (g *grower) score(sumG, sumH float64) float64 {
	den := sumH + g.p.lambda
	if den == 0 {
		return 0
	}
	return sumG * sumG / den
}

func sums(rows []int, grad, hess []float64) (float64, float64) {
	var sg, sh float64
	for _, r := range rows {
		sg += grad[r]
		sh += hess[r]
	}
	return sg, sh
}

// bestSplit scans every feature histogram of rows for the highest-gain split
// that satisfies the leaf size and child weight limits.
func (g *grower) bestSplit(rows []int, grad, hess []float64) (candidateSplit, bool) {
	sumG, sumH := sums(rows, grad, hess)
	parent := g.score(sumG, sumH)
	best := candidateSplit{gain: minSplitGain}
	found := false

	for f := range g.edges {
		if len(g.edges[f]) == 0 {
			continue
		}
		hg, hh, hn := g.histG[f], g.histH[f], g.histN[f]
		clear(hg)
		clear(hh)
		clear(hn)
		col := g.bins[f]
		for _, r := range rows {
			b := col[r]
			hg[b] += grad[r]
			hh[b] += hess[r]
			hn[b]++
		}

		var gl, hl float64
		var nl int
		for b := 0; b < len(hg)-1; b++ {
			if hn[b] == 0 {
				continue
			}
			gl += hg[b]
			hl += hh[b]
			nl += hn[b]
			nr := len(rows) - nl
			if nl < g.p.minSamplesLeaf || nr < g.p.minSamplesLeaf || nr == 0 {
				continue
			}
			hr := sumH - hl
			if hl < g.p.minChildWeight || hr < g.p.minChildWeight {
				continue
			}
			gain := g.score(gl, hl) + g.score(sumG-gl, hr) - parent
			if gain > best.gain {
				best = candidateSplit{feature: f, bin: b, gain: gain}
				found = true
			}
		}
	}
	return best, found
}

func (g *grower) canSplit(depth, rows int) bool {
	if g.p.maxDepth > 0 && depth >= g.p.maxDepth {
		return false
	}
	return rows >= 2*max(g.p.minSamplesLeaf, 1)
}

// grow fits one tree on rows (duplicates allowed) and adds its split gains
// and counts to stats.
func (g *grower) grow(rows []int, grad, hess []float64, stats treeStats) regressionTree {
	sumG, sumH := sums(rows, grad, hess)
	t := regressionTree{nodes: []treeNode{{leaf: true, value: g.leafValue(sumG, sumH)}}}

	root := &openLeaf{node: 0, rows: rows}
	if g.canSplit(0, len(rows)) {
		root.split, root.ok = g.bestSplit(rows, grad, hess)
	}
	open := []*openLeaf{root}
	leaves := 1

	for g.p.maxLeaves == 0 || leaves < g.p.maxLeaves {
		pick := -1
		for i, l := range open {
			if l.ok && (pick < 0 || l.split.gain > open[pick].split.gain) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		leaf := open[pick]
		open = slices.Delete(open, pick, pick+1)

		s := leaf.split
		col := g.bins[s.feature]
		var left, right []int
		for _, r := range leaf.rows {
			if int(col[r]) <= s.bin {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}

		stats.gain[s.feature] += s.gain
		stats.splits[s.feature]++

		li := len(t.nodes)
		lg, lh := sums(left, grad, hess)
		rg, rh := sums(right, grad, hess)
		t.nodes = append(t.nodes,
			treeNode{leaf: true, value: g.leafValue(lg, lh)},
			treeNode{leaf: true, value: g.leafValue(rg, rh)},
		)
		t.nodes[leaf.node] = treeNode{
			feature:   s.feature,
			threshold: g.edges[s.feature][s.bin],
			left:      li,
			right:     li + 1,
		}
		leaves++

		for k, childRows := range [][]int{left, right} {
			child := &openLeaf{node: li + k, rows: childRows, depth: leaf.depth + 1}
			if g.canSplit(child.depth, len(childRows)) {
				child.split, child.ok = g.bestSplit(childRows, grad, hess)
			}
			open = append(open, child)
		}
	}
	return t
}

// normalize scales v to sum to one. An all-zero vector is returned as is.
func normalize(v []float64) []float64 {
	out := slices.Clone(v)
	var total float64
	for _, x := range out {
		total += x
	}
	if total == 0 || math.IsNaN(total) {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
