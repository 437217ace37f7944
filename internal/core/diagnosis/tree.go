package diagnosis

import (
	"errors"
	"fmt"
	"sort"
)

const DefaultMaxDepth = 10

// Classifier predicts a label with the probability of the winning class.
type Classifier interface {
	Predict(features []float64) (label string, confidence float64)
}

// Node is a decision tree node. Leaves have Feature == -1. Samples with
// features[Feature] <= Threshold go left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Counts    []int   `json:"counts"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

func (n *Node) leaf() bool { return n.Feature < 0 || n.Left == nil || n.Right == nil }

// Tree is a CART classifier grown with Gini impurity.
type Tree struct {
	Classes  []string `json:"classes"`
	Width    int      `json:"width"`
	MaxDepth int      `json:"max_depth"`
	Root     *Node    `json:"root"`
}

// Predict walks the tree and returns the majority class of the reached leaf.
// Ties go to the class that sorts first.
func (t *Tree) Predict(features []float64) (string, float64) {
	if t == nil || t.Root == nil || len(t.Classes) == 0 {
		return "", 0
	}
	node := t.Root
	for !node.leaf() {
		v := 0.0
		if node.Feature < len(features) {
			v = features[node.Feature]
		}
		if v <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	best, total := 0, 0
	for i, c := range node.Counts {
		total += c
		if c > node.Counts[best] {
			best = i
		}
	}
	if total == 0 || best >= len(t.Classes) {
		return "", 0
	}
	return t.Classes[best], float64(node.Counts[best]) / float64(total)
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	if n == nil || n.leaf() {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

func (t *Tree) validate() error {
	if t == nil || t.Root == nil {
		return errors.New("tree has no root")
	}
	if len(t.Classes) == 0 {
		return errors.New("tree has no classes")
	}
	return validateNode(t.Root, len(t.Classes), t.Width)
}

func validateNode(n *Node, classes, width int) error {
	if len(n.Counts) != classes {
		return fmt.Errorf("node counts: got %d want %d", len(n.Counts), classes)
	}
	if n.leaf() {
		return nil
	}
	if width > 0 && n.Feature >= width {
		return fmt.Errorf("node feature %d out of range %d", n.Feature, width)
	}
	if err := validateNode(n.Left, classes, width); err != nil {
		return err
	}
	return validateNode(n.Right, classes, width)
}

// GrowTree fits a tree on encoded labels. Candidate splits are scanned in
// feature order then threshold order; a split replaces the current best only
// when it strictly lowers impurity, so training is deterministic.
func GrowTree(rows [][]float64, labels []int, classes []string, maxDepth int) (*Tree, error) {
	if len(rows) == 0 {
		return nil, errors.New("no training rows")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("rows/labels mismatch: %d vs %d", len(rows), len(labels))
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("row %d width %d, want %d", i, len(r), width)
		}
		if labels[i] < 0 || labels[i] >= len(classes) {
			return nil, fmt.Errorf("row %d label %d out of range", i, labels[i])
		}
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	g := grower{rows: rows, labels: labels, classes: len(classes), width: width, maxDepth: maxDepth}
	return &Tree{
		Classes:  append([]string(nil), classes...),
		Width:    width,
		MaxDepth: maxDepth,
		Root:     g.grow(idx, 0),
	}, nil
}

type grower struct {
	rows     [][]float64
	labels   []int
	classes  int
	width    int
	maxDepth int
}

func (g *grower) counts(idx []int) []int {
	out := make([]int, g.classes)
	for _, i := range idx {
		out[g.labels[i]]++
	}
	return out
}

func (g *grower) grow(idx []int, d int) *Node {
	counts := g.counts(idx)
	node := &Node{Feature: -1, Counts: counts}
	parent := gini(counts, len(idx))
	if d >= g.maxDepth || parent == 0 || len(idx) < 2 {
		return node
	}

	bestFeature, bestThreshold, bestImpurity := -1, 0.0, parent
	for f := 0; f < g.width; f++ {
		for _, th := range g.thresholds(idx, f) {
			left, right := g.partitionCounts(idx, f, th)
			nl, nr := sum(left), sum(right)
			if nl == 0 || nr == 0 {
				continue
			}
			n := float64(len(idx))
			impurity := float64(nl)/n*gini(left, nl) + float64(nr)/n*gini(right, nr)
			if impurity < bestImpurity-1e-12 {
				bestFeature, bestThreshold, bestImpurity = f, th, impurity
			}
		}
	}
	if bestFeature < 0 {
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if g.rows[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	node.Feature = bestFeature
	node.Threshold = bestThreshold
	node.Left = g.grow(leftIdx, d+1)
	node.Right = g.grow(rightIdx, d+1)
	return node
}

// thresholds returns midpoints between consecutive distinct values.
func (g *grower) thresholds(idx []int, f int) []float64 {
	seen := make(map[float64]struct{})
	for _, i := range idx {
		seen[g.rows[i][f]] = struct{}{}
	}
	if len(seen) < 2 {
		return nil
	}
	values := make([]float64, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Float64s(values)
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		out = append(out, (values[i-1]+values[i])/2)
	}
	return out
}

func (g *grower) partitionCounts(idx []int, f int, th float64) ([]int, []int) {
	left := make([]int, g.classes)
	right := make([]int, g.classes)
	for _, i := range idx {
		if g.rows[i][f] <= th {
			left[g.labels[i]]++
		} else {
			right[g.labels[i]]++
		}
	}
	return left, right
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	acc := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		acc -= p * p
	}
	return acc
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
