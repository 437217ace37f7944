package diagnosis

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

const (
	SyntheticSeed      = 42
	SyntheticRows      = 100
	SyntheticPresenceP = 0.3
	DefaultTestSplit   = 0.2
)

// TrainingSet is a symptom-presence table: one column per feature symptom
// and one disease label per row.
type TrainingSet struct {
	Features []string
	Rows     [][]float64
	Labels   []string
}

func (s TrainingSet) Len() int { return len(s.Rows) }

func (s TrainingSet) Validate() error {
	if len(s.Features) == 0 {
		return errors.New("training set has no feature columns")
	}
	if len(s.Rows) == 0 {
		return errors.New("training set has no rows")
	}
	if len(s.Rows) != len(s.Labels) {
		return fmt.Errorf("training set rows/labels mismatch: %d vs %d", len(s.Rows), len(s.Labels))
	}
	for i, r := range s.Rows {
		if len(r) != len(s.Features) {
			return fmt.Errorf("training row %d has %d values, want %d", i, len(r), len(s.Features))
		}
	}
	return nil
}

// Classes returns the distinct labels in sorted order.
func (s TrainingSet) Classes() []string {
	seen := make(map[string]struct{}, len(s.Labels))
	out := make([]string, 0)
	for _, l := range s.Labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// DistinctLabels returns labels in first-appearance order.
func (s TrainingSet) DistinctLabels() []string {
	seen := make(map[string]struct{}, len(s.Labels))
	out := make([]string, 0)
	for _, l := range s.Labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

// Split shuffles row indexes with a seeded source and holds out testFraction
// of them. The same seed always yields the same partition.
func (s TrainingSet) Split(testFraction float64, seed uint64) (TrainingSet, TrainingSet) {
	n := len(s.Rows)
	if testFraction <= 0 || testFraction >= 1 || n < 2 {
		return s, TrainingSet{Features: s.Features}
	}
	nTest := int(float64(n)*testFraction + 0.999999)
	if nTest >= n {
		nTest = n - 1
	}
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	train := TrainingSet{Features: s.Features}
	test := TrainingSet{Features: s.Features}
	for i, p := range perm {
		if i < nTest {
			test.Rows = append(test.Rows, s.Rows[p])
			test.Labels = append(test.Labels, s.Labels[p])
			continue
		}
		train.Rows = append(train.Rows, s.Rows[p])
		train.Labels = append(train.Labels, s.Labels[p])
	}
	return train, test
}

// SyntheticTrainingSet builds a random presence table over the catalogs'
// symptoms and diseases. Each cell is 1 with probability SyntheticPresenceP.
func SyntheticTrainingSet(symptoms *SymptomCatalog, diseases *DiseaseCatalog, seed uint64, rows int) TrainingSet {
	features := symptoms.Keys()
	labels := diseases.Labels()
	set := TrainingSet{Features: features}
	if len(features) == 0 || len(labels) == 0 || rows <= 0 {
		return set
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < rows; i++ {
		row := make([]float64, len(features))
		for j := range row {
			if rng.Float64() < SyntheticPresenceP {
				row[j] = 1
			}
		}
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, labels[rng.IntN(len(labels))])
	}
	return set
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Samples       int     `json:"samples"`
	Features      int     `json:"features"`
	Classes       int     `json:"classes"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
	Depth         int     `json:"depth"`
	Synthetic     bool    `json:"synthetic"`
}

type TrainOptions struct {
	MaxDepth     int
	TestFraction float64
	Seed         uint64
}

func (o TrainOptions) normalize() TrainOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = DefaultTestSplit
	}
	if o.Seed == 0 {
		o.Seed = SyntheticSeed
	}
	return o
}

// Train fits a tree on a deterministic split of set and reports accuracy on
// both partitions.
func Train(set TrainingSet, opts TrainOptions) (*Tree, TrainReport, error) {
	if err := set.Validate(); err != nil {
		return nil, TrainReport{}, err
	}
	opts = opts.normalize()
	classes := set.Classes()
	encode := make(map[string]int, len(classes))
	for i, c := range classes {
		encode[c] = i
	}

	train, test := set.Split(opts.TestFraction, opts.Seed)
	labels := make([]int, len(train.Labels))
	for i, l := range train.Labels {
		labels[i] = encode[l]
	}
	tree, err := GrowTree(train.Rows, labels, classes, opts.MaxDepth)
	if err != nil {
		return nil, TrainReport{}, fmt.Errorf("grow tree: %w", err)
	}

	return tree, TrainReport{
		Samples:       set.Len(),
		Features:      len(set.Features),
		Classes:       len(classes),
		TrainAccuracy: Accuracy(tree, train),
		TestAccuracy:  Accuracy(tree, test),
		Depth:         tree.Depth(),
	}, nil
}

// Accuracy is the share of rows whose predicted label equals the recorded one.
func Accuracy(c Classifier, set TrainingSet) float64 {
	if len(set.Rows) == 0 {
		return 0
	}
	hits := 0
	for i, row := range set.Rows {
		if label, _ := c.Predict(row); label == set.Labels[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(set.Rows))
}
