package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowTree_SeparableData(t *testing.T) {
	rows := [][]float64{{1, 0}, {1, 0}, {0, 1}, {0, 1}}
	labels := []int{0, 0, 1, 1}

	tree, err := GrowTree(rows, labels, []string{"A", "B"}, 10)
	require.NoError(t, err)

	label, conf := tree.Predict([]float64{1, 0})
	assert.Equal(t, "A", label)
	assert.Equal(t, 1.0, conf)

	label, _ = tree.Predict([]float64{0, 1})
	assert.Equal(t, "B", label)
	assert.Equal(t, 1, tree.Depth())
}

func TestGrowTree_RespectsMaxDepth(t *testing.T) {
	rows := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	labels := []int{0, 1, 2, 2}
	classes := []string{"A", "B", "C"}

	shallow, err := GrowTree(rows, labels, classes, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, shallow.Depth())
	// the left leaf holds one A and one B; ties resolve to the first class
	label, conf := shallow.Predict([]float64{0, 1})
	assert.Equal(t, "A", label)
	assert.Equal(t, 0.5, conf)

	deep, err := GrowTree(rows, labels, classes, 2)
	require.NoError(t, err)
	label, conf = deep.Predict([]float64{0, 1})
	assert.Equal(t, "B", label)
	assert.Equal(t, 1.0, conf)
}

func TestGrowTree_Validation(t *testing.T) {
	_, err := GrowTree(nil, nil, []string{"A"}, 3)
	assert.Error(t, err)

	_, err = GrowTree([][]float64{{1}}, []int{0, 1}, []string{"A"}, 3)
	assert.Error(t, err)

	_, err = GrowTree([][]float64{{1}, {1, 0}}, []int{0, 0}, []string{"A"}, 3)
	assert.Error(t, err)

	_, err = GrowTree([][]float64{{1}}, []int{3}, []string{"A"}, 3)
	assert.Error(t, err)
}

func TestTree_PredictWithoutRoot(t *testing.T) {
	var tree *Tree
	label, conf := tree.Predict([]float64{1})
	assert.Empty(t, label)
	assert.Zero(t, conf)
}

func TestTrain_Deterministic(t *testing.T) {
	set := SyntheticTrainingSet(FallbackSymptoms(), FallbackDiseases(), SyntheticSeed, SyntheticRows)

	a, reportA, err := Train(set, TrainOptions{})
	require.NoError(t, err)
	b, reportB, err := Train(set, TrainOptions{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, reportA, reportB)
	assert.LessOrEqual(t, reportA.Depth, DefaultMaxDepth)
	assert.Equal(t, 16, reportA.Features)
	assert.GreaterOrEqual(t, reportA.TrainAccuracy, reportA.TestAccuracy-1)
}

func TestTrainingSet_Split(t *testing.T) {
	set := SyntheticTrainingSet(FallbackSymptoms(), FallbackDiseases(), SyntheticSeed, SyntheticRows)

	train, test := set.Split(0.2, 42)
	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, test.Len())

	train2, test2 := set.Split(0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestSyntheticTrainingSet(t *testing.T) {
	diseases := FallbackDiseases()
	set := SyntheticTrainingSet(FallbackSymptoms(), diseases, SyntheticSeed, SyntheticRows)

	require.NoError(t, set.Validate())
	assert.Equal(t, SyntheticRows, set.Len())
	assert.Equal(t, FallbackSymptoms().Keys(), set.Features)
	for _, l := range set.Labels {
		_, ok := diseases.Get(l)
		assert.True(t, ok, "label %q", l)
	}

	again := SyntheticTrainingSet(FallbackSymptoms(), diseases, SyntheticSeed, SyntheticRows)
	assert.Equal(t, set, again)
}

func TestTrainingSet_Validate(t *testing.T) {
	assert.Error(t, TrainingSet{}.Validate())
	assert.Error(t, TrainingSet{Features: []string{"a"}}.Validate())
	assert.Error(t, TrainingSet{Features: []string{"a"}, Rows: [][]float64{{1}}, Labels: nil}.Validate())
	assert.Error(t, TrainingSet{Features: []string{"a"}, Rows: [][]float64{{1, 0}}, Labels: []string{"x"}}.Validate())
	assert.NoError(t, TrainingSet{Features: []string{"a"}, Rows: [][]float64{{1}}, Labels: []string{"x"}}.Validate())
}

func TestAccuracy(t *testing.T) {
	set := TrainingSet{
		Features: []string{"a"},
		Rows:     [][]float64{{1}, {0}},
		Labels:   []string{"x", "y"},
	}
	assert.Equal(t, 0.5, Accuracy(&stubClassifier{label: "x", confidence: 1}, set))
	assert.Zero(t, Accuracy(&stubClassifier{label: "x"}, TrainingSet{}))
}
