package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "chest_pain", Normalize("Chest Pain"))
	assert.Equal(t, "shortness_of_breath", Normalize("  shortness of breath "))
	assert.Equal(t, "", Normalize("   "))
}

func TestMatch_SubstringBothDirections(t *testing.T) {
	cat := FallbackSymptoms()

	hit, ok := cat.Match("chest pain")
	require.True(t, ok)
	assert.Equal(t, "chest_pain", hit.Key)
	assert.Equal(t, 7, hit.Weight)

	hit, ok = cat.Match("high fever at night")
	require.True(t, ok)
	assert.Equal(t, "fever", hit.Key)

	hit, ok = cat.Match("breath")
	require.True(t, ok)
	assert.Equal(t, "shortness_of_breath", hit.Key)

	_, ok = cat.Match("insomnia")
	assert.False(t, ok)

	_, ok = cat.Match("")
	assert.False(t, ok)
}

// The first key in catalog order wins even when a later key is a closer
// match. Reordering the catalog changes the result.
func TestMatch_FirstMatchDependsOnCatalogOrder(t *testing.T) {
	painFirst := NewSymptomCatalog([]SymptomWeight{
		{Key: "pain", Weight: 2},
		{Key: "joint_pain", Weight: 3},
	})
	jointFirst := NewSymptomCatalog([]SymptomWeight{
		{Key: "joint_pain", Weight: 3},
		{Key: "pain", Weight: 2},
	})

	hit, ok := painFirst.Match("joint pain")
	require.True(t, ok)
	assert.Equal(t, "pain", hit.Key)

	hit, ok = jointFirst.Match("joint pain")
	require.True(t, ok)
	assert.Equal(t, "joint_pain", hit.Key)

	for i := 0; i < 5; i++ {
		again, _ := painFirst.Match("joint pain")
		assert.Equal(t, "pain", again.Key)
	}
}

func TestNewSymptomCatalog_DuplicateKeepsPosition(t *testing.T) {
	cat := NewSymptomCatalog([]SymptomWeight{
		{Key: "fever", Weight: 5},
		{Key: "cough", Weight: 4},
		{Key: "fever", Weight: 6},
		{Key: " ", Weight: 1},
	})
	assert.Equal(t, []string{"fever", "cough"}, cat.Keys())
	w, ok := cat.Weight("fever")
	require.True(t, ok)
	assert.Equal(t, 6, w)
}

func TestSeverityScore_ScenarioClampsToTen(t *testing.T) {
	cat := FallbackSymptoms()
	score := SeverityScore(cat, []string{"fever", "headache", "cough"}, 30, 3)
	assert.Equal(t, 10, score)
}

func TestSeverityScore_Factors(t *testing.T) {
	cat := FallbackSymptoms()

	// 3 + (55-30)/10 = 5.5
	assert.Equal(t, 5, SeverityScore(cat, []string{"headache"}, 55, 0))
	// 3 + 14/7 = 5
	assert.Equal(t, 5, SeverityScore(cat, []string{"headache"}, 20, 14))
	// duration factor caps at 2
	assert.Equal(t, 5, SeverityScore(cat, []string{"headache"}, 20, 365))
	// unmatched phrases add nothing
	assert.Equal(t, 0, SeverityScore(cat, []string{"insomnia"}, 30, 0))
}

func TestSeverityScore_NegativeInputsCountAsZero(t *testing.T) {
	cat := FallbackSymptoms()
	assert.Equal(t, 3, SeverityScore(cat, []string{"headache"}, -40, -10))
	assert.Equal(t, 0, SeverityScore(cat, nil, -1, -1))
}

func TestSeverityScore_AlwaysWithinBounds(t *testing.T) {
	cat := FallbackSymptoms()
	sets := [][]string{
		nil,
		{"itching"},
		{"fever", "cough"},
		cat.Keys(),
		{"unknown", "chest pain", "chest pain", "chest pain"},
	}
	for _, symptoms := range sets {
		for age := 0; age <= 120; age += 7 {
			for days := 0; days <= 365; days += 13 {
				score := SeverityScore(cat, symptoms, age, days)
				require.GreaterOrEqual(t, score, MinSeverity)
				require.LessOrEqual(t, score, MaxSeverity)
			}
		}
	}
}

func TestDecidePriority_Table(t *testing.T) {
	cases := []struct {
		name       string
		score      int
		confidence float64
		age        int
		days       int
		want       domain.Priority
	}{
		{"score 8", 8, 0.9, 30, 1, domain.PriorityEmergency},
		{"score 6 elderly", 6, 0.9, 61, 1, domain.PriorityEmergency},
		{"score 6 age 60", 6, 0.9, 60, 1, domain.PriorityHigh},
		{"score 4 long illness", 4, 0.9, 30, 8, domain.PriorityHigh},
		{"score 4 seven days", 4, 0.9, 30, 7, domain.PriorityConsultDoctor},
		{"low confidence", 1, 0.49, 30, 1, domain.PriorityConsultDoctor},
		{"confidence boundary", 1, 0.5, 30, 1, domain.PrioritySelfCare},
		{"low score", 3, 0.9, 30, 1, domain.PrioritySelfCare},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecidePriority(tc.score, tc.confidence, tc.age, tc.days))
		})
	}
}

func TestDecidePriority_MonotonicInScore(t *testing.T) {
	for _, age := range []int{0, 30, 61, 90} {
		for _, days := range []int{0, 7, 8, 30} {
			for _, conf := range []float64{0.1, 0.5, 0.9} {
				prev := -1
				for score := MinSeverity; score <= MaxSeverity; score++ {
					rank := DecidePriority(score, conf, age, days).Rank()
					require.GreaterOrEqual(t, rank, prev, "age=%d days=%d conf=%v score=%d", age, days, conf, score)
					prev = rank
				}
			}
		}
	}
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations(domain.PriorityEmergency, 30)
	require.Len(t, recs, 3)
	assert.Equal(t, "🚨 Tìm kiếm sự chăm sóc y tế ngay lập tức", recs[0])

	recs = Recommendations(domain.PrioritySelfCare, 61)
	require.Len(t, recs, 4)
	assert.Equal(t, "🏠 Tự chăm sóc thường là đủ", recs[0])
	assert.Equal(t, elderlyCaution, recs[3])

	recs = Recommendations(domain.PriorityHigh, 60)
	assert.Len(t, recs, 3)
	assert.NotContains(t, recs, elderlyCaution)
}
