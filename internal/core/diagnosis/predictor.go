package diagnosis

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
)

const (
	fallbackConfidence  = 50.0
	fallbackDescription = "Mô hình AI không khả dụng. Đây là đánh giá cơ bản."
	missingDescription  = "Không có mô tả."
)

var (
	fallbackPrecautions = []string{"Tham khảo ý kiến bác sĩ", "Nghỉ ngơi", "Uống nhiều nước", "Theo dõi triệu chứng"}
	defaultPrecautions  = []string{"Tham khảo ý kiến bác sĩ", "Nghỉ ngơi", "Uống nhiều nước"}
)

// fallbackRule picks a coarse label when any phrase equals one of its members.
type fallbackRule struct {
	phrases []string
	label   string
}

var fallbackRules = []fallbackRule{
	{phrases: []string{"fever", "cough", "sore throat"}, label: "Cảm lạnh thông thường"},
	{phrases: []string{"chest pain", "shortness of breath"}, label: "Khẩn cấp - Vấn đề tim/phổi"},
	{phrases: []string{"vomiting", "diarrhea", "abdominal pain"}, label: "Viêm dạ dày ruột"},
}

const fallbackGeneralLabel = "Bệnh chung"

type PredictorConfig struct {
	Symptoms   *SymptomCatalog
	Diseases   *DiseaseCatalog
	Features   []string
	Labels     []string
	Classifier Classifier
	Report     TrainReport
}

// Predictor scores symptom lists and predicts a disease label. It is built
// once at startup and only read afterwards, so it is safe for concurrent use.
type Predictor struct {
	symptoms   *SymptomCatalog
	diseases   *DiseaseCatalog
	features   []string
	labels     []string
	classifier Classifier
	report     TrainReport
}

func NewPredictor(cfg PredictorConfig) *Predictor {
	symptoms := cfg.Symptoms
	if symptoms.Len() == 0 {
		symptoms = FallbackSymptoms()
	}
	diseases := cfg.Diseases
	if diseases.Len() == 0 {
		diseases = FallbackDiseases()
	}
	features := append([]string(nil), cfg.Features...)
	if len(features) == 0 {
		features = symptoms.Keys()
	}
	labels := append([]string(nil), cfg.Labels...)
	if len(labels) == 0 {
		labels = diseases.Labels()
	}
	return &Predictor{
		symptoms:   symptoms,
		diseases:   diseases,
		features:   features,
		labels:     labels,
		classifier: cfg.Classifier,
		report:     cfg.Report,
	}
}

// HasModel reports whether predictions go through a trained classifier.
func (p *Predictor) HasModel() bool { return p.classifier != nil }

func (p *Predictor) Report() TrainReport { return p.report }

func (p *Predictor) SymptomCatalog() *SymptomCatalog { return p.symptoms }

func (p *Predictor) DiseaseCatalog() *DiseaseCatalog { return p.diseases }

// FeatureVector sets one slot per feature symptom using the catalog matching
// rule. Unmatched phrases leave every slot untouched.
func (p *Predictor) FeatureVector(symptoms []string) []float64 {
	vec := make([]float64, len(p.features))
	for _, phrase := range symptoms {
		if i := matchIndex(p.features, phrase); i >= 0 {
			vec[i] = 1
		}
	}
	return vec
}

// Predict never fails: a missing or misbehaving classifier routes the call
// through the keyword fallback, which fills the same fields.
func (p *Predictor) Predict(symptoms []string, age, daysSick int) domain.Diagnosis {
	phrases := cleanPhrases(symptoms)
	if p.classifier == nil {
		return p.fallback(phrases, age, daysSick)
	}

	label, confidence, err := p.classify(p.FeatureVector(phrases))
	if err != nil {
		slog.Warn("classifier_fallback", "error", err)
		return p.fallback(phrases, age, daysSick)
	}

	score := SeverityScore(p.symptoms, phrases, age, daysSick)
	priority := DecidePriority(score, confidence, age, daysSick)

	description := missingDescription
	precautions := defaultPrecautions
	if d, ok := p.diseases.Get(label); ok {
		if d.Description != "" {
			description = d.Description
		}
		if len(d.Precautions) > 0 {
			precautions = d.Precautions
		}
	}

	return domain.Diagnosis{
		Disease:          DiseaseNameVN(label),
		DiseaseEN:        label,
		Confidence:       math.Round(confidence*1000) / 10,
		SeverityScore:    score,
		Priority:         priority,
		Description:      description,
		Precautions:      append([]string(nil), precautions...),
		Recommendations:  Recommendations(priority, age),
		SymptomsAnalyzed: phrases,
		AgeFactor:        age,
		DurationFactor:   daysSick,
		Source:           domain.DiagnosisSourceModel,
	}
}

func (p *Predictor) classify(features []float64) (label string, confidence float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			label, confidence = "", 0
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	label, confidence = p.classifier.Predict(features)
	if label == "" {
		return "", 0, errors.New("classifier returned no label")
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return "", 0, fmt.Errorf("classifier confidence %v out of range", confidence)
	}
	return label, confidence, nil
}

func (p *Predictor) fallback(phrases []string, age, daysSick int) domain.Diagnosis {
	label := FallbackLabel(phrases)
	score := SeverityScore(p.symptoms, phrases, age, daysSick)
	priority := DecidePriority(score, fallbackConfidence/100, age, daysSick)
	return domain.Diagnosis{
		Disease:          label,
		DiseaseEN:        label,
		Confidence:       fallbackConfidence,
		SeverityScore:    score,
		Priority:         priority,
		Description:      fallbackDescription,
		Precautions:      append([]string(nil), fallbackPrecautions...),
		Recommendations:  Recommendations(priority, age),
		SymptomsAnalyzed: phrases,
		AgeFactor:        age,
		DurationFactor:   daysSick,
		Source:           domain.DiagnosisSourceFallback,
	}
}

// FallbackLabel applies the three-branch cascade. A phrase must equal a
// member of a branch, case aside; substrings do not count.
func FallbackLabel(phrases []string) string {
	for _, rule := range fallbackRules {
		for _, phrase := range phrases {
			for _, member := range rule.phrases {
				if strings.EqualFold(strings.TrimSpace(phrase), member) {
					return rule.label
				}
			}
		}
	}
	return fallbackGeneralLabel
}

// SplitSymptoms splits comma-separated free text into trimmed phrases.
func SplitSymptoms(text string) []string {
	return cleanPhrases(strings.Split(text, ","))
}

func cleanPhrases(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type SymptomName struct {
	EN string `json:"en"`
	VN string `json:"vn"`
}

type SymptomInfo struct {
	Name        string `json:"name"`
	NameVN      string `json:"name_vn"`
	Severity    int    `json:"severity"`
	Description string `json:"description"`
}

type DiseaseInfo struct {
	ID          int      `json:"id"`
	EN          string   `json:"en"`
	VN          string   `json:"vn"`
	Description string   `json:"description"`
	Prevention  []string `json:"prevention"`
	Symptoms    []string `json:"symptoms"`
	Care        []string `json:"care"`
}

// Symptoms returns the feature symptom keys in sorted order.
func (p *Predictor) Symptoms() []string { return sortedCopy(p.features) }

func (p *Predictor) SymptomsVN() []SymptomName {
	keys := p.Symptoms()
	out := make([]SymptomName, len(keys))
	for i, k := range keys {
		out[i] = SymptomName{EN: k, VN: SymptomNameVN(k)}
	}
	return out
}

func (p *Predictor) Diseases() []string { return sortedCopy(p.labels) }

func (p *Predictor) DiseasesVN() []SymptomName {
	labels := p.Diseases()
	out := make([]SymptomName, len(labels))
	for i, l := range labels {
		out[i] = SymptomName{EN: l, VN: DiseaseNameVN(l)}
	}
	return out
}

// SymptomInfo describes the catalog entry a phrase matches. Unknown phrases
// get a neutral severity of 3.
func (p *Predictor) SymptomInfo(name string) SymptomInfo {
	if hit, ok := p.symptoms.Match(name); ok {
		return SymptomInfo{
			Name:        hit.Key,
			NameVN:      SymptomNameVN(hit.Key),
			Severity:    hit.Weight,
			Description: fmt.Sprintf("Mức độ nghiêm trọng: %d/10", hit.Weight),
		}
	}
	return SymptomInfo{
		Name:        name,
		NameVN:      name,
		Severity:    3,
		Description: "Triệu chứng không có trong cơ sở dữ liệu",
	}
}

// DiseaseInfo returns reference details for a label, with typical symptoms
// and care picked by disease family.
func (p *Predictor) DiseaseInfo(label string) DiseaseInfo {
	info := DiseaseInfo{
		EN:          label,
		VN:          DiseaseNameVN(label),
		Description: "Mô tả bệnh sẽ được cập nhật",
		Prevention:  append([]string(nil), defaultPrecautions...),
	}
	if d, ok := p.diseases.Get(label); ok {
		if d.Description != "" {
			info.Description = d.Description
		}
		if len(d.Precautions) > 0 {
			info.Prevention = d.Precautions
		}
	}
	fam := familyOf(label)
	info.Symptoms = append([]string(nil), fam.symptoms...)
	info.Care = append([]string(nil), fam.care...)
	return info
}

// DiseaseInfos lists every known disease with a 1-based id in sorted order.
func (p *Predictor) DiseaseInfos() []DiseaseInfo {
	labels := p.Diseases()
	out := make([]DiseaseInfo, len(labels))
	for i, l := range labels {
		out[i] = p.DiseaseInfo(l)
		out[i].ID = i + 1
	}
	return out
}
