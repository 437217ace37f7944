package domain

// Priority is the urgency bucket a triage evaluation sorts a report into.
type Priority string

const (
	PriorityEmergency     Priority = "emergency"
	PriorityHigh          Priority = "high"
	PriorityConsultDoctor Priority = "consult_doctor"
	PrioritySelfCare      Priority = "self_care"
	PriorityHomeCare      Priority = "home_care"
)

// Rank orders priorities by urgency. home_care and self_care share the lowest
// rank; the two labels come from different evaluation paths and are never merged.
func (p Priority) Rank() int {
	switch p {
	case PriorityEmergency:
		return 3
	case PriorityHigh:
		return 2
	case PriorityConsultDoctor:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityConsultDoctor, PrioritySelfCare, PriorityHomeCare:
		return true
	default:
		return false
	}
}

// Color is the UI hint attached to each priority.
func (p Priority) Color() string {
	switch p {
	case PriorityEmergency:
		return "danger"
	case PriorityHigh:
		return "warning"
	case PriorityConsultDoctor:
		return "info"
	default:
		return "success"
	}
}

// HealthProfile is the optional snapshot of the caller's health data. Every
// field is optional; nil means "not provided".
type HealthProfile struct {
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	HeightCM *float64 `json:"height,omitempty"`
	WeightKG *float64 `json:"weight,omitempty"`
}

type AssessmentRequest struct {
	Symptoms string         `json:"symptoms"`
	Age      int            `json:"age"`
	DaysSick int            `json:"days_sick"`
	Profile  *HealthProfile `json:"profile,omitempty"`
}

// Topic is a health-guidance article matched against symptom text.
type Topic struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Summary  string   `json:"summary,omitempty" yaml:"summary"`
	Content  string   `json:"content,omitempty" yaml:"content"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DiagnosisSource tells whether a diagnosis came from the trained model or
// from the keyword fallback cascade.
type DiagnosisSource string

const (
	DiagnosisSourceModel    DiagnosisSource = "model"
	DiagnosisSourceFallback DiagnosisSource = "fallback"
)

// Diagnosis is the predictor output. Both the model path and the fallback
// path populate every field.
type Diagnosis struct {
	Disease          string          `json:"disease"`
	DiseaseEN        string          `json:"disease_en"`
	Confidence       float64         `json:"confidence"`
	SeverityScore    int             `json:"severity_score"`
	Priority         Priority        `json:"priority"`
	Description      string          `json:"description"`
	Precautions      []string        `json:"precautions"`
	Recommendations  []string        `json:"recommendations"`
	SymptomsAnalyzed []string        `json:"symptoms_analyzed"`
	AgeFactor        int             `json:"age_factor"`
	DurationFactor   int             `json:"duration_factor"`
	Source           DiagnosisSource `json:"source"`
}

// AIData is the predictor summary attached to an assessment response.
type AIData struct {
	Disease       string   `json:"disease"`
	Confidence    float64  `json:"confidence"`
	SeverityScore int      `json:"severity_score"`
	Precautions   []string `json:"precautions"`
	Source        string   `json:"source"`
}

type AssessmentResult struct {
	Priority                    Priority `json:"priority"`
	Message                     string   `json:"message"`
	Description                 string   `json:"description"`
	Color                       string   `json:"color,omitempty"`
	Recommendations             []string `json:"recommendations"`
	Topics                      []Topic  `json:"topics,omitempty"`
	PersonalizedRecommendations []string `json:"personalized_recommendations,omitempty"`
	AIData                      *AIData  `json:"ai_data,omitempty"`
}

// LoadSource records whether static reference data came from its configured
// location or from the built-in default.
type LoadSource string

const (
	LoadSourceLoaded  LoadSource = "loaded"
	LoadSourceDefault LoadSource = "default"
)

type LoadResult struct {
	Name   string     `json:"name"`
	Source LoadSource `json:"source"`
	Reason string     `json:"reason,omitempty"`
}

func Loaded(name string) LoadResult {
	return LoadResult{Name: name, Source: LoadSourceLoaded}
}

func UsedDefault(name string, err error) LoadResult {
	reason := "not configured"
	if err != nil {
		reason = err.Error()
	}
	return LoadResult{Name: name, Source: LoadSourceDefault, Reason: reason}
}
