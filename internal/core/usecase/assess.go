package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
	"github.com/healthfirst/homecare/internal/core/triage"
)

// TriageMode selects which evaluator answers an assessment.
type TriageMode string

const (
	// TriageModeAuto uses the predictor when one is loaded, else keywords.
	TriageModeAuto    TriageMode = "auto"
	TriageModeKeyword TriageMode = "keyword"
)

const (
	TriagePathKeyword = "keyword"
	maxAge            = 150
)

func ParseTriageMode(s string) TriageMode {
	switch TriageMode(strings.ToLower(strings.TrimSpace(s))) {
	case TriageModeKeyword:
		return TriageModeKeyword
	default:
		return TriageModeAuto
	}
}

type AssessUseCase struct {
	engine      *triage.Engine
	predictor   *diagnosis.Predictor
	mode        TriageMode
	assessments ports.AssessmentRepository
	sync        syncNotifier
	observer    ports.TriageObserver
}

func NewAssessUseCase(
	engine *triage.Engine,
	predictor *diagnosis.Predictor,
	mode TriageMode,
	assessments ports.AssessmentRepository,
	publisher ports.SyncPublisher,
	observer ports.TriageObserver,
) *AssessUseCase {
	return &AssessUseCase{
		engine:      engine,
		predictor:   predictor,
		mode:        mode,
		assessments: assessments,
		sync:        syncNotifier{publisher: publisher},
		observer:    observer,
	}
}

// Assess evaluates a report, stores it for signed-in users and mirrors it to
// the document store.
func (uc *AssessUseCase) Assess(ctx context.Context, user *domain.User, req domain.AssessmentRequest) (domain.AssessmentResult, error) {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	if err := validateAssessment(req); err != nil {
		return domain.AssessmentResult{}, err
	}
	if req.Profile == nil && user != nil {
		req.Profile = user.HealthProfile()
	}

	result, path, severity := uc.evaluate(req)
	if uc.observer != nil {
		uc.observer.ObserveTriage(path, result.Priority, severity)
	}

	if user == nil || uc.assessments == nil {
		return result, nil
	}
	record := &domain.Assessment{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		UserEmail:       user.Email,
		Symptoms:        req.Symptoms,
		AgeAtAssessment: req.Age,
		DaysSick:        req.DaysSick,
		Priority:        result.Priority,
		Message:         result.Message,
		Description:     result.Description,
		Recommendations: result.Recommendations,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.assessments.CreateAssessment(ctx, record); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("save assessment: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindAssessment, record.ID, user.ID, record)
	return result, nil
}

func (uc *AssessUseCase) evaluate(req domain.AssessmentRequest) (domain.AssessmentResult, string, int) {
	if uc.usePredictor() {
		d := uc.predictor.Predict(diagnosis.SplitSymptoms(req.Symptoms), req.Age, req.DaysSick)
		return predictorResult(d), string(d.Source), d.SeverityScore
	}
	return uc.engine.Assess(req), TriagePathKeyword, -1
}

func (uc *AssessUseCase) usePredictor() bool {
	if uc.predictor == nil {
		return false
	}
	return uc.mode != TriageModeKeyword || uc.engine == nil
}

func predictorResult(d domain.Diagnosis) domain.AssessmentResult {
	return domain.AssessmentResult{
		Priority:        d.Priority,
		Message:         fmt.Sprintf("AI chẩn đoán: %s (Độ tin cậy: %.1f%%)", d.Disease, d.Confidence),
		Description:     d.Description,
		Color:           d.Priority.Color(),
		Recommendations: d.Recommendations,
		AIData: &domain.AIData{
			Disease:       d.Disease,
			Confidence:    d.Confidence,
			SeverityScore: d.SeverityScore,
			Precautions:   d.Precautions,
			Source:        string(d.Source),
		},
	}
}

// QuickDiagnosis runs only the predictor and stores nothing.
func (uc *AssessUseCase) QuickDiagnosis(_ context.Context, req domain.QuickDiagnosisRequest) (domain.Diagnosis, error) {
	phrases := make([]string, 0, len(req.Symptoms))
	for _, s := range req.Symptoms {
		phrases = append(phrases, diagnosis.SplitSymptoms(s)...)
	}
	if len(phrases) == 0 {
		return domain.Diagnosis{}, domain.NewUserError(domain.ErrInvalidInput, "Vui lòng nhập triệu chứng")
	}
	if uc.predictor == nil {
		return domain.Diagnosis{}, errPredictorUnavailable()
	}
	age, days := req.Values()
	if age < 0 || age > maxAge || days < 0 {
		return domain.Diagnosis{}, domain.NewUserError(domain.ErrInvalidInput, "Tuổi hoặc số ngày bị bệnh không hợp lệ")
	}
	d := uc.predictor.Predict(phrases, age, days)
	if uc.observer != nil {
		uc.observer.ObserveTriage(string(d.Source), d.Priority, d.SeverityScore)
	}
	return d, nil
}

func validateAssessment(req domain.AssessmentRequest) error {
	if req.Symptoms == "" {
		return domain.NewUserError(domain.ErrInvalidInput, "Vui lòng nhập triệu chứng")
	}
	if req.Age < 0 || req.Age > maxAge {
		return domain.NewUserError(domain.ErrInvalidInput, "Tuổi không hợp lệ")
	}
	if req.DaysSick < 0 {
		return domain.NewUserError(domain.ErrInvalidInput, "Số ngày bị bệnh không hợp lệ")
	}
	return nil
}
