package usecase

import (
	"context"
	"strings"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/triage"
)

// CatalogUseCase serves topics and predictor reference data.
type CatalogUseCase struct {
	engine    *triage.Engine
	predictor *diagnosis.Predictor
}

func NewCatalogUseCase(engine *triage.Engine, predictor *diagnosis.Predictor) *CatalogUseCase {
	return &CatalogUseCase{engine: engine, predictor: predictor}
}

func (uc *CatalogUseCase) Topics(context.Context) []domain.Topic {
	if uc.engine == nil {
		return []domain.Topic{}
	}
	return uc.engine.Topics()
}

func (uc *CatalogUseCase) Symptoms(context.Context) ([]diagnosis.SymptomName, error) {
	if uc.predictor == nil {
		return nil, errPredictorUnavailable()
	}
	return uc.predictor.SymptomsVN(), nil
}

func (uc *CatalogUseCase) Diseases(context.Context) ([]diagnosis.DiseaseInfo, error) {
	if uc.predictor == nil {
		return nil, errPredictorUnavailable()
	}
	return uc.predictor.DiseaseInfos(), nil
}

func (uc *CatalogUseCase) SymptomInfo(_ context.Context, name string) (diagnosis.SymptomInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return diagnosis.SymptomInfo{}, domain.NewUserError(domain.ErrInvalidInput, "Vui lòng nhập triệu chứng")
	}
	if uc.predictor == nil {
		return diagnosis.SymptomInfo{}, errPredictorUnavailable()
	}
	return uc.predictor.SymptomInfo(name), nil
}

func errPredictorUnavailable() error {
	return domain.NewUserError(domain.ErrUnavailable, "Hệ thống AI chưa sẵn sàng")
}
