package ports

import (
	"context"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/triage"
)

// ReferenceData loads the static tables the triage components read. Every
// method returns a usable value; the LoadResult tells whether it came from
// the configured source or from a built-in default.
type ReferenceData interface {
	SymptomCatalog(ctx context.Context) (*diagnosis.SymptomCatalog, domain.LoadResult)
	DiseaseCatalog(ctx context.Context) (*diagnosis.DiseaseCatalog, domain.LoadResult)
	TrainingSet(ctx context.Context) (*diagnosis.TrainingSet, domain.LoadResult)
	TriageRules(ctx context.Context) (triage.RuleSet, []domain.LoadResult)
	Topics(ctx context.Context) ([]domain.Topic, domain.LoadResult)
}
