package usecase

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
	"github.com/healthfirst/homecare/internal/core/triage"
)

const DefaultModelKey = "models/health_model.json"

// AIInitUseCase wires reference data and object storage into the one-time
// predictor initialization.
type AIInitUseCase struct {
	refdata  ports.ReferenceData
	storage  ports.ObjectStorage
	modelKey string
	retrain  bool
}

func NewAIInitUseCase(refdata ports.ReferenceData, storage ports.ObjectStorage, modelKey string, retrain bool) *AIInitUseCase {
	if modelKey == "" {
		modelKey = DefaultModelKey
	}
	return &AIInitUseCase{
		refdata:  refdata,
		storage:  storage,
		modelKey: modelKey,
		retrain:  retrain,
	}
}

// Options loads the catalogs and training table. Defaults substituted for
// missing data are logged and never fail the call.
func (uc *AIInitUseCase) Options(ctx context.Context) diagnosis.InitOptions {
	symptoms, res := uc.refdata.SymptomCatalog(ctx)
	logLoadResult(res)
	diseases, res := uc.refdata.DiseaseCatalog(ctx)
	logLoadResult(res)
	training, res := uc.refdata.TrainingSet(ctx)
	logLoadResult(res)

	opts := diagnosis.InitOptions{
		Symptoms: symptoms,
		Diseases: diseases,
		Training: training,
		Retrain:  uc.retrain,
	}
	if uc.storage != nil {
		opts.Store = objectModelStore{storage: uc.storage, key: uc.modelKey}
	}
	return opts
}

// Loader returns a once-only loader over freshly built options.
func (uc *AIInitUseCase) Loader(ctx context.Context) *diagnosis.Loader {
	return diagnosis.NewLoader(uc.Options(ctx))
}

// Initialize builds the predictor directly; the CLI uses it to force a run.
func (uc *AIInitUseCase) Initialize(ctx context.Context) (*diagnosis.Predictor, diagnosis.InitReport, error) {
	return diagnosis.Init(ctx, uc.Options(ctx))
}

// BuildTriageEngine loads keyword rules and topics into an engine.
func BuildTriageEngine(ctx context.Context, refdata ports.ReferenceData) *triage.Engine {
	rules, results := refdata.TriageRules(ctx)
	for _, res := range results {
		logLoadResult(res)
	}
	topics, res := refdata.Topics(ctx)
	logLoadResult(res)
	return triage.NewEngine(rules, topics)
}

func logLoadResult(res domain.LoadResult) {
	if res.Source == domain.LoadSourceDefault {
		slog.Warn("catalog_default_used", "name", res.Name, "reason", res.Reason)
		return
	}
	slog.Debug("catalog_loaded", "name", res.Name)
}

// objectModelStore keeps the model artifact in object storage.
type objectModelStore struct {
	storage ports.ObjectStorage
	key     string
}

func (s objectModelStore) OpenModel(ctx context.Context) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, s.key)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", fs.ErrNotExist, err)
		}
		return nil, err
	}
	return rc, nil
}

func (s objectModelStore) SaveModel(ctx context.Context, r io.Reader) error {
	return s.storage.Save(ctx, s.key, r)
}
