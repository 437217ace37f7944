package diagnosis

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"sync"
)

// ModelStore persists the serialized model artifact. OpenModel returns an
// error wrapping fs.ErrNotExist when nothing has been saved yet.
type ModelStore interface {
	OpenModel(ctx context.Context) (io.ReadCloser, error)
	SaveModel(ctx context.Context, r io.Reader) error
}

type InitOptions struct {
	Symptoms *SymptomCatalog
	Diseases *DiseaseCatalog
	// Training is the presence table; nil trains on a synthetic table.
	Training *TrainingSet
	Store    ModelStore
	// Retrain ignores a stored artifact.
	Retrain bool
	Train   TrainOptions
}

type InitSource string

const (
	InitFromArtifact InitSource = "artifact"
	InitTrained      InitSource = "trained"
	InitFallbackOnly InitSource = "fallback"
)

type InitReport struct {
	Source InitSource  `json:"source"`
	Train  TrainReport `json:"train"`
	Saved  bool        `json:"saved"`
	Reason string      `json:"reason,omitempty"`
}

// Init loads the stored model when one exists, otherwise trains a tree and
// saves it. Training problems degrade to a fallback-only predictor; only a
// cancelled context is returned as an error.
func Init(ctx context.Context, opts InitOptions) (*Predictor, InitReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, InitReport{}, err
	}

	if opts.Store != nil && !opts.Retrain {
		pred, err := loadStored(ctx, opts.Store)
		if err == nil {
			return pred, InitReport{Source: InitFromArtifact, Train: pred.Report()}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("model_artifact_missing")
		} else {
			slog.Warn("model_artifact_invalid", "error", err)
		}
	}

	symptoms := opts.Symptoms
	if symptoms.Len() == 0 {
		symptoms = FallbackSymptoms()
	}
	diseases := opts.Diseases
	if diseases.Len() == 0 {
		diseases = FallbackDiseases()
	}

	synthetic := false
	var set TrainingSet
	if opts.Training != nil && opts.Training.Validate() == nil {
		set = *opts.Training
	} else {
		if opts.Training != nil {
			slog.Warn("training_set_default_used", "reason", opts.Training.Validate().Error())
		}
		set = SyntheticTrainingSet(symptoms, diseases, SyntheticSeed, SyntheticRows)
		synthetic = true
	}

	tree, report, err := Train(set, opts.Train)
	if err != nil {
		slog.Warn("model_training_failed", "error", err)
		pred := NewPredictor(PredictorConfig{Symptoms: symptoms, Diseases: diseases})
		return pred, InitReport{Source: InitFallbackOnly, Reason: err.Error()}, nil
	}
	report.Synthetic = synthetic

	pred := NewPredictor(PredictorConfig{
		Symptoms:   symptoms,
		Diseases:   diseases,
		Features:   set.Features,
		Labels:     set.DistinctLabels(),
		Classifier: tree,
		Report:     report,
	})
	out := InitReport{Source: InitTrained, Train: report}
	slog.Info("model_trained",
		"samples", report.Samples,
		"features", report.Features,
		"classes", report.Classes,
		"train_accuracy", report.TrainAccuracy,
		"test_accuracy", report.TestAccuracy,
		"synthetic", synthetic,
	)

	if opts.Store != nil {
		var buf bytes.Buffer
		if err := pred.SaveModel(&buf); err != nil {
			slog.Warn("model_save_failed", "error", err)
		} else if err := opts.Store.SaveModel(ctx, &buf); err != nil {
			slog.Warn("model_save_failed", "error", err)
		} else {
			out.Saved = true
		}
	}
	return pred, out, nil
}

func loadStored(ctx context.Context, store ModelStore) (*Predictor, error) {
	rc, err := store.OpenModel(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return LoadModel(rc)
}

// Loader runs Init exactly once and hands the same predictor to every
// caller afterwards.
type Loader struct {
	opts InitOptions

	once   sync.Once
	pred   *Predictor
	report InitReport
	err    error
}

func NewLoader(opts InitOptions) *Loader {
	return &Loader{opts: opts}
}

func (l *Loader) Load(ctx context.Context) (*Predictor, error) {
	l.once.Do(func() {
		l.pred, l.report, l.err = Init(ctx, l.opts)
	})
	return l.pred, l.err
}

// Report is valid after Load has returned.
func (l *Loader) Report() InitReport {
	return l.report
}
