package diagnosis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const modelFormatVersion = 1

var ErrNoModel = errors.New("model artifact carries no classifier")

type modelArtifact struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"saved_at"`
	Tree     *Tree           `json:"tree,omitempty"`
	Features []string        `json:"features"`
	Labels   []string        `json:"labels"`
	Symptoms []SymptomWeight `json:"symptoms"`
	Diseases []Disease       `json:"diseases"`
	Report   TrainReport     `json:"report"`
}

// SaveModel writes the classifier, feature order, label set and catalogs as
// one artifact. Only tree classifiers can be saved.
func (p *Predictor) SaveModel(w io.Writer) error {
	art := modelArtifact{
		Version:  modelFormatVersion,
		SavedAt:  time.Now().UTC(),
		Features: p.features,
		Labels:   p.labels,
		Symptoms: p.symptoms.Entries(),
		Diseases: p.diseases.Entries(),
		Report:   p.report,
	}
	if p.classifier != nil {
		tree, ok := p.classifier.(*Tree)
		if !ok {
			return fmt.Errorf("save model: classifier %T is not serializable", p.classifier)
		}
		art.Tree = tree
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(art); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// LoadModel restores a predictor from an artifact written by SaveModel.
func LoadModel(r io.Reader) (*Predictor, error) {
	var art modelArtifact
	if err := json.NewDecoder(r).Decode(&art); err != nil {
		return nil, fmt.Errorf("load model: decode: %w", err)
	}
	if art.Version != modelFormatVersion {
		return nil, fmt.Errorf("load model: unsupported version %d", art.Version)
	}
	if art.Tree == nil {
		return nil, ErrNoModel
	}
	if err := art.Tree.validate(); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if art.Tree.Width != len(art.Features) {
		return nil, fmt.Errorf("load model: tree width %d does not match %d features", art.Tree.Width, len(art.Features))
	}
	return NewPredictor(PredictorConfig{
		Symptoms:   NewSymptomCatalog(art.Symptoms),
		Diseases:   NewDiseaseCatalog(art.Diseases),
		Features:   art.Features,
		Labels:     art.Labels,
		Classifier: art.Tree,
		Report:     art.Report,
	}), nil
}
