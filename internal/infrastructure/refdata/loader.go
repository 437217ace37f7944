package refdata

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/triage"
)

const (
	SeverityFile    = "Symptom_severity.csv"
	DescriptionFile = "symptom_Description.csv"
	PrecautionFile  = "symptom_precaution.csv"
	TrainingFile    = "Training.csv"

	redFlagsBase = "red_flags"
	rulesBase    = "rules"
	topicsBase   = "topics"

	labelColumn = "prognosis"
)

// structuredExts is the lookup order for rule and topic files.
var structuredExts = []string{".json", ".yaml", ".yml"}

// Loader reads reference data from two directories: the AI data directory
// with the CSV tables, and the app data directory with the keyword rules and
// topics. A missing or malformed file yields the built-in default together
// with a LoadResult naming the reason.
type Loader struct {
	aiData  fs.FS
	appData fs.FS
}

func NewLoader(aiData, appData fs.FS) *Loader {
	return &Loader{aiData: aiData, appData: appData}
}

// NewDirLoader reads from directories on disk. An empty path means the data
// is not configured and defaults are used.
func NewDirLoader(aiDataDir, appDataDir string) *Loader {
	var ai, app fs.FS
	if aiDataDir != "" {
		ai = os.DirFS(aiDataDir)
	}
	if appDataDir != "" {
		app = os.DirFS(appDataDir)
	}
	return NewLoader(ai, app)
}

func (l *Loader) SymptomCatalog(_ context.Context) (*diagnosis.SymptomCatalog, domain.LoadResult) {
	rows, err := readCSV(l.aiData, SeverityFile)
	if err == nil {
		var catalog *diagnosis.SymptomCatalog
		if catalog, err = parseSeverity(rows); err == nil {
			return catalog, domain.Loaded(SeverityFile)
		}
	}
	return diagnosis.FallbackSymptoms(), domain.UsedDefault(SeverityFile, err)
}

func parseSeverity(rows [][]string) (*diagnosis.SymptomCatalog, error) {
	weights := make([]diagnosis.SymptomWeight, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s line %d: want 2 columns, got %d", SeverityFile, i+2, len(row))
		}
		w, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: weight %q: %w", SeverityFile, i+2, row[1], err)
		}
		if w < diagnosis.MinSymptomWeight || w > diagnosis.MaxSymptomWeight {
			return nil, fmt.Errorf("%s line %d: weight %d outside [%d,%d]", SeverityFile, i+2, w,
				diagnosis.MinSymptomWeight, diagnosis.MaxSymptomWeight)
		}
		weights = append(weights, diagnosis.SymptomWeight{Key: strings.TrimSpace(row[0]), Weight: w})
	}
	catalog := diagnosis.NewSymptomCatalog(weights)
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%s has no rows", SeverityFile)
	}
	return catalog, nil
}

// DiseaseCatalog joins descriptions with precautions. The description table
// is required; a missing precaution table leaves precautions empty.
func (l *Loader) DiseaseCatalog(_ context.Context) (*diagnosis.DiseaseCatalog, domain.LoadResult) {
	descRows, err := readCSV(l.aiData, DescriptionFile)
	if err != nil {
		return diagnosis.FallbackDiseases(), domain.UsedDefault(DescriptionFile, err)
	}
	diseases := make([]diagnosis.Disease, 0, len(descRows))
	for _, row := range descRows {
		if len(row) < 2 {
			continue
		}
		diseases = append(diseases, diagnosis.Disease{Label: strings.TrimSpace(row[0]), Description: strings.TrimSpace(row[1])})
	}

	result := domain.Loaded(DescriptionFile)
	precRows, err := readCSV(l.aiData, PrecautionFile)
	if err != nil {
		result.Reason = "precautions unavailable: " + err.Error()
	}
	for _, row := range precRows {
		if len(row) < 2 {
			continue
		}
		var precautions []string
		for _, p := range row[1:] {
			if p = strings.TrimSpace(p); p != "" {
				precautions = append(precautions, p)
			}
		}
		diseases = append(diseases, diagnosis.Disease{Label: strings.TrimSpace(row[0]), Precautions: precautions})
	}

	catalog := diagnosis.NewDiseaseCatalog(diseases)
	if catalog.Len() == 0 {
		return diagnosis.FallbackDiseases(), domain.UsedDefault(DescriptionFile, fmt.Errorf("%s has no rows", DescriptionFile))
	}
	return catalog, result
}

// TrainingSet returns nil when the table is unavailable; the predictor then
// trains on a synthetic table.
func (l *Loader) TrainingSet(_ context.Context) (*diagnosis.TrainingSet, domain.LoadResult) {
	set, err := l.readTraining()
	if err != nil {
		return nil, domain.UsedDefault(TrainingFile, err)
	}
	return set, domain.Loaded(TrainingFile)
}

func (l *Loader) readTraining() (*diagnosis.TrainingSet, error) {
	f, err := open(l.aiData, TrainingFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s header: %w", TrainingFile, err)
	}
	labelAt := -1
	var columns []int
	set := &diagnosis.TrainingSet{}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case name == labelColumn:
			labelAt = i
		case name == "" || strings.HasPrefix(name, "Unnamed"):
		default:
			columns = append(columns, i)
			set.Features = append(set.Features, name)
		}
	}
	if labelAt < 0 {
		return nil, fmt.Errorf("%s has no %q column", TrainingFile, labelColumn)
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", TrainingFile, line, err)
		}
		if labelAt >= len(rec) || strings.TrimSpace(rec[labelAt]) == "" {
			continue
		}
		row := make([]float64, len(columns))
		for j, c := range columns {
			if c >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[c])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %s: %w", TrainingFile, line, set.Features[j], err)
			}
			row[j] = v
		}
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, strings.TrimSpace(rec[labelAt]))
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// TriageRules returns one result for the red-flag file and one for the
// threshold file.
func (l *Loader) TriageRules(_ context.Context) (triage.RuleSet, []domain.LoadResult) {
	rules := triage.DefaultRuleSet()
	results := make([]domain.LoadResult, 0, 2)

	var flags triage.RedFlags
	if name, err := decodeStructured(l.appData, redFlagsBase, &flags); err != nil {
		results = append(results, domain.UsedDefault(name, err))
	} else {
		rules.RedFlags = flags
		results = append(results, domain.Loaded(name))
	}

	thresholds := triage.DefaultThresholds()
	if name, err := decodeStructured(l.appData, rulesBase, &thresholds); err != nil {
		results = append(results, domain.UsedDefault(name, err))
	} else {
		rules.Thresholds = thresholds
		results = append(results, domain.Loaded(name))
	}
	return rules, results
}

func (l *Loader) Topics(_ context.Context) ([]domain.Topic, domain.LoadResult) {
	var topics []domain.Topic
	name, err := decodeStructured(l.appData, topicsBase, &topics)
	if err != nil {
		return []domain.Topic{}, domain.UsedDefault(name, err)
	}
	out := topics[:0]
	for _, t := range topics {
		if strings.TrimSpace(t.ID) == "" && strings.TrimSpace(t.Title) == "" {
			continue
		}
		out = append(out, t)
	}
	return out, domain.Loaded(name)
}

func open(fsys fs.FS, name string) (fs.File, error) {
	if fsys == nil {
		return nil, errors.New("data directory not configured")
	}
	return fsys.Open(name)
}

// readCSV returns the data rows of a CSV file without its header.
func readCSV(fsys fs.FS, name string) ([][]string, error) {
	f, err := open(fsys, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s has no data rows", name)
	}
	return records[1:], nil
}

// decodeStructured decodes the first existing base+ext file, JSON or YAML by
// extension. It returns the file name it tried last.
func decodeStructured(fsys fs.FS, base string, v any) (string, error) {
	if fsys == nil {
		return base + structuredExts[0], errors.New("data directory not configured")
	}
	for _, ext := range structuredExts {
		name := base + ext
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return name, err
		}
		if path.Ext(name) == ".json" {
			err = json.Unmarshal(data, v)
		} else {
			err = yaml.Unmarshal(data, v)
		}
		if err != nil {
			return name, fmt.Errorf("decode %s: %w", name, err)
		}
		return name, nil
	}
	return base + structuredExts[0], fmt.Errorf("%s.{json,yaml,yml}: %w", base, fs.ErrNotExist)
}
