package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/usecase"
	"github.com/healthfirst/homecare/internal/infrastructure/refdata"
	"github.com/healthfirst/homecare/internal/infrastructure/storage/localfs"
)

var requiredAIFiles = []string{
	refdata.TrainingFile,
	refdata.DescriptionFile,
	refdata.PrecautionFile,
	refdata.SeverityFile,
}

var smokeSymptoms = []string{"fever", "headache", "cough"}

type initSummary struct {
	Report       diagnosis.InitReport  `json:"report"`
	MissingFiles []string              `json:"missing_files,omitempty"`
	Symptoms     int                   `json:"symptoms"`
	Diseases     int                   `json:"diseases"`
	Sample       domain.Diagnosis      `json:"sample_prediction"`
	SymptomInfo  diagnosis.SymptomInfo `json:"sample_symptom"`
}

func newInitAICmd(opts *rootOptions) *cobra.Command {
	var retrain bool
	cmd := &cobra.Command{
		Use:   "init-ai",
		Short: "Load or train the diagnosis model and run a smoke prediction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.setup(cmd)
			objects, err := localfs.New(cfg.StoragePath)
			if err != nil {
				return fmt.Errorf("init object storage: %w", err)
			}
			ref := refdata.NewDirLoader(cfg.AIDataDir, cfg.DataDir)
			uc := usecase.NewAIInitUseCase(ref, objects, cfg.ModelPath, retrain || cfg.ModelRetrain)

			predictor, report, err := uc.Initialize(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize predictor: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), initSummary{
				Report:       report,
				MissingFiles: missingFiles(cfg.AIDataDir, requiredAIFiles),
				Symptoms:     len(predictor.Symptoms()),
				Diseases:     len(predictor.Diseases()),
				Sample:       predictor.Predict(smokeSymptoms, domain.DefaultQuickAge, domain.DefaultQuickDays),
				SymptomInfo:  predictor.SymptomInfo("fever"),
			})
		},
	}
	cmd.Flags().BoolVar(&retrain, "retrain", false, "ignore a stored model and train again")
	return cmd
}

func missingFiles(dir string, names []string) []string {
	var missing []string
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}
