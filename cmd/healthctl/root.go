package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthfirst/homecare/internal/config"
	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/usecase"
	"github.com/healthfirst/homecare/internal/infrastructure/refdata"
	"github.com/healthfirst/homecare/internal/infrastructure/storage/localfs"
	"github.com/healthfirst/homecare/internal/observability/logging"
)

// boundFlags maps viper keys to persistent flags. Keys double as env names
// once upper-cased, so LOG_LEVEL and --log-level set the same value.
var boundFlags = map[string]string{
	"log_level":       "log-level",
	"database_dsn":    "database-dsn",
	"ai_data_dir":     "ai-data-dir",
	"data_dir":        "data-dir",
	"storage_path":    "storage-path",
	"model_path":      "model-path",
	"triage_mode":     "triage-mode",
	"sync_backend":    "sync-backend",
	"sync_local_path": "sync-local-path",
}

type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	cmd := &cobra.Command{
		Use:          "healthctl",
		Short:        "Operator tooling for the HealthFirst home-care service",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return opts.initConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("database-dsn", "", "database DSN, e.g. sqlite://./data/homecare.db")
	flags.String("ai-data-dir", "", "directory with the symptom and disease CSV tables")
	flags.String("data-dir", "", "directory with keyword rules and health topics")
	flags.String("storage-path", "", "object storage root for the model and settings")
	flags.String("model-path", "", "object key of the model artifact")
	flags.String("triage-mode", "", "triage mode: auto or keyword")
	flags.String("sync-backend", "", "document mirror backend: localfs, gcs or none")
	flags.String("sync-local-path", "", "document mirror directory for the localfs backend")
	for key, name := range boundFlags {
		_ = opts.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(
		newInitAICmd(opts),
		newCreateAdminCmd(opts),
		newAssessCmd(opts),
		newDemoCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

func (o *rootOptions) initConfig() error {
	o.v.AutomaticEnv()
	if o.cfgFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.cfgFile)
	if err := o.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", o.cfgFile, err)
	}
	return nil
}

// config starts from the service environment and overlays flags and the
// config file.
func (o *rootOptions) config() config.Config {
	cfg := config.Load()
	overlay := map[string]*string{
		"log_level":       &cfg.LogLevel,
		"database_dsn":    &cfg.DatabaseDSN,
		"ai_data_dir":     &cfg.AIDataDir,
		"data_dir":        &cfg.DataDir,
		"storage_path":    &cfg.StoragePath,
		"model_path":      &cfg.ModelPath,
		"triage_mode":     &cfg.TriageMode,
		"sync_backend":    &cfg.SyncBackend,
		"sync_local_path": &cfg.SyncLocalPath,
	}
	for key, dst := range overlay {
		if v := strings.TrimSpace(o.v.GetString(key)); v != "" {
			*dst = v
		}
	}
	cfg.SyncBackend = strings.ToLower(cfg.SyncBackend)
	return cfg
}

// setup resolves the config and sends logs to stderr so stdout carries only
// command output.
func (o *rootOptions) setup(cmd *cobra.Command) config.Config {
	cfg := o.config()
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), "healthctl", cfg.LogLevel))
	return cfg
}

// triageStack is the database-free part of the service: keyword engine,
// predictor and catalogs.
type triageStack struct {
	assess  *usecase.AssessUseCase
	catalog *usecase.CatalogUseCase
	report  diagnosis.InitReport
}

func buildTriageStack(ctx context.Context, cfg config.Config) (*triageStack, error) {
	objects, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	ref := refdata.NewDirLoader(cfg.AIDataDir, cfg.DataDir)
	engine := usecase.BuildTriageEngine(ctx, ref)
	loader := usecase.NewAIInitUseCase(ref, objects, cfg.ModelPath, cfg.ModelRetrain).Loader(ctx)
	predictor, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("init predictor: %w", err)
	}
	return &triageStack{
		assess:  usecase.NewAssessUseCase(engine, predictor, usecase.ParseTriageMode(cfg.TriageMode), nil, nil, nil),
		catalog: usecase.NewCatalogUseCase(engine, predictor),
		report:  loader.Report(),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
