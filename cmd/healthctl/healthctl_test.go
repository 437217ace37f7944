package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--database-dsn", "sqlite::memory:",
		"--ai-data-dir", filepath.Join(dir, "ai"),
		"--data-dir", filepath.Join(dir, "app"),
		"--storage-path", filepath.Join(dir, "storage"),
		"--sync-backend", "none",
		"--log-level", "error",
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAssessCommandPrintsResult(t *testing.T) {
	out, err := runCLI(t, "assess", "--symptoms", "khó thở, đau ngực", "--age", "40", "--days", "1")
	require.NoError(t, err)

	var result domain.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotEmpty(t, result.Priority)
	assert.NotEmpty(t, result.Message)
}

func TestAssessCommandRejectsEmptySymptoms(t *testing.T) {
	_, err := runCLI(t, "assess", "--age", "40")
	require.Error(t, err)
	assert.Equal(t, "Vui lòng nhập triệu chứng", err.Error())
}

func TestInitAICommandReportsFallbackData(t *testing.T) {
	out, err := runCLI(t, "init-ai")
	require.NoError(t, err)

	var summary struct {
		Report       diagnosis.InitReport `json:"report"`
		MissingFiles []string             `json:"missing_files"`
		Symptoms     int                  `json:"symptoms"`
		Sample       domain.Diagnosis     `json:"sample_prediction"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Len(t, summary.MissingFiles, len(requiredAIFiles))
	assert.Positive(t, summary.Symptoms)
	assert.NotEmpty(t, summary.Sample.Disease)
	assert.Equal(t, domain.DefaultQuickAge, summary.Sample.AgeFactor)
}

func TestCreateAdminCommand(t *testing.T) {
	out, err := runCLI(t, "create-admin", "--email", "Boss@HealthFirst.com", "--password", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "boss@healthfirst.com")
}

func TestDemoCommandRunsFullFlow(t *testing.T) {
	out, err := runCLI(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Đăng nhập thành công: demo@healthfirst.com")
	assert.Contains(t, out, "BMI: 22.9")
	assert.Contains(t, out, "Mức độ: ")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Demo hoàn tất!"))
}

func TestConfigFileOverlaysEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("triage_mode: keyword\nmodel_path: models/alt.json\n"), 0o600))

	opts := &rootOptions{cfgFile: path, v: viper.New()}
	require.NoError(t, opts.initConfig())
	cfg := opts.config()
	assert.Equal(t, "keyword", cfg.TriageMode)
	assert.Equal(t, "models/alt.json", cfg.ModelPath)
}

func TestMissingConfigFileFails(t *testing.T) {
	opts := &rootOptions{cfgFile: filepath.Join(t.TempDir(), "absent.yaml"), v: viper.New()}
	assert.Error(t, opts.initConfig())
}
