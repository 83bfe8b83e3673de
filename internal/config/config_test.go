package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/config"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	// Equivalent of testing.T.Chdir (Go 1.24+) for older toolchains.
	prev, err := os.Getwd()
	s.Require().NoError(err)
	s.Require().NoError(os.Chdir(s.dir))
	s.T().Cleanup(func() { _ = os.Chdir(prev) })
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load(config.LoadOptions{})
	s.Require().NoError(err)
	s.Require().NoError(cfg.Resolve())
	s.Require().NoError(cfg.Validate())

	root, err := filepath.EvalSymlinks(s.dir)
	s.Require().NoError(err)
	actual, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	s.Require().NoError(err)
	s.Equal(root, actual)

	s.Equal(filepath.Join(cfg.ProjectRoot, "ARC_setting"), cfg.SettingDir)
	s.Equal(filepath.Join(cfg.ProjectRoot, "output"), cfg.OutputDir)
	s.Equal(filepath.Join(cfg.ProjectRoot, "output", "output_HTML"), cfg.HTMLOutDir)
	s.Equal(filepath.Join(cfg.OutputDir, ".drafts"), cfg.DraftDir())
	s.Equal(60*time.Second, cfg.PDF.Timeout)
	s.Equal(300*time.Millisecond, cfg.Watch.Debounce)
	s.Equal(config.DraftBackendFile, cfg.Drafts.Backend)
	s.Equal(filepath.Join(cfg.SettingDir, "Reality.json"), cfg.CatalogPaths().Competency)
}

func (s *ConfigTestSuite) TestLayering() {
	s.write(config.DefaultConfigFile, `
project_root: /srv/agency
pdf:
  engine: rod
  timeout: 90s
drafts:
  backend: redis
  redis_url: redis://localhost:6379/0
log:
  level: debug
`)
	s.write(config.DefaultEnvFile, "SHEET_LOG_FORMAT=json\nSHEET_PDF_TIMEOUT=2m\n")
	s.T().Cleanup(func() { _ = os.Unsetenv("SHEET_LOG_FORMAT") })
	s.T().Setenv("SHEET_OUTPUT_DIR", "/data/out")
	s.T().Setenv("SHEET_PDF_TIMEOUT", "30s")

	cfg, err := config.Load(config.LoadOptions{})
	s.Require().NoError(err)
	s.Require().NoError(cfg.Resolve())
	s.Require().NoError(cfg.Validate())

	s.Equal("/srv/agency", cfg.ProjectRoot)
	s.Equal("rod", cfg.PDF.Engine)
	s.Equal(30*time.Second, cfg.PDF.Timeout, "process environment wins over the env file")
	s.Equal("json", cfg.Log.Format)
	s.Equal("/data/out", cfg.OutputDir)
	s.Equal("/data/out/output_HTML", cfg.HTMLOutDir)
	s.Equal("/srv/agency/ARC_setting", cfg.SettingDir)
	s.Equal("redis://localhost:6379/0", cfg.Drafts.RedisURL)
}

func (s *ConfigTestSuite) TestExplicitFilesMustExist() {
	_, err := config.Load(config.LoadOptions{ConfigFile: filepath.Join(s.dir, "missing.yaml")})
	s.True(errors.IsNotFound(err))

	_, err = config.Load(config.LoadOptions{EnvFile: filepath.Join(s.dir, "missing.env")})
	s.True(errors.IsNotFound(err))

	path := s.write("custom.yaml", "output_dir: /tmp/custom\n")
	cfg, err := config.Load(config.LoadOptions{ConfigFile: path})
	s.Require().NoError(err)
	s.Equal("/tmp/custom", cfg.OutputDir)
}

func (s *ConfigTestSuite) TestInvalidInputs() {
	path := s.write("bad.yaml", "pdf: [unclosed\n")
	_, err := config.Load(config.LoadOptions{ConfigFile: path})
	s.True(errors.IsInvalidArgument(err))

	s.T().Setenv("SHEET_PDF_TIMEOUT", "soon")
	_, err = config.Load(config.LoadOptions{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidate() {
	cfg := config.Default()
	s.Require().NoError(cfg.Resolve())

	cfg.PDF.Engine = "wkhtmltopdf"
	cfg.PDF.Timeout = 0
	cfg.Drafts.Backend = config.DraftBackendRedis
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	for _, field := range []string{"pdf.engine", "pdf.timeout", "drafts.redis_url", "log.level"} {
		s.Contains(err.Error(), field)
	}
}
