// Package config loads agency-sheet settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then an
// optional .env file and the process environment (SHEET_ prefixed). Command
// line flags are applied last by the caller. Directories left empty are
// derived from the project root once every layer has been applied.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/pdf"
	"github.com/KirkDiggler/agency-sheet/internal/repositories/drafts"
)

// Defaults
const (
	EnvPrefix         = "SHEET_"
	DefaultConfigFile = "agency-sheet.yaml"
	DefaultEnvFile    = ".env"

	SettingDirName = "ARC_setting"
	OutputDirName  = "output"
	HTMLDirName    = "output_HTML"

	DraftBackendFile  = "file"
	DraftBackendRedis = "redis"
)

// Config holds every setting of the tool.
type Config struct {
	// ProjectRoot anchors relative portrait paths and the default directories.
	ProjectRoot string `yaml:"project_root" env:"PROJECT_ROOT"`
	// SettingDir holds the three catalog files.
	SettingDir string `yaml:"setting_dir" env:"SETTING_DIR"`
	// OutputDir receives saved characters, one directory each.
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
	// HTMLOutDir receives renders made without an explicit output path.
	HTMLOutDir string `yaml:"html_out_dir" env:"HTML_OUT_DIR"`
	// TemplatePath overrides the built-in sheet template.
	TemplatePath string `yaml:"template" env:"TEMPLATE"`

	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
	PDF    PDFConfig    `yaml:"pdf" envPrefix:"PDF_"`
	Drafts DraftsConfig `yaml:"drafts" envPrefix:"DRAFTS_"`
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Watch  WatchConfig  `yaml:"watch" envPrefix:"WATCH_"`
}

// LogConfig configures the default slog logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// PDFConfig configures the PDF converter.
type PDFConfig struct {
	Engine  string        `yaml:"engine" env:"ENGINE"`
	Browser string        `yaml:"browser" env:"BROWSER"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// Skip disables the PDF step of a save.
	Skip bool `yaml:"skip" env:"SKIP"`
}

// DraftsConfig selects where drafts are kept between invocations.
type DraftsConfig struct {
	Backend  string        `yaml:"backend" env:"BACKEND"`
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// WatchConfig configures the re-render watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`
	PDF      bool          `yaml:"pdf" env:"PDF"`
}

// Default returns the built-in settings. Directories stay empty until
// Resolve derives them.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		PDF: PDFConfig{
			Engine:  pdf.EngineExec,
			Timeout: 60 * time.Second,
		},
		Drafts: DraftsConfig{
			Backend: DraftBackendFile,
			TTL:     24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// LoadOptions names the optional files Load reads.
type LoadOptions struct {
	// ConfigFile must exist when set; otherwise DefaultConfigFile is read
	// from the working directory if present.
	ConfigFile string
	// EnvFile must exist when set; otherwise DefaultEnvFile is read if present.
	EnvFile string
}

// Load applies defaults, the YAML file, the env file and the environment.
// Resolve and Validate are left to the caller so flags can still be applied.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if err := cfg.loadYAML(opts.ConfigFile); err != nil {
		return nil, err
	}
	if err := loadDotenv(opts.EnvFile); err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	required := path != ""
	if !required {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return nil
		}
		return errors.WrapWithCode(err, errors.CodeNotFound, "failed to read config file").WithMeta("path", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid config file").WithMeta("path", path)
	}
	return nil
}

func loadDotenv(path string) error {
	required := path != ""
	if !required {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !required && os.IsNotExist(err) {
			return nil
		}
		return errors.WrapWithCode(err, errors.CodeNotFound, "failed to read env file").WithMeta("path", path)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid env file").WithMeta("path", path)
	}
	return nil
}

// Resolve fills empty directories from the project root, which itself
// defaults to the working directory, and makes them absolute.
func (c *Config) Resolve() error {
	if c.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to determine working directory")
		}
		c.ProjectRoot = wd
	}
	root, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return errors.Wrap(err, "failed to resolve project root")
	}
	c.ProjectRoot = root

	if c.SettingDir == "" {
		c.SettingDir = filepath.Join(root, SettingDirName)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(root, OutputDirName)
	}
	if c.HTMLOutDir == "" {
		c.HTMLOutDir = filepath.Join(c.OutputDir, HTMLDirName)
	}
	return nil
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("project_root", c.ProjectRoot, vb)
	errors.ValidateRequired("output_dir", c.OutputDir, vb)
	errors.ValidateEnum("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", strings.ToLower(c.Log.Format), []string{"text", "json"}, vb)
	errors.ValidateEnum("pdf.engine", c.PDF.Engine, []string{pdf.EngineExec, pdf.EngineRod}, vb)
	if c.PDF.Timeout <= 0 {
		vb.Field("pdf.timeout", "must be positive")
	}
	errors.ValidateEnum("drafts.backend", c.Drafts.Backend, []string{DraftBackendFile, DraftBackendRedis}, vb)
	if c.Drafts.Backend == DraftBackendRedis {
		errors.ValidateRequired("drafts.redis_url", c.Drafts.RedisURL, vb)
	}
	if c.Drafts.TTL <= 0 {
		vb.Field("drafts.ttl", "must be positive")
	}
	if c.Watch.Debounce < 0 {
		vb.Field("watch.debounce", "must not be negative")
	}

	return vb.Build()
}

// CatalogPaths locates the catalog files in the setting directory.
func (c *Config) CatalogPaths() catalog.Paths {
	return catalog.Paths{
		Anomaly:    filepath.Join(c.SettingDir, catalog.DefaultAnomalyFile),
		Competency: filepath.Join(c.SettingDir, catalog.DefaultCompetencyFile),
		Role:       filepath.Join(c.SettingDir, catalog.DefaultRoleFile),
	}
}

// DraftDir is where the file backend keeps drafts.
func (c *Config) DraftDir() string {
	return filepath.Join(c.OutputDir, drafts.DirName)
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
