package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"docgen/internal"
)

type Config struct {
	BaseDir string `env:"DOCGEN_BASE_DIR"`

	CodeBookPath  string `env:"CODEBOOK_PATH" envDefault:"sifarnik.xlsx" validate:"required"`
	CodeBookSheet string `env:"CODEBOOK_SHEET" envDefault:"Sifarnik" validate:"required"`
	InputPath     string `env:"INPUT_PATH" envDefault:"ulaz.xlsx" validate:"required"`
	InputSheet    string `env:"INPUT_SHEET" envDefault:"Ulaz" validate:"required"`
	TemplatePath  string `env:"TEMPLATE_PATH" envDefault:"sablon.docx" validate:"required"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"izlaz" validate:"required"`
	AliasFile     string `env:"ALIAS_FILE"`

	MissReport bool `env:"MISS_REPORT" envDefault:"true"`
	DryRun     bool `env:"DRY_RUN" envDefault:"false"`

	JournalEnabled bool   `env:"JOURNAL_ENABLED" envDefault:"true"`
	JournalPath    string `env:"JOURNAL_PATH" envDefault:"data/docgen.db" validate:"required_if=JournalEnabled true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error"`
	LogFile  string `env:"LOG_FILE"`

	WatchIntervalSec int `env:"WATCH_INTERVAL_SEC" envDefault:"10" validate:"min=1"`
}

// Load reads .env (if present) and the environment. Relative paths are
// resolved against DOCGEN_BASE_DIR, which defaults to the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, &internal.ConfigurationError{Reason: "cannot parse environment", Err: err}
	}
	if strings.TrimSpace(cfg.BaseDir) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, err
		}
		cfg.BaseDir = cwd
	}
	return cfg, nil
}

// Validate checks field constraints. Failures are configuration errors.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return &internal.ConfigurationError{Reason: "invalid settings: " + strings.Join(fields, ", ")}
		}
		return &internal.ConfigurationError{Reason: "invalid settings", Err: err}
	}
	return nil
}

// Path resolves p against BaseDir unless it is already absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func (c Config) CodeBookFile() string { return c.Path(c.CodeBookPath) }
func (c Config) InputFile() string    { return c.Path(c.InputPath) }
func (c Config) TemplateFile() string { return c.Path(c.TemplatePath) }
func (c Config) OutputPath() string   { return c.Path(c.OutputDir) }
func (c Config) JournalFile() string  { return c.Path(c.JournalPath) }

func (c Config) AliasPath() string {
	return c.Path(c.AliasFile)
}
