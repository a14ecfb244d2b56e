package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docgen/internal/config"
	"docgen/internal/logging"
	"docgen/internal/storage"
)

// options are command line overrides of the environment configuration.
type options struct {
	input         string
	inputSheet    string
	codeBook      string
	codeBookSheet string
	template      string
	output        string
	aliases       string
	logLevel      string
	dryRun        bool
	noJournal     bool
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.input, "input", "", "Roster workbook (INPUT_PATH)")
	f.StringVar(&o.inputSheet, "input-sheet", "", "Roster sheet name (INPUT_SHEET)")
	f.StringVar(&o.codeBook, "codebook", "", "Code book workbook (CODEBOOK_PATH)")
	f.StringVar(&o.codeBookSheet, "codebook-sheet", "", "Code book sheet name (CODEBOOK_SHEET)")
	f.StringVar(&o.template, "template", "", "Document template (TEMPLATE_PATH)")
	f.StringVar(&o.output, "output", "", "Output directory (OUTPUT_DIR)")
	f.StringVar(&o.aliases, "aliases", "", "Extra column aliases, YAML (ALIAS_FILE)")
	f.StringVar(&o.logLevel, "log-level", "", "trace|debug|info|warn|error (LOG_LEVEL)")
	f.BoolVar(&o.dryRun, "dry-run", false, "Resolve every row but write nothing")
	f.BoolVar(&o.noJournal, "no-journal", false, "Do not record the run in the journal")
}

func (o options) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.InputPath, o.input)
	set(&cfg.InputSheet, o.inputSheet)
	set(&cfg.CodeBookPath, o.codeBook)
	set(&cfg.CodeBookSheet, o.codeBookSheet)
	set(&cfg.TemplatePath, o.template)
	set(&cfg.OutputDir, o.output)
	set(&cfg.AliasFile, o.aliases)
	set(&cfg.LogLevel, o.logLevel)
	if o.dryRun {
		cfg.DryRun = true
	}
	if o.noJournal {
		cfg.JournalEnabled = false
	}
}

// env is what every command works with: the effective configuration, the
// logger and, when enabled, the journal.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	journal *storage.DB
	closers []io.Closer
}

func setup(opts options, openJournal bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, withCode(exitConfig, err)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, withCode(exitConfig, err)
	}

	log, closer, err := logging.New(cfg.LogLevel, os.Stderr, cfg.Path(cfg.LogFile))
	if err != nil {
		return nil, withCode(exitConfig, err)
	}
	e := &env{cfg: cfg, log: log, closers: []io.Closer{closer}}

	if openJournal && cfg.JournalEnabled {
		db, err := storage.Open(cfg.JournalFile())
		if err != nil {
			log.WithError(err).WithField("path", cfg.JournalFile()).Warn("journal unavailable, continuing without it")
		} else {
			e.journal = db
			e.closers = append(e.closers, db)
		}
	}
	return e, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}
