package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docgen/internal"
	"docgen/internal/catalog"
	"docgen/internal/columns"
	"docgen/internal/config"
	"docgen/internal/docx"
	"docgen/internal/util"
)

// Journal keeps a history of runs. A nil Journal disables it.
type Journal interface {
	RecordRun(run internal.RunRecord, misses []internal.LookupMiss) error
}

type Service struct {
	cfg     config.Config
	log     *logrus.Logger
	journal Journal
	now     func() time.Time
}

func NewService(cfg config.Config, log *logrus.Logger, journal Journal) *Service {
	return &Service{cfg: cfg, log: log, journal: journal, now: time.Now}
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Rows       int
	Tally      Tally
	OutputDir  string
	Documents  []string
	Misses     []internal.LookupMiss
	MissReport string
	DryRun     bool
}

// Plan is what a run would work with, computed without writing anything.
type Plan struct {
	CodeBookColumns columns.Map
	InputColumns    columns.Map
	CodeBookEntries int
	MaxCodeLen      int
	Rows            int
	Tags            []docx.Tag
}

type prepared struct {
	index   *catalog.Index
	pad     catalog.Padder
	records []internal.EmployeeRecord
	tpl     *docx.Template
	plan    Plan
}

// Check loads and validates every input without rendering.
func (s *Service) Check(ctx context.Context) (Plan, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	p, err := s.prepare()
	if err != nil {
		return Plan{}, err
	}
	return p.plan, nil
}

// Run generates one document per roster row. Configuration and template
// problems stop the run before any document is written; job codes missing
// from the code book are only counted and logged.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	record := internal.RunRecord{
		ID:           uuid.NewString(),
		StartedAt:    s.now(),
		CodeBookPath: s.cfg.CodeBookFile(),
		InputPath:    s.cfg.InputFile(),
		TemplatePath: s.cfg.TemplateFile(),
		OutputDir:    s.cfg.OutputPath(),
		Status:       internal.RunCompleted,
	}
	if s.cfg.DryRun {
		record.Status = internal.RunDryRun
	}

	summary, err := s.run(ctx, record.ID)

	record.FinishedAt = s.now()
	record.Rows = summary.Rows
	record.Hits = summary.Tally.Hits
	record.Misses = summary.Tally.Misses
	if err != nil {
		record.Status = internal.RunFailed
		record.Error = err.Error()
	}
	if s.journal != nil {
		if jerr := s.journal.RecordRun(record, summary.Misses); jerr != nil {
			s.log.WithError(jerr).WithField("run", record.ID).Error("cannot record run in journal")
		}
	}
	return summary, err
}

func (s *Service) run(ctx context.Context, runID string) (Summary, error) {
	summary := Summary{RunID: runID, OutputDir: s.cfg.OutputPath(), DryRun: s.cfg.DryRun}

	p, err := s.prepare()
	if err != nil {
		return summary, err
	}
	s.log.WithFields(logrus.Fields{
		"run":      runID,
		"codes":    p.plan.CodeBookEntries,
		"rows":     p.plan.Rows,
		"template": s.cfg.TemplateFile(),
	}).Info("inputs loaded")

	if !s.cfg.DryRun {
		if err := os.MkdirAll(summary.OutputDir, 0o755); err != nil {
			return summary, errors.Wrap(err, "create output directory")
		}
	}

	today := util.FormatDate(s.now())
	for _, rec := range p.records {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrap(err, "run interrupted")
		}

		res := ResolveDescription(rec, p.index, p.pad)
		summary.Tally = summary.Tally.Record(res)
		summary.Rows++
		if res.Miss != nil {
			summary.Misses = append(summary.Misses, *res.Miss)
			s.log.WithFields(logrus.Fields{
				"row":    rec.RowNumber,
				"name":   rec.FirstName + " " + rec.LastName,
				"code":   res.Miss.RawKey,
				"padded": res.Miss.PaddedKey,
			}).Warn("job code not found in code book")
		}

		name := OutputFileName(rec.FirstName, rec.LastName)
		path := filepath.Join(summary.OutputDir, name)
		if !s.cfg.DryRun {
			values := NewRenderContext(rec, res.Description, today).Values()
			if err := p.tpl.RenderFile(values, path); err != nil {
				return summary, errors.Wrapf(err, "render row %d", rec.RowNumber)
			}
		}
		summary.Documents = append(summary.Documents, path)

		s.log.WithFields(logrus.Fields{
			"row":         rec.RowNumber,
			"file":        name,
			"description": describe(res.Description),
		}).Info("document generated")
	}

	if s.cfg.MissReport && len(summary.Misses) > 0 && !s.cfg.DryRun {
		report := filepath.Join(summary.OutputDir, MissReportName)
		if err := ExportMissesToXLSX(summary.Misses, report); err != nil {
			return summary, errors.Wrap(err, "write miss report")
		}
		summary.MissReport = report
	}

	s.log.WithFields(logrus.Fields{
		"hits":    summary.Tally.Hits,
		"misses":  summary.Tally.Misses,
		"output":  summary.OutputDir,
		"dry_run": summary.DryRun,
	}).Info("done")
	return summary, nil
}

// prepare loads the alias tables, the code book, the roster and the template,
// in that order, and fails on the first configuration or template problem.
func (s *Service) prepare() (*prepared, error) {
	aliases, err := s.aliases()
	if err != nil {
		return nil, err
	}

	codeBook := s.cfg.CodeBookFile()
	index, codeCols, err := catalog.Load(codeBook, s.cfg.CodeBookSheet, aliases.CodeBook)
	if err != nil {
		return nil, err
	}

	roster, err := ReadRoster(s.cfg.InputFile(), s.cfg.InputSheet, aliases.Input)
	if err != nil {
		return nil, err
	}

	tplPath := s.cfg.TemplateFile()
	tpl, err := docx.Load(tplPath, internal.PlaceholderNames)
	if err != nil {
		var terr *docx.TemplateError
		if errors.As(err, &terr) {
			return nil, err
		}
		return nil, &internal.ConfigurationError{Source: tplPath, Reason: "cannot load template", Err: err}
	}

	records := roster.Records()
	return &prepared{
		index:   index,
		pad:     catalog.DerivePadder(index),
		records: records,
		tpl:     tpl,
		plan: Plan{
			CodeBookColumns: codeCols,
			InputColumns:    roster.Columns,
			CodeBookEntries: index.Len(),
			MaxCodeLen:      index.MaxKeyLen(),
			Rows:            len(records),
			Tags:            tpl.Tags(),
		},
	}, nil
}

func (s *Service) aliases() (columns.Aliases, error) {
	aliases := columns.Default()
	if s.cfg.AliasFile == "" {
		return aliases, nil
	}
	path := s.cfg.AliasPath()
	extra, err := columns.LoadFile(path)
	if err != nil {
		return columns.Aliases{}, &internal.ConfigurationError{Source: path, Reason: "cannot load alias table", Err: err}
	}
	return aliases.Merge(extra), nil
}
