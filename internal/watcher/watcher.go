package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"docgen/internal/config"
	"docgen/internal/pipeline"
)

// FingerprintKey is the metadata key holding the fingerprint of the inputs
// used by the last run.
const FingerprintKey = "watch.fingerprint"

type Runner interface {
	Run(ctx context.Context) (pipeline.Summary, error)
}

type Store interface {
	GetMetadata(key string) (*string, error)
	SetMetadata(key, value string) error
}

// Service reruns the pipeline whenever the code book, the roster or the
// template changes on disk.
type Service struct {
	cfg    config.Config
	log    *logrus.Logger
	runner Runner
	store  Store
	last   string
}

// NewService builds a watcher. store may be nil, in which case the
// fingerprint is only kept in memory and the first cycle always runs.
func NewService(cfg config.Config, log *logrus.Logger, runner Runner, store Store) *Service {
	return &Service{cfg: cfg, log: log, runner: runner, store: store}
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	s.log.WithField("interval", interval).Info("watching inputs")
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.WithError(err).Error("watch cycle failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle runs the pipeline once if the inputs changed since the last run.
// It reports whether a run happened. The new fingerprint is stored even when
// the run fails, so a broken input is retried only after it is edited.
func (s *Service) RunCycle(ctx context.Context) (bool, error) {
	sum, err := Fingerprint(s.cfg.CodeBookFile(), s.cfg.InputFile(), s.cfg.TemplateFile())
	if err != nil {
		return false, err
	}
	prev, err := s.previous()
	if err != nil {
		return false, err
	}
	if sum == prev {
		s.log.Debug("inputs unchanged")
		return false, nil
	}

	s.log.WithField("fingerprint", sum[:12]).Info("inputs changed, generating documents")
	summary, runErr := s.runner.Run(ctx)
	if err := s.remember(sum); err != nil {
		return true, err
	}
	if runErr != nil {
		return true, runErr
	}
	s.log.WithFields(logrus.Fields{
		"run":    summary.RunID,
		"hits":   summary.Tally.Hits,
		"misses": summary.Tally.Misses,
	}).Info("watch cycle done")
	return true, nil
}

func (s *Service) previous() (string, error) {
	if s.store == nil {
		return s.last, nil
	}
	v, err := s.store.GetMetadata(FingerprintKey)
	if err != nil {
		return "", errors.Wrap(err, "read fingerprint")
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (s *Service) remember(sum string) error {
	s.last = sum
	if s.store == nil {
		return nil
	}
	if err := s.store.SetMetadata(FingerprintKey, sum); err != nil {
		return errors.Wrap(err, "store fingerprint")
	}
	return nil
}

// Fingerprint hashes the path and content of every file. A missing file
// contributes a marker instead of content, so its later creation is noticed.
func Fingerprint(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		_, _ = io.WriteString(h, p)
		h.Write([]byte{0})
		f, err := os.Open(p)
		if errors.Is(err, os.ErrNotExist) {
			_, _ = io.WriteString(h, "missing")
			h.Write([]byte{0})
			continue
		}
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", errors.Wrapf(err, "hash %s", p)
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
