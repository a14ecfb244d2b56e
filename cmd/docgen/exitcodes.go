package main

import (
	"github.com/go-faster/errors"

	"docgen/internal"
	"docgen/internal/docx"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK       = 0
	exitFailure  = 1
	exitConfig   = 2
	exitTemplate = 3
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// exitCode maps an error to the process status. Lookup misses never reach
// here: a run with misses still succeeds.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var cfgErr *internal.ConfigurationError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	var tplErr *docx.TemplateError
	if errors.As(err, &tplErr) {
		return exitTemplate
	}
	return exitFailure
}
