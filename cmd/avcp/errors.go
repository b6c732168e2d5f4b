package main

import (
	"errors"

	"github.com/gorewood/avcp/internal/changelog"
	"github.com/gorewood/avcp/internal/config"
	"github.com/gorewood/avcp/internal/contract"
	"github.com/gorewood/avcp/internal/metadata"
	"github.com/gorewood/avcp/internal/output"
	"github.com/gorewood/avcp/internal/readme"
	"github.com/gorewood/avcp/internal/render"
	"github.com/gorewood/avcp/internal/table"
)

// userErrors are failures caused by the inputs rather than the environment.
var userErrors = []error{
	metadata.ErrNotFound,
	metadata.ErrMalformed,
	metadata.ErrNotMapping,
	render.ErrTemplateNotFound,
	render.ErrTemplate,
	config.ErrNotFound,
	config.ErrMalformed,
	contract.ErrViolation,
	changelog.ErrEmptyEntry,
	table.ErrShape,
}

// toExitError maps a library error onto the CLI exit code taxonomy.
// ExitErrors pass through unchanged.
func toExitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	if errors.Is(err, readme.ErrStale) {
		return output.NewStaleError("README is out of date. Run: "+readme.RegenerateHint, err)
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return output.NewUserErrorWithCause(err.Error(), err)
		}
	}
	return output.NewSystemErrorWithCause(err.Error(), err)
}
