package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidation = "NODEVIS_COMMAND_INVALID"
	codeCanceled   = "NODEVIS_COMMAND_CANCELED"
	codeTimeout    = "NODEVIS_COMMAND_TIMEOUT"
	codeFailed     = "NODEVIS_COMMAND_FAILED"
)

// wrapValidationError tags message validation failures. Errors already
// carrying a go-errors category keep it.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid visibility command").
		WithTextCode(codeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "visibility command timed out").
			WithTextCode(codeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "visibility command canceled").
		WithTextCode(codeCanceled)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "visibility command failed").
		WithTextCode(codeFailed)
}
