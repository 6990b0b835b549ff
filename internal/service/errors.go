package service

import (
	"errors"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

// classify maps repository sentinels onto the domain taxonomy. Anything else is
// returned untouched and reported as internal by the transport.
func classify(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound(notFoundMsg)
	case errors.Is(err, repository.ErrAlreadyExists):
		return domain.Conflict(err.Error())
	default:
		return err
	}
}
