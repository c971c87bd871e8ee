package services

import (
	"errors"

	"taskboard/repositories"
)

// ErrForbidden marks an operation the caller is authenticated for but not
// entitled to, such as a non-owner editing a group.
var ErrForbidden = errors.New("operation not permitted")

// ErrNotFound is re-exported so handlers can branch without importing the
// repositories package.
var ErrNotFound = repositories.ErrNotFound
