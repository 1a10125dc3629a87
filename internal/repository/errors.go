package repository

import "errors"

// ErrNotFound indicates the requested record does not exist. Postgres
// implementations translate pgx.ErrNoRows into it so callers never depend
// on driver types.
var ErrNotFound = errors.New("repository: not found")
