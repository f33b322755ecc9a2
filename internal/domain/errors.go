package domain

import "errors"

// ErrPersistenceUnavailable is returned by store functions when the underlying
// key-value storage could not be read or written (quota exceeded, backend down,
// storage disabled). Service handlers treat it as best-effort: the operation
// still completes in memory and the view is flagged as not persisted.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a survey answer outside the 0-5 scale).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrLocationUnavailable is returned when no position or place label could be
// resolved. Handlers should map this to HTTP 503.
var ErrLocationUnavailable = errors.New("location unavailable")
