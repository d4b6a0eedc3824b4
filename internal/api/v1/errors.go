package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

// toHTTPError maps domain errors onto status codes. Anything unrecognised is
// a 500 carrying msg.
func toHTTPError(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("task not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrInvalidIndex):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
