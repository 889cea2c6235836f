package handlers

import (
	"errors"
	"log/slog"

	"github.com/crucial707/dessert-menu/internal/service"
)

// ErrMessageInternal is the generic message shown when a request fails for a
// reason the visitor can do nothing about. Do not expose internal details.
const ErrMessageInternal = "Something went wrong. Please try again."

// errorMessage maps a domain error to the message rendered inline on the
// originating view. Unexpected errors are logged and replaced with the
// generic message.
func errorMessage(err error) string {
	var (
		validation *service.ValidationError
		conflict   *service.ConflictError
		authz      *service.AuthorizationError
		authn      *service.AuthenticationError
		notFound   *service.NotFoundError
	)
	switch {
	case errors.As(err, &validation),
		errors.As(err, &conflict),
		errors.As(err, &authz),
		errors.As(err, &authn),
		errors.As(err, &notFound):
		return err.Error()
	default:
		slog.Error("request failed", "err", err)
		return ErrMessageInternal
	}
}
