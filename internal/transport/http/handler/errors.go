package handler

import (
	"errors"

	"storefront/internal/domain"
	httpez "storefront/internal/transport/http/ez"
)

// mapError 领域错误 -> HTTP 错误；未知错误按 500 处理，fallback 作为对外文案
func mapError(err error, fallback string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return httpez.BadRequest(ve.Error())
	case errors.Is(err, domain.ErrInvalidID):
		return httpez.BadRequest("Invalid ID")
	case errors.Is(err, domain.ErrNotFound):
		return httpez.NotFound("Item not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return httpez.Unauthorized("Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		return httpez.Unauthorized("Unauthorized")
	case errors.Is(err, domain.ErrStorageUnconfigured):
		return httpez.Unavailable("Image upload is not configured. Set R2 environment variables.", err)
	case errors.Is(err, domain.ErrCheckoutUnconfigured):
		return httpez.Unavailable("Checkout not configured", err)
	default:
		return httpez.Internal(fallback, err)
	}
}
