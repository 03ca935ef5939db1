package transport

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/pricing"
	"localshop/internal/repository"
	"localshop/internal/service"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrLineIndex),
		errors.Is(err, pricing.ErrLastLine):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal errors are logged
// and replaced by fallback so storage details never reach the client.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, status, fallback)
		return
	}

	logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	middleware.RespondWithError(w, status, err.Error())
}

// messageResponse is the body of successful deletes and logouts
type messageResponse struct {
	Message string `json:"message"`
}
