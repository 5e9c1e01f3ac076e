package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "stayhub/internal/app/handlers/availability"
	propertiesapp "stayhub/internal/app/handlers/properties"
	searchapp "stayhub/internal/app/handlers/search"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/policies"
	authsvc "stayhub/internal/app/services/auth"
	domainauth "stayhub/internal/domain/auth"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	domainsearch "stayhub/internal/domain/search"
	"stayhub/internal/domain/shared/daterange"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/s3"
	"stayhub/internal/infra/validation"
)

const internalErrorMessage = "internal error"

var errBadRequest = errors.New("invalid request")

// ErrorResponder maps application errors to HTTP statuses. Verbose exposes
// the underlying message of server errors and is meant for dev only.
type ErrorResponder struct {
	Logger  *slog.Logger
	Verbose bool
}

// Respond writes {"error": message} with the status StatusFor picks.
func (r ErrorResponder) Respond(c *gin.Context, err error) {
	status := StatusFor(err)
	c.JSON(status, gin.H{"error": r.message(c, status, err)})
}

// message records err on c, logs it and returns what the client may see.
func (r ErrorResponder) message(c *gin.Context, status int, err error) string {
	_ = c.Error(err)
	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		if r.Logger != nil {
			fields := []any{"status", status, "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id")}
			if p, ok := currentPrincipal(c); ok {
				fields = append(fields, "user_id", p.UserID)
			}
			r.Logger.Error("request failed", fields...)
		}
		if !r.Verbose {
			return internalErrorMessage
		}
	}
	return err.Error()
}

func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, middleware.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, policies.ErrUnauthenticated),
		errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, domainauth.ErrSessionNotFound),
		errors.Is(err, domainauth.ErrTokenRequired):
		return http.StatusUnauthorized
	case errors.Is(err, policies.ErrForbidden),
		errors.Is(err, authsvc.ErrUserBlocked):
		return http.StatusForbidden
	case errors.Is(err, properties.ErrNotFound),
		errors.Is(err, policies.ErrNotOwned),
		errors.Is(err, domainuser.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		return http.StatusConflict
	case errors.Is(err, propertiesapp.ErrUploaderMissing),
		errors.Is(err, s3.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case isValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, validation.ErrInvalid),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, searchapp.ErrDatesRequired),
		errors.Is(err, searchapp.ErrCheckInPast),
		errors.Is(err, domainsearch.ErrNoGuests),
		errors.Is(err, domainsearch.ErrNegativeGuests),
		errors.Is(err, domainsearch.ErrNegativeRooms),
		errors.Is(err, domainsearch.ErrTooManyGuests),
		errors.Is(err, properties.ErrTitleRequired),
		errors.Is(err, properties.ErrHostRequired),
		errors.Is(err, properties.ErrNegativeCapacity),
		errors.Is(err, properties.ErrNegativePrice),
		errors.Is(err, properties.ErrInvalidStatus),
		errors.Is(err, properties.ErrInvalidKind),
		errors.Is(err, properties.ErrNameRequired),
		errors.Is(err, properties.ErrMediaURL),
		errors.Is(err, propertiesapp.ErrUnknownFeature),
		errors.Is(err, propertiesapp.ErrUnknownRoomType),
		errors.Is(err, propertiesapp.ErrHostRequired),
		errors.Is(err, propertiesapp.ErrMediaRequired),
		errors.Is(err, availability.ErrInvalidStatus),
		errors.Is(err, availability.ErrInvalidHorizon),
		errors.Is(err, availabilityapp.ErrCalendarWindow),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, security.ErrPasswordTooLong):
		return true
	}
	return false
}
