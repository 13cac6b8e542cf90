package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"campstation/internal/app/middleware"
	domainpricing "campstation/internal/domain/pricing"
)

type apiError struct {
	status int
	code   string
}

func classify(err error) apiError {
	switch {
	case errors.Is(err, domainpricing.ErrInvalidDateRange):
		return apiError{http.StatusBadRequest, "INVALID_DATE_RANGE"}
	case errors.Is(err, domainpricing.ErrInvalidGuestCount):
		return apiError{http.StatusBadRequest, "INVALID_GUEST_COUNT"}
	case errors.Is(err, domainpricing.ErrGuestCountExceeded):
		return apiError{http.StatusBadRequest, "GUEST_COUNT_EXCEEDED"}
	case errors.Is(err, domainpricing.ErrNoApplicableRule):
		return apiError{http.StatusNotFound, "NO_APPLICABLE_RULE"}
	case errors.Is(err, domainpricing.ErrRuleConfiguration):
		return apiError{http.StatusInternalServerError, "RULE_CONFIGURATION"}
	case errors.Is(err, middleware.ErrValidation):
		return apiError{http.StatusBadRequest, "INVALID_REQUEST"}
	}
	return apiError{http.StatusInternalServerError, "INTERNAL"}
}

func respondWithError(c *gin.Context, logger *slog.Logger, err error, fields ...any) {
	apiErr := classify(err)
	if logger != nil {
		attrs := append([]any{"status", apiErr.status, "code", apiErr.code, "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id")}, fields...)
		if apiErr.status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request rejected", attrs...)
		}
	}
	c.JSON(apiErr.status, gin.H{"error": err.Error(), "code": apiErr.code})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_REQUEST"})
}
