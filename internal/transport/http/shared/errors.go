package shared

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"emprecords/internal/domain/employee"
	"emprecords/internal/transport/http/api"
)

const msgUnexpected = "Error processing request!"

// FailFromError writes the response for an error returned by the employee service.
func FailFromError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, requestID string) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("requestId", requestID),
	}

	var domainErr *employee.Error
	if !errors.As(err, &domainErr) {
		logger.Error("request failed", append(fields, zap.Error(err))...)
		api.Fail(w, http.StatusInternalServerError, "internal_error", msgUnexpected, requestID)
		return
	}

	switch domainErr.Kind {
	case employee.KindEmptyResult:
		logger.Warn(domainErr.Message, fields...)
		api.NoContent(w, requestID)
	case employee.KindInvalidArgument:
		logger.Warn(domainErr.Message, fields...)
		api.Fail(w, http.StatusBadRequest, domainErr.Kind.String(), domainErr.Message, requestID)
	case employee.KindValidation:
		logger.Warn("validation failed", append(fields, zap.Any("fields", domainErr.Fields))...)
		FailValidation(w, requestID, domainErr.Message, domainErr.Fields)
	case employee.KindCyclicHierarchy:
		logger.Error(domainErr.Message, fields...)
		api.Fail(w, http.StatusConflict, domainErr.Kind.String(), domainErr.Message, requestID)
	default:
		logger.Error("request failed", append(fields, zap.Error(err))...)
		api.Fail(w, http.StatusInternalServerError, "internal_error", msgUnexpected, requestID)
	}
}
