package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"emprecords/internal/domain/employee"
	"emprecords/internal/transport/http/api"
)

// DecodeJSON reads a single JSON value from the request body into dst. On failure it
// writes the 400 response itself and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, dst any, requestID string) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	message := decodeMessage(err)
	logger.Warn("invalid payload",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("requestId", requestID),
		zap.Error(err),
	)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", message, requestID)
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", message, requestID)
	return false
}

func decodeMessage(err error) string {
	var dateErr *employee.DateFormatError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &dateErr):
		return dateErr.Error()
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %s must be of type %s", typeErr.Field, typeErr.Type)
	default:
		return err.Error()
	}
}
