package shared

import (
	"net/http"

	"emprecords/internal/domain/employee"
	"emprecords/internal/transport/http/api"
)

// FailValidation answers with every constraint message and the per-field issues
// under details.fields.
func FailValidation(w http.ResponseWriter, requestID, message string, issues []employee.FieldIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		message,
		map[string]any{"fields": issues},
		requestID,
	)
}
